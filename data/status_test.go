package data

import (
	"sync"
	"testing"
	"time"

	"github.com/medsafe/medsafe-api/interfaces"
)

func TestNewStatusContainerEmpty(t *testing.T) {
	sc := NewStatusContainer()

	if got := sc.GetStatuses(); len(got) != 0 {
		t.Errorf("Expected empty status list, got %d entries", len(got))
	}
	if !sc.GetLastChecked().IsZero() {
		t.Error("Expected zero lastChecked on a fresh container")
	}
	if sc.IsProbing() {
		t.Error("Expected IsProbing to be false on a fresh container")
	}
}

func TestUpdateStatuses(t *testing.T) {
	sc := NewStatusContainer()

	statuses := []interfaces.ProviderStatus{
		{Name: "gemini", Status: "operational"},
		{Name: "perplexity", Status: "error", Message: "connection refused"},
	}

	before := time.Now()
	sc.UpdateStatuses(statuses)

	got := sc.GetStatuses()
	if len(got) != 2 {
		t.Fatalf("Expected 2 statuses, got %d", len(got))
	}
	if got[0].Name != "gemini" || got[0].Status != "operational" {
		t.Errorf("Expected gemini operational, got %s %s", got[0].Name, got[0].Status)
	}
	if got[1].Message != "connection refused" {
		t.Errorf("Expected error message to be preserved, got %q", got[1].Message)
	}

	lastChecked := sc.GetLastChecked()
	if lastChecked.Before(before) {
		t.Error("Expected lastChecked to be updated by UpdateStatuses")
	}
}

func TestBeginProbeExclusive(t *testing.T) {
	sc := NewStatusContainer()

	if !sc.BeginProbe() {
		t.Fatal("Expected first BeginProbe to succeed")
	}
	if sc.BeginProbe() {
		t.Error("Expected second BeginProbe to fail while probe is in progress")
	}
	if !sc.IsProbing() {
		t.Error("Expected IsProbing to be true during a probe")
	}

	sc.EndProbe()

	if sc.IsProbing() {
		t.Error("Expected IsProbing to be false after EndProbe")
	}
	if !sc.BeginProbe() {
		t.Error("Expected BeginProbe to succeed after EndProbe")
	}
}

func TestServerStartTime(t *testing.T) {
	sc := NewStatusContainer()

	start := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	sc.SetServerStartTime(start)

	if got := sc.GetServerStartTime(); !got.Equal(start) {
		t.Errorf("Expected start time %v, got %v", start, got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	sc := NewStatusContainer()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sc.UpdateStatuses([]interfaces.ProviderStatus{{Name: "gemini", Status: "operational"}})
		}()
		go func() {
			defer wg.Done()
			_ = sc.GetStatuses()
			_ = sc.GetLastChecked()
		}()
	}
	wg.Wait()

	if len(sc.GetStatuses()) != 1 {
		t.Error("Expected final status snapshot to contain one entry")
	}
}
