package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medsafe/medsafe-api/data"
	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/providers"
)

type fakeProvider struct {
	name    string
	connErr error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) TestConnection(ctx context.Context) error {
	f.calls++
	return f.connErr
}

func (f *fakeProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeProvider) GenerateStructuredContent(ctx context.Context, prompt string) (*providers.Output, error) {
	return nil, errors.New("not implemented")
}

type fakeOrchestrator struct {
	providers []interfaces.AIProvider
}

func (f *fakeOrchestrator) GenerateContent(ctx context.Context, prompt string) (string, string, error) {
	return "", "", errors.New("not implemented")
}

func (f *fakeOrchestrator) GenerateStructuredContent(ctx context.Context, prompt string) (*providers.Output, string, error) {
	return nil, "", errors.New("not implemented")
}

func (f *fakeOrchestrator) Providers() []interfaces.AIProvider {
	return f.providers
}

func TestProbeUpdatesStatuses(t *testing.T) {
	gemini := &fakeProvider{name: "gemini"}
	perplexity := &fakeProvider{name: "perplexity", connErr: errors.New("401 unauthorized")}

	store := data.NewStatusContainer()
	ps := NewProbeScheduler(&fakeOrchestrator{providers: []interfaces.AIProvider{gemini, perplexity}}, store, time.Minute)

	ps.Probe()

	statuses := store.GetStatuses()
	if len(statuses) != 2 {
		t.Fatalf("Expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Name != "gemini" || statuses[0].Status != "operational" {
		t.Errorf("Expected gemini operational, got %s %s", statuses[0].Name, statuses[0].Status)
	}
	if statuses[1].Status != "error" {
		t.Errorf("Expected perplexity error status, got %s", statuses[1].Status)
	}
	if statuses[1].Message != "401 unauthorized" {
		t.Errorf("Expected error message in status, got %q", statuses[1].Message)
	}
	if gemini.calls != 1 || perplexity.calls != 1 {
		t.Errorf("Expected one connection test per provider, got %d and %d", gemini.calls, perplexity.calls)
	}
	if store.GetLastChecked().IsZero() {
		t.Error("Expected lastChecked to be set after probe")
	}
	if store.IsProbing() {
		t.Error("Expected probe flag to be cleared after probe")
	}
}

func TestProbeSkipsWhenInProgress(t *testing.T) {
	gemini := &fakeProvider{name: "gemini"}
	store := data.NewStatusContainer()
	ps := NewProbeScheduler(&fakeOrchestrator{providers: []interfaces.AIProvider{gemini}}, store, time.Minute)

	if !store.BeginProbe() {
		t.Fatal("Expected BeginProbe to succeed")
	}

	ps.Probe()

	if gemini.calls != 0 {
		t.Errorf("Expected no connection tests while another probe runs, got %d", gemini.calls)
	}

	store.EndProbe()
	ps.Probe()

	if gemini.calls != 1 {
		t.Errorf("Expected one connection test after probe flag cleared, got %d", gemini.calls)
	}
}

func TestStartAndStop(t *testing.T) {
	gemini := &fakeProvider{name: "gemini"}
	store := data.NewStatusContainer()
	ps := NewProbeScheduler(&fakeOrchestrator{providers: []interfaces.AIProvider{gemini}}, store, time.Hour)

	if err := ps.Start(); err != nil {
		t.Fatalf("Expected Start to succeed, got %v", err)
	}
	defer ps.Stop()

	// Start runs an initial probe synchronously
	if gemini.calls != 1 {
		t.Errorf("Expected initial probe on Start, got %d calls", gemini.calls)
	}
	if len(store.GetStatuses()) != 1 {
		t.Error("Expected statuses to be populated after Start")
	}
}
