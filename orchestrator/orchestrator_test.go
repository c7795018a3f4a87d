package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/providers"
)

type fakeProvider struct {
	name  string
	delay time.Duration
	text  string
	out   *providers.Output
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) TestConnection(ctx context.Context) error { return f.err }

func (f *fakeProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

func (f *fakeProvider) GenerateStructuredContent(ctx context.Context, prompt string) (*providers.Output, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func newTestFactory(degraded bool, provs ...interfaces.AIProvider) *Factory {
	return New(provs, 50*time.Millisecond, 50*time.Millisecond, degraded)
}

func TestGenerateContentUsesFirstProvider(t *testing.T) {
	first := &fakeProvider{name: "gemini", text: "from gemini"}
	second := &fakeProvider{name: "perplexity", text: "from perplexity"}

	factory := newTestFactory(false, first, second)

	text, serviceUsed, err := factory.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "from gemini" {
		t.Errorf("Expected text from first provider, got %q", text)
	}
	if serviceUsed != "gemini" {
		t.Errorf("Expected serviceUsed gemini, got %q", serviceUsed)
	}
	if second.calls != 0 {
		t.Errorf("Expected second provider untouched, got %d calls", second.calls)
	}
}

func TestFailoverOnProviderError(t *testing.T) {
	first := &fakeProvider{name: "gemini", err: errors.New("boom")}
	second := &fakeProvider{name: "perplexity", text: "fallback answer"}

	factory := newTestFactory(false, first, second)

	text, serviceUsed, err := factory.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "fallback answer" {
		t.Errorf("Expected fallback answer, got %q", text)
	}
	if serviceUsed != "perplexity" {
		t.Errorf("Expected serviceUsed perplexity, got %q", serviceUsed)
	}
	if first.calls != 1 {
		t.Errorf("Expected first provider attempted once, got %d calls", first.calls)
	}
}

func TestFailoverOnTimeout(t *testing.T) {
	slow := &fakeProvider{name: "gemini", delay: 200 * time.Millisecond, text: "too late"}
	fast := &fakeProvider{name: "perplexity", text: "in time"}

	factory := newTestFactory(false, slow, fast)

	start := time.Now()
	text, serviceUsed, err := factory.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "in time" {
		t.Errorf("Expected answer from fast provider, got %q", text)
	}
	if serviceUsed != "perplexity" {
		t.Errorf("Expected serviceUsed perplexity, got %q", serviceUsed)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("Expected failover well before the slow call resolves, took %v", elapsed)
	}
}

func TestAllProvidersFailedReturnsLastError(t *testing.T) {
	firstErr := errors.New("first failed")
	lastErr := errors.New("last failed")
	factory := newTestFactory(false,
		&fakeProvider{name: "gemini", err: firstErr},
		&fakeProvider{name: "perplexity", err: lastErr},
	)

	_, _, err := factory.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, lastErr) {
		t.Errorf("Expected last provider error, got %v", err)
	}
}

func TestDegradedFallbackOnlyForStructured(t *testing.T) {
	failing := &fakeProvider{name: "gemini", err: errors.New("down")}
	factory := newTestFactory(true, failing)

	prompt := `Analyze the medication "Paracetamol 650mg" for safety.`

	out, serviceUsed, err := factory.GenerateStructuredContent(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Expected degraded fallback, got error %v", err)
	}
	if serviceUsed != ServiceDegradedFallback {
		t.Errorf("Expected serviceUsed %q, got %q", ServiceDegradedFallback, serviceUsed)
	}
	if out.Kind != providers.KindJSON {
		t.Fatalf("Expected JSON output, got kind %v", out.Kind)
	}
	if out.JSON["evidenceQuality"] != "offline_database" {
		t.Errorf("Expected offline_database evidence quality, got %v", out.JSON["evidenceQuality"])
	}
	overview, _ := out.JSON["medicationOverview"].(string)
	if overview == "" || overview[:11] != "Paracetamol" {
		t.Errorf("Expected paracetamol overview from canned table, got %q", overview)
	}

	// Plain text generation never degrades, it surfaces the failure.
	if _, _, err := factory.GenerateContent(context.Background(), prompt); err == nil {
		t.Error("Expected error for plain content with all providers down")
	}
}

func TestDegradedFallbackDisabled(t *testing.T) {
	failing := &fakeProvider{name: "gemini", err: errors.New("down")}
	factory := newTestFactory(false, failing)

	_, _, err := factory.GenerateStructuredContent(context.Background(), `medication "Aspirin" check`)
	if err == nil {
		t.Error("Expected error when degraded fallback is disabled")
	}
}

func TestDegradedFallbackUnknownMedicine(t *testing.T) {
	factory := newTestFactory(true, &fakeProvider{name: "gemini", err: errors.New("down")})

	out, _, err := factory.GenerateStructuredContent(context.Background(), `medication "Xyzal" check`)
	if err != nil {
		t.Fatalf("Expected degraded fallback, got error %v", err)
	}
	overview, _ := out.JSON["medicationOverview"].(string)
	if overview != "Xyzal analysis requires access to current medical databases." {
		t.Errorf("Expected generic offline overview, got %q", overview)
	}
	if out.JSON["riskLevel"] != "low-moderate" {
		t.Errorf("Expected low-moderate risk level, got %v", out.JSON["riskLevel"])
	}
}

func TestExtractMedicineName(t *testing.T) {
	tests := []struct {
		prompt   string
		expected string
	}{
		{`Analyze the medication "Ibuprofen" for a patient`, "Ibuprofen"},
		{`safety check for the medication "Dolo 650"`, "Dolo 650"},
		{"no name present here", "this medication"},
		{"", "this medication"},
	}

	for _, tc := range tests {
		if got := extractMedicineName(tc.prompt); got != tc.expected {
			t.Errorf("extractMedicineName(%q): Expected %q, got %q", tc.prompt, tc.expected, got)
		}
	}
}

func TestProvidersReturnsConfiguredOrder(t *testing.T) {
	a := &fakeProvider{name: "gemini"}
	b := &fakeProvider{name: "perplexity"}
	c := &fakeProvider{name: "huggingface"}

	factory := newTestFactory(false, a, b, c)

	provs := factory.Providers()
	if len(provs) != 3 {
		t.Fatalf("Expected 3 providers, got %d", len(provs))
	}
	for i, expected := range []string{"gemini", "perplexity", "huggingface"} {
		if provs[i].Name() != expected {
			t.Errorf("Expected provider %d to be %s, got %s", i, expected, provs[i].Name())
		}
	}
}
