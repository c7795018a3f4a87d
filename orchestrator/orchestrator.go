// Package orchestrator selects and races AI providers in priority order with
// timeout-bounded failover. At most one provider is in flight at a time per
// request: the race is between one adapter call and one timer, never between
// adapters. Every request starts the full provider sequence cold; no
// circuit-breaking state is carried between requests.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/logging"
	"github.com/medsafe/medsafe-api/metrics"
	"github.com/medsafe/medsafe-api/providers"
)

// ServiceDegradedFallback is the serviceUsed value of canned offline results.
const ServiceDegradedFallback = "degraded-fallback"

// ErrAllProvidersFailed is returned when every provider was exhausted and the
// degraded fallback is disabled or not applicable.
var ErrAllProvidersFailed = errors.New("all AI providers failed")

// Compile-time check to ensure Factory implements the Orchestrator interface
var _ interfaces.Orchestrator = (*Factory)(nil)

type operation int

const (
	opGenerateContent operation = iota
	opGenerateStructuredContent
)

// Factory holds the ordered provider list and the per-provider timeout
// budgets. It is safe for concurrent use: all fields are read-only after
// construction.
type Factory struct {
	providers      []interfaces.AIProvider
	primaryTimeout time.Duration
	defaultTimeout time.Duration
	degradedMode   bool

	// PromptNameExtractor pulls the medicine name out of a prompt for the
	// degraded fallback. Isolated here so the canned path can be swapped
	// without changing prompt wording.
	PromptNameExtractor func(prompt string) string
}

// New creates a Factory. Providers are attempted in the order given; the
// first entry gets primaryTimeout, all others defaultTimeout.
func New(provs []interfaces.AIProvider, primaryTimeout, defaultTimeout time.Duration, degradedMode bool) *Factory {
	f := &Factory{
		providers:           provs,
		primaryTimeout:      primaryTimeout,
		defaultTimeout:      defaultTimeout,
		degradedMode:        degradedMode,
		PromptNameExtractor: extractMedicineName,
	}

	logging.Info("AI service factory initialized",
		"providers", len(provs),
		"primary_timeout", primaryTimeout.String(),
		"default_timeout", defaultTimeout.String(),
		"degraded_fallback", degradedMode)

	return f
}

// Providers returns the configured adapters in priority order.
func (f *Factory) Providers() []interfaces.AIProvider {
	return f.providers
}

// GenerateContent runs the failover loop for plain text generation.
func (f *Factory) GenerateContent(ctx context.Context, prompt string) (string, string, error) {
	res, serviceUsed, err := f.requestWithFallback(ctx, opGenerateContent, prompt)
	if err != nil {
		return "", "", err
	}
	return res.text, serviceUsed, nil
}

// GenerateStructuredContent runs the failover loop for structured generation.
// When every provider fails and degraded mode is enabled, a canned offline
// report is fabricated from the medicine name embedded in the prompt.
func (f *Factory) GenerateStructuredContent(ctx context.Context, prompt string) (*providers.Output, string, error) {
	res, serviceUsed, err := f.requestWithFallback(ctx, opGenerateStructuredContent, prompt)
	if err != nil {
		return nil, "", err
	}
	return res.out, serviceUsed, nil
}

type attemptResult struct {
	text string
	out  *providers.Output
	err  error
}

// requestWithFallback iterates providers in fixed order, racing each call
// against its timeout budget. The first provider to resolve wins; failures
// and timeouts advance to the next provider.
func (f *Factory) requestWithFallback(ctx context.Context, op operation, prompt string) (attemptResult, string, error) {
	var lastErr error

	for i, provider := range f.providers {
		timeout := f.defaultTimeout
		if i == 0 {
			timeout = f.primaryTimeout
		}

		logging.Info("Attempting request with AI provider",
			"provider", provider.Name(), "timeout_ms", timeout.Milliseconds())

		start := time.Now()
		res := f.raceAttempt(ctx, op, provider, prompt, timeout)
		metrics.ProviderRequestDuration.WithLabelValues(provider.Name()).Observe(time.Since(start).Seconds())

		if res.err == nil {
			metrics.ProviderRequestTotals.WithLabelValues(provider.Name(), "success").Inc()
			logging.Info("Successfully got response from AI provider", "provider", provider.Name())
			return res, provider.Name(), nil
		}

		lastErr = res.err
		metrics.ProviderRequestTotals.WithLabelValues(provider.Name(), classifyOutcome(res.err)).Inc()
		metrics.FailoverTotal.Inc()

		switch {
		case errors.Is(res.err, providers.ErrTimeout):
			logging.Warn("AI provider timed out, trying next provider",
				"provider", provider.Name(), "timeout_ms", timeout.Milliseconds())
		case errors.Is(res.err, providers.ErrOverloaded):
			logging.Warn("AI provider is overloaded, trying next provider", "provider", provider.Name())
		case errors.Is(res.err, providers.ErrQuotaExceeded):
			logging.Warn("AI provider quota exceeded, trying next provider", "provider", provider.Name())
		default:
			logging.Error("AI provider error", "provider", provider.Name(), "error", res.err)
		}
	}

	logging.Error("All AI providers failed")

	if f.degradedMode && op == opGenerateStructuredContent {
		medicineName := f.PromptNameExtractor(prompt)
		logging.Warn("Returning degraded offline response", "medicine", medicineName)
		metrics.DegradedFallbackTotal.Inc()
		return attemptResult{out: offlineAnalysis(medicineName)}, ServiceDegradedFallback, nil
	}

	if lastErr == nil {
		lastErr = ErrAllProvidersFailed
	}
	return attemptResult{}, "", lastErr
}

// raceAttempt races one provider call against the timeout budget. The losing
// in-flight call is not cancelled: the parent context flows through and the
// goroutine is abandoned (the buffered channel prevents a leak). A timeout
// only unblocks the failover loop.
func (f *Factory) raceAttempt(ctx context.Context, op operation, provider interfaces.AIProvider, prompt string, timeout time.Duration) attemptResult {
	ch := make(chan attemptResult, 1)

	go func() {
		switch op {
		case opGenerateContent:
			text, err := provider.GenerateContent(ctx, prompt)
			ch <- attemptResult{text: text, err: err}
		default:
			out, err := provider.GenerateStructuredContent(ctx, prompt)
			ch <- attemptResult{out: out, err: err}
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res
	case <-timer.C:
		return attemptResult{err: &providers.Error{
			Provider: provider.Name(),
			Kind:     providers.KindTimeout,
			Message:  "operation timed out",
		}}
	}
}

// classifyOutcome maps a failed attempt onto a metrics outcome label.
func classifyOutcome(err error) string {
	switch {
	case errors.Is(err, providers.ErrTimeout):
		return "timeout"
	case errors.Is(err, providers.ErrOverloaded):
		return "overloaded"
	case errors.Is(err, providers.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, providers.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, providers.ErrInvalidCredentials):
		return "auth"
	default:
		return "error"
	}
}
