// Package interfaces defines core abstractions for the medsafe API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/providers"
)

// AIProvider is the uniform contract every LLM vendor adapter satisfies.
// Adapters are stateless across calls except for configuration and own their
// error classification and local retry policy.
type AIProvider interface {
	// Name returns the provider identity used in logs and serviceUsed fields.
	Name() string

	// TestConnection issues a minimal low-cost request; nil means reachable.
	TestConnection(ctx context.Context) error

	// GenerateContent issues one generation call and returns raw text.
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// GenerateStructuredContent issues a generation call whose output is
	// sniffed for JSON shape by adapters that can return it.
	GenerateStructuredContent(ctx context.Context, prompt string) (*providers.Output, error)
}

// Orchestrator tries providers in fixed priority order with per-provider
// timeout budgets, advancing on failure. serviceUsed is the winning provider
// name, or "degraded-fallback" when the canned offline path answered.
type Orchestrator interface {
	GenerateContent(ctx context.Context, prompt string) (text string, serviceUsed string, err error)
	GenerateStructuredContent(ctx context.Context, prompt string) (out *providers.Output, serviceUsed string, err error)

	// Providers exposes the configured adapters in priority order.
	Providers() []AIProvider
}

// MedicineAnalyzer composes name resolution, prompt building, orchestration
// and parsing into the end-to-end analysis operations.
type MedicineAnalyzer interface {
	Analyze(ctx context.Context, medicineName string, patient report.PatientInfo) (*report.AnalysisReport, error)
	GetAlternatives(ctx context.Context, medicineName, condition string) *report.AlternativesReport
	CheckInteractions(ctx context.Context, medicines []string) *report.InteractionReport
}

// FieldError is one request validation failure, attributable to a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidator validates the request payloads of the medicine endpoints.
// A nil or empty slice means the request is valid.
type RequestValidator interface {
	ValidateAnalyzeRequest(medicineName string, patient report.PatientInfo) []FieldError
	ValidateInteractionRequest(medicines []string) []FieldError
}

// NameResolver maps brand and colloquial medicine names to generic
// compositions and serves fuzzy and AI-assisted lookups.
type NameResolver interface {
	GenericName(commonName string) (string, bool)
	Suggestions(partialName string, limit int) []report.Suggestion
	Search(ctx context.Context, searchQuery string) *report.SearchResult
}

// ProviderStatus is one provider's last observed connectivity result.
type ProviderStatus struct {
	Name    string
	Status  string // "operational" or "error"
	Message string
}

// StatusStore provides thread-safe access to the latest provider
// connectivity snapshot.
type StatusStore interface {
	GetStatuses() []ProviderStatus
	GetLastChecked() time.Time
	IsProbing() bool
	GetServerStartTime() time.Time

	UpdateStatuses(statuses []ProviderStatus)
	BeginProbe() bool
	EndProbe()
}

// HealthChecker reports aggregated system health.
type HealthChecker interface {
	// HealthCheck returns the status string, response payload data and the
	// HTTP status code to serve.
	HealthCheck() (status string, data map[string]any, httpStatus int)
}

// Scheduler manages the periodic provider connectivity probes.
type Scheduler interface {
	Start() error
	Stop()
}
