package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/providers"
	"github.com/medsafe/medsafe-api/validation"
)

type mockAnalyzer struct {
	analyzeErr error
	lastName   string
}

func (m *mockAnalyzer) Analyze(ctx context.Context, medicineName string, patient report.PatientInfo) (*report.AnalysisReport, error) {
	m.lastName = medicineName
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return &report.AnalysisReport{
		MedicationOverview: "Overview of " + medicineName,
		RiskLevel:          "low",
		ServiceUsed:        "gemini",
	}, nil
}

func (m *mockAnalyzer) GetAlternatives(ctx context.Context, medicineName, condition string) *report.AlternativesReport {
	return &report.AlternativesReport{
		ByMechanism:     []string{"Naproxen"},
		EvidenceLevel:   "moderate",
		Recommendations: []string{"Consult your healthcare provider for personalized recommendations."},
	}
}

func (m *mockAnalyzer) CheckInteractions(ctx context.Context, medicines []string) *report.InteractionReport {
	return &report.InteractionReport{
		Medicines: medicines,
		RiskLevel: "medium",
	}
}

type mockResolver struct {
	suggestions []report.Suggestion
}

func (m *mockResolver) GenericName(commonName string) (string, bool) {
	if strings.EqualFold(commonName, "crocin") {
		return "Paracetamol", true
	}
	return "", false
}

func (m *mockResolver) Suggestions(partialName string, limit int) []report.Suggestion {
	if len(m.suggestions) > limit {
		return m.suggestions[:limit]
	}
	return m.suggestions
}

func (m *mockResolver) Search(ctx context.Context, searchQuery string) *report.SearchResult {
	return &report.SearchResult{
		ExactMatch:   &report.ExactMatch{CommonName: "Crocin", GenericName: "Paracetamol", Source: "exact_mapping"},
		Suggestions:  []report.Suggestion{},
		AIIdentified: []report.IdentifiedMedicine{},
		SearchQuery:  searchQuery,
	}
}

type mockHealth struct {
	status     string
	httpStatus int
}

func (m *mockHealth) HealthCheck() (string, map[string]any, int) {
	return m.status, map[string]any{"status": m.status}, m.httpStatus
}

func newTestHandler(analyzer *mockAnalyzer, resolver *mockResolver) *HTTPHandlerImpl {
	return NewHTTPHandler(
		analyzer,
		resolver,
		validation.NewRequestValidator(),
		&mockHealth{status: "healthy", httpStatus: http.StatusOK},
		false,
	)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestAnalyzeMedicine(t *testing.T) {
	analyzer := &mockAnalyzer{}
	h := newTestHandler(analyzer, &mockResolver{})

	payload := `{"medicineName": "Crocin", "patientInfo": {"age": 30, "gender": "female"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/medicine/analyze", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.AnalyzeMedicine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("Expected success true")
	}
	if body["medicine"] != "Crocin" {
		t.Errorf("Expected medicine Crocin, got %v", body["medicine"])
	}
	if body["disclaimer"] != analysisDisclaimer {
		t.Error("Expected analysis disclaimer in response")
	}
	if analyzer.lastName != "Crocin" {
		t.Errorf("Expected analyzer to receive Crocin, got %s", analyzer.lastName)
	}
}

func TestAnalyzeMedicineValidationFailed(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	payload := `{"medicineName": "<script>alert(1)</script>", "patientInfo": {"age": 150}}`
	req := httptest.NewRequest(http.MethodPost, "/api/medicine/analyze", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.AnalyzeMedicine(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != "Validation failed" {
		t.Errorf("Expected Validation failed, got %v", body["error"])
	}
	details, ok := body["details"].([]any)
	if !ok || len(details) < 2 {
		t.Errorf("Expected at least 2 validation details, got %v", body["details"])
	}
}

func TestAnalyzeMedicineInvalidJSON(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	req := httptest.NewRequest(http.MethodPost, "/api/medicine/analyze", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.AnalyzeMedicine(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestAnalyzeMedicineErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
	}{
		{
			name:      "missing api key",
			err:       providers.ErrMissingAPIKey,
			wantCode:  http.StatusInternalServerError,
			wantError: "AI service configuration error",
		},
		{
			name:      "invalid credentials",
			err:       &providers.Error{Provider: "gemini", Kind: providers.KindInvalidCredentials, Message: "401"},
			wantCode:  http.StatusInternalServerError,
			wantError: "AI service configuration error",
		},
		{
			name:      "rate limited",
			err:       &providers.Error{Provider: "perplexity", Kind: providers.KindRateLimited, Message: "429"},
			wantCode:  http.StatusTooManyRequests,
			wantError: "Rate limit exceeded",
		},
		{
			name:      "generic failure",
			err:       &providers.Error{Provider: "gemini", Kind: providers.KindUnknown, Message: "boom"},
			wantCode:  http.StatusInternalServerError,
			wantError: "Analysis failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockAnalyzer{analyzeErr: tt.err}, &mockResolver{})

			payload := `{"medicineName": "Aspirin", "patientInfo": {}}`
			req := httptest.NewRequest(http.MethodPost, "/api/medicine/analyze", strings.NewReader(payload))
			rec := httptest.NewRecorder()

			h.AnalyzeMedicine(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Expected %d, got %d", tt.wantCode, rec.Code)
			}
			body := decodeBody(t, rec)
			if body["error"] != tt.wantError {
				t.Errorf("Expected error %q, got %v", tt.wantError, body["error"])
			}
		})
	}
}

func TestAnalyzeErrorMessageHiddenInProd(t *testing.T) {
	err := &providers.Error{Provider: "gemini", Kind: providers.KindUnknown, Message: "internal detail"}
	h := newTestHandler(&mockAnalyzer{analyzeErr: err}, &mockResolver{})

	payload := `{"medicineName": "Aspirin", "patientInfo": {}}`
	req := httptest.NewRequest(http.MethodPost, "/api/medicine/analyze", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.AnalyzeMedicine(rec, req)

	body := decodeBody(t, rec)
	if body["message"] != "Internal server error" {
		t.Errorf("Expected generic message in prod mode, got %v", body["message"])
	}
}

func TestGetAlternatives(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/alternatives?medicine=Ibuprofen&condition=pain", nil)
	rec := httptest.NewRecorder()

	h.GetAlternatives(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["originalMedicine"] != "Ibuprofen" {
		t.Errorf("Expected Ibuprofen, got %v", body["originalMedicine"])
	}
	if body["condition"] != "pain" {
		t.Errorf("Expected condition pain, got %v", body["condition"])
	}
	if body["disclaimer"] != alternativesDisclaimer {
		t.Error("Expected alternatives disclaimer in response")
	}
}

func TestGetAlternativesDefaultCondition(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/alternatives?medicine=Ibuprofen", nil)
	rec := httptest.NewRecorder()

	h.GetAlternatives(rec, req)

	body := decodeBody(t, rec)
	if body["condition"] != "general" {
		t.Errorf("Expected condition general, got %v", body["condition"])
	}
}

func TestGetAlternativesMissingMedicine(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/alternatives", nil)
	rec := httptest.NewRecorder()

	h.GetAlternatives(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestCheckInteractions(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	payload := `{"medicines": ["Aspirin", "Warfarin"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/medicine/interactions", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.CheckInteractions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	medicines, ok := body["medicines"].([]any)
	if !ok || len(medicines) != 2 {
		t.Errorf("Expected 2 medicines echoed, got %v", body["medicines"])
	}
	if body["disclaimer"] != interactionsDisclaimer {
		t.Error("Expected interactions disclaimer in response")
	}
}

func TestCheckInteractionsTooFewMedicines(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	payload := `{"medicines": ["Aspirin"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/medicine/interactions", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.CheckInteractions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for single medicine, got %d", rec.Code)
	}
}

func TestSearchMedicine(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/search?q=crocin", nil)
	rec := httptest.NewRecorder()

	h.SearchMedicine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["query"] != "crocin" {
		t.Errorf("Expected query crocin, got %v", body["query"])
	}
	results, ok := body["results"].(map[string]any)
	if !ok {
		t.Fatal("Expected results object")
	}
	exact, ok := results["exactMatch"].(map[string]any)
	if !ok || exact["genericName"] != "Paracetamol" {
		t.Errorf("Expected exact match Paracetamol, got %v", results["exactMatch"])
	}
}

func TestSearchMedicineMissingQuery(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/search", nil)
	rec := httptest.NewRecorder()

	h.SearchMedicine(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if msg, _ := body["message"].(string); !strings.Contains(msg, "/api/medicine/search?q=dolo") {
		t.Errorf("Expected example URL in message, got %v", body["message"])
	}
}

func TestGetSuggestions(t *testing.T) {
	resolver := &mockResolver{suggestions: []report.Suggestion{
		{CommonName: "Dolo", GenericName: "Paracetamol", Match: "prefix"},
		{CommonName: "Dolo 650", GenericName: "Paracetamol 650mg", Match: "prefix"},
	}}
	h := newTestHandler(&mockAnalyzer{}, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/suggestions?q=dolo", nil)
	rec := httptest.NewRecorder()

	h.GetSuggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	suggestions, ok := body["suggestions"].([]any)
	if !ok || len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions, got %v", body["suggestions"])
	}
	first, _ := suggestions[0].(map[string]any)
	if first["display"] != "Dolo (Paracetamol)" {
		t.Errorf("Expected display 'Dolo (Paracetamol)', got %v", first["display"])
	}
	if first["value"] != "Paracetamol" {
		t.Errorf("Expected value Paracetamol, got %v", first["value"])
	}
}

func TestGetSuggestionsShortQuery(t *testing.T) {
	resolver := &mockResolver{suggestions: []report.Suggestion{
		{CommonName: "Dolo", GenericName: "Paracetamol", Match: "prefix"},
	}}
	h := newTestHandler(&mockAnalyzer{}, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/suggestions?q=d", nil)
	rec := httptest.NewRecorder()

	h.GetSuggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	suggestions, ok := body["suggestions"].([]any)
	if !ok || len(suggestions) != 0 {
		t.Errorf("Expected empty suggestions for one-char query, got %v", body["suggestions"])
	}
}

func TestHealthCheckHandler(t *testing.T) {
	h := NewHTTPHandler(&mockAnalyzer{}, &mockResolver{}, validation.NewRequestValidator(),
		&mockHealth{status: "unhealthy", httpStatus: http.StatusServiceUnavailable}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	h.HealthCheck(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "unhealthy" {
		t.Errorf("Expected unhealthy, got %v", body["status"])
	}
}

func TestDetailedHealthFallsBackWithoutDetailedChecker(t *testing.T) {
	h := newTestHandler(&mockAnalyzer{}, &mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/health/detailed", nil)
	rec := httptest.NewRecorder()

	h.DetailedHealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
