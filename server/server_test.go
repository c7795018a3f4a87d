package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/config"
	"github.com/medsafe/medsafe-api/handlers"
	"github.com/medsafe/medsafe-api/validation"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, medicineName string, patient report.PatientInfo) (*report.AnalysisReport, error) {
	return &report.AnalysisReport{MedicationOverview: "ok"}, nil
}

func (stubAnalyzer) GetAlternatives(ctx context.Context, medicineName, condition string) *report.AlternativesReport {
	return &report.AlternativesReport{}
}

func (stubAnalyzer) CheckInteractions(ctx context.Context, medicines []string) *report.InteractionReport {
	return &report.InteractionReport{Medicines: medicines}
}

type stubResolver struct{}

func (stubResolver) GenericName(commonName string) (string, bool) { return "", false }

func (stubResolver) Suggestions(partialName string, limit int) []report.Suggestion {
	return []report.Suggestion{}
}

func (stubResolver) Search(ctx context.Context, searchQuery string) *report.SearchResult {
	return &report.SearchResult{SearchQuery: searchQuery}
}

type stubHealth struct{}

func (stubHealth) HealthCheck() (string, map[string]any, int) {
	return "healthy", map[string]any{"status": "healthy"}, http.StatusOK
}

func newTestServer() *Server {
	cfg := &config.Config{
		Port:           "8000",
		Address:        "127.0.0.1",
		Env:            "test",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
	}
	handler := handlers.NewHTTPHandler(stubAnalyzer{}, stubResolver{}, validation.NewRequestValidator(), stubHealth{}, false)
	return NewServer(cfg, handler)
}

func TestRoutesAreWired(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/health/detailed", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/medicine/search?q=dolo", "", http.StatusOK},
		{http.MethodGet, "/api/medicine/suggestions?q=dolo", "", http.StatusOK},
		{http.MethodGet, "/api/medicine/alternatives?medicine=Aspirin", "", http.StatusOK},
		{http.MethodGet, "/api/does-not-exist", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.RemoteAddr = "192.0.2.60:1234"
		rec := httptest.NewRecorder()

		srv.Router().ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, rec.Code)
		}
	}
}

func TestAnalyzeRouteAcceptsPostOnly(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/medicine/analyze", nil)
	req.RemoteAddr = "192.0.2.61:1234"
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET analyze, got %d", rec.Code)
	}
}
