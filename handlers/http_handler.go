// Package handlers provides HTTP request handlers for the medsafe API
// endpoints. It includes handlers for medicine analysis, alternatives,
// interaction checks, name search, suggestions and health checks with
// input validation and consistent error responses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/logging"
	"github.com/medsafe/medsafe-api/providers"
)

const (
	analysisDisclaimer     = "This analysis is for informational purposes only and should not replace professional medical advice. Always consult with a healthcare provider before making any medical decisions."
	alternativesDisclaimer = "Alternative suggestions are for informational purposes only. Consult your healthcare provider before switching medications."
	interactionsDisclaimer = "Interaction information is for educational purposes only. Always consult your healthcare provider about potential drug interactions."

	defaultSuggestionLimit = 5
)

// HTTPHandlerImpl serves the medicine endpoints with injected dependencies
type HTTPHandlerImpl struct {
	analyzer  interfaces.MedicineAnalyzer
	resolver  interfaces.NameResolver
	validator interfaces.RequestValidator
	health    interfaces.HealthChecker
	devMode   bool
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	analyzer interfaces.MedicineAnalyzer,
	resolver interfaces.NameResolver,
	validator interfaces.RequestValidator,
	health interfaces.HealthChecker,
	devMode bool,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		analyzer:  analyzer,
		resolver:  resolver,
		validator: validator,
		health:    health,
		devMode:   devMode,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, errorText, message string) {
	h.RespondWithJSON(w, code, map[string]interface{}{
		"error":   errorText,
		"message": message,
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// AnalyzeRequest is the POST /api/medicine/analyze payload
type AnalyzeRequest struct {
	MedicineName string             `json:"medicineName"`
	PatientInfo  report.PatientInfo `json:"patientInfo"`
}

// AnalyzeMedicine runs a full safety analysis for one medicine
func (h *HTTPHandlerImpl) AnalyzeMedicine(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body", "Request body must be valid JSON")
		return
	}

	if fieldErrors := h.validator.ValidateAnalyzeRequest(req.MedicineName, req.PatientInfo); len(fieldErrors) > 0 {
		h.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": fieldErrors,
		})
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req.MedicineName, req.PatientInfo)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"medicine":    req.MedicineName,
		"patientInfo": req.PatientInfo,
		"analysis":    analysis,
		"timestamp":   timestamp(),
		"disclaimer":  analysisDisclaimer,
	})
}

// respondAnalysisError maps provider failures to HTTP status codes
func (h *HTTPHandlerImpl) respondAnalysisError(w http.ResponseWriter, err error) {
	logging.Error("Medicine analysis failed", "error", err)

	switch {
	case errors.Is(err, providers.ErrMissingAPIKey), errors.Is(err, providers.ErrInvalidCredentials):
		h.RespondWithError(w, http.StatusInternalServerError,
			"AI service configuration error", "Please check API configuration")
	case errors.Is(err, providers.ErrRateLimited), errors.Is(err, providers.ErrQuotaExceeded):
		h.RespondWithError(w, http.StatusTooManyRequests,
			"Rate limit exceeded", "Too many requests. Please try again later.")
	default:
		message := "Internal server error"
		if h.devMode {
			message = err.Error()
		}
		h.RespondWithError(w, http.StatusInternalServerError, "Analysis failed", message)
	}
}

// GetAlternatives returns safer alternatives for a medicine
func (h *HTTPHandlerImpl) GetAlternatives(w http.ResponseWriter, r *http.Request) {
	medicine := strings.TrimSpace(r.URL.Query().Get("medicine"))
	if medicine == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Medicine parameter is required", "Provide ?medicine=<name>")
		return
	}

	condition := strings.TrimSpace(r.URL.Query().Get("condition"))
	alternatives := h.analyzer.GetAlternatives(r.Context(), medicine, condition)

	conditionLabel := condition
	if conditionLabel == "" {
		conditionLabel = "general"
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"originalMedicine": medicine,
		"condition":        conditionLabel,
		"alternatives":     alternatives,
		"timestamp":        timestamp(),
		"disclaimer":       alternativesDisclaimer,
	})
}

// InteractionRequest is the POST /api/medicine/interactions payload
type InteractionRequest struct {
	Medicines []string `json:"medicines"`
}

// CheckInteractions analyzes interactions between multiple medicines
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	var req InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body", "Request body must be valid JSON")
		return
	}

	if fieldErrors := h.validator.ValidateInteractionRequest(req.Medicines); len(fieldErrors) > 0 {
		h.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": fieldErrors,
		})
		return
	}

	interactions := h.analyzer.CheckInteractions(r.Context(), req.Medicines)

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"medicines":    req.Medicines,
		"interactions": interactions,
		"timestamp":    timestamp(),
		"disclaimer":   interactionsDisclaimer,
	})
}

// SearchMedicine resolves a brand name or description to generic names
func (h *HTTPHandlerImpl) SearchMedicine(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.RespondWithError(w, http.StatusBadRequest,
			"Search query is required", "Example: /api/medicine/search?q=dolo")
		return
	}

	results := h.resolver.Search(r.Context(), query)

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"query":     query,
		"results":   results,
		"timestamp": timestamp(),
	})
}

// SuggestionEntry is one autocomplete suggestion
type SuggestionEntry struct {
	Display     string `json:"display"`
	CommonName  string `json:"commonName"`
	GenericName string `json:"genericName"`
	Value       string `json:"value"`
}

// GetSuggestions returns autocomplete suggestions for a partial name
func (h *HTTPHandlerImpl) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := defaultSuggestionLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries := make([]SuggestionEntry, 0)
	if len(query) >= 2 {
		for _, s := range h.resolver.Suggestions(query, limit) {
			entries = append(entries, SuggestionEntry{
				Display:     s.CommonName + " (" + s.GenericName + ")",
				CommonName:  s.CommonName,
				GenericName: s.GenericName,
				Value:       s.GenericName,
			})
		}
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"query":       query,
		"suggestions": entries,
	})
}

// HealthCheck returns aggregated service health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	_, data, httpStatus := h.health.HealthCheck()
	h.RespondWithJSON(w, httpStatus, data)
}

// DetailedHealthCheck returns health with runtime and process info
func (h *HTTPHandlerImpl) DetailedHealthCheck(w http.ResponseWriter, r *http.Request) {
	checker, ok := h.health.(interface {
		DetailedHealthCheck() (string, map[string]any, int)
	})
	if !ok {
		h.HealthCheck(w, r)
		return
	}

	_, data, httpStatus := checker.DetailedHealthCheck()
	h.RespondWithJSON(w, httpStatus, data)
}
