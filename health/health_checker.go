// Package health aggregates provider connectivity snapshots into the
// payloads served by the health endpoints.
package health

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/medsafe/medsafe-api/interfaces"
)

const apiVersion = "1.0.0"

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker interface
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl builds health payloads from the provider status store.
// It never triggers probes itself; it only reads the latest snapshot.
type HealthCheckerImpl struct {
	store interfaces.StatusStore
	env   string
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(store interfaces.StatusStore, env string) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store: store,
		env:   env,
	}
}

// HealthCheck reports per-service status with warnings for unreachable
// providers. The API itself serving the request counts as operational, so the
// response is 503 only when every AI provider is in error.
func (hc *HealthCheckerImpl) HealthCheck() (string, map[string]any, int) {
	statuses := hc.store.GetStatuses()

	services := map[string]any{
		"api": "operational",
	}

	warnings := make([]string, 0)
	failed := 0
	for _, s := range statuses {
		services[s.Name] = s.Status
		if s.Status != "operational" {
			warnings = append(warnings, fmt.Sprintf("%s API connection failed", displayName(s.Name)))
			failed++
		}
	}

	status := "healthy"
	httpStatus := 200
	if len(statuses) > 0 && failed == len(statuses) {
		status = "unhealthy"
		httpStatus = 503
	} else if failed > 0 {
		status = "degraded"
	}

	data := map[string]any{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      hc.uptime(),
		"environment": hc.env,
		"version":     apiVersion,
		"services":    services,
		"lastChecked": hc.store.GetLastChecked().UTC().Format(time.RFC3339),
	}
	if len(warnings) > 0 {
		data["warnings"] = warnings
	}

	return status, data, httpStatus
}

// DetailedHealthCheck extends HealthCheck with runtime and process info
func (hc *HealthCheckerImpl) DetailedHealthCheck() (string, map[string]any, int) {
	status, data, httpStatus := hc.HealthCheck()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	data["system"] = map[string]any{
		"platform":   runtime.GOOS,
		"arch":       runtime.GOARCH,
		"goVersion":  runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"memory": map[string]any{
			"allocMB": mem.Alloc / 1024 / 1024,
			"sysMB":   mem.Sys / 1024 / 1024,
		},
		"pid": os.Getpid(),
	}

	return status, data, httpStatus
}

func (hc *HealthCheckerImpl) uptime() string {
	start := hc.store.GetServerStartTime()
	if start.IsZero() {
		return "unknown"
	}
	return time.Since(start).Round(time.Second).String()
}

// displayName maps provider identifiers to user-facing names in warnings
func displayName(provider string) string {
	switch provider {
	case "gemini":
		return "Gemini"
	case "perplexity":
		return "Perplexity"
	case "huggingface":
		return "HuggingFace"
	default:
		return provider
	}
}
