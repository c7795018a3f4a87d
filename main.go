package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/medsafe/medsafe-api/analysis"
	"github.com/medsafe/medsafe-api/config"
	"github.com/medsafe/medsafe-api/data"
	"github.com/medsafe/medsafe-api/handlers"
	"github.com/medsafe/medsafe-api/health"
	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/logging"
	"github.com/medsafe/medsafe-api/names"
	"github.com/medsafe/medsafe-api/orchestrator"
	"github.com/medsafe/medsafe-api/providers"
	"github.com/medsafe/medsafe-api/scheduler"
	"github.com/medsafe/medsafe-api/server"
	"github.com/medsafe/medsafe-api/validation"
)

const probeInterval = 5 * time.Minute

func main() {
	// .env is optional; real deployments set environment variables directly
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir, cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer logging.Shutdown()

	ctx := context.Background()

	providerList, err := buildProviders(ctx, cfg)
	if err != nil {
		logging.Error("Failed to initialize AI providers", "error", err)
		os.Exit(1)
	}

	orch := orchestrator.New(providerList, cfg.GeminiTimeout, cfg.APITimeout, cfg.DegradedFallback)
	resolver := names.NewMapper(orch)
	analyzer := analysis.NewService(orch, resolver)
	validator := validation.NewRequestValidator()

	statusStore := data.NewStatusContainer()
	statusStore.SetServerStartTime(time.Now())

	probeScheduler := scheduler.NewProbeScheduler(orch, statusStore, probeInterval)
	if err := probeScheduler.Start(); err != nil {
		logging.Error("Failed to start probe scheduler", "error", err)
		os.Exit(1)
	}
	defer probeScheduler.Stop()

	healthChecker := health.NewHealthChecker(statusStore, cfg.Env)

	handler := handlers.NewHTTPHandler(analyzer, resolver, validator, healthChecker, cfg.Env == "dev")
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown error", "error", err)
	}
}

// buildProviders constructs the adapters in failover priority order
func buildProviders(ctx context.Context, cfg *config.Config) ([]interfaces.AIProvider, error) {
	httpClient := &http.Client{Timeout: cfg.APITimeout}

	gemini, err := providers.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}

	perplexity, err := providers.NewPerplexity(cfg.PerplexityAPIKey, cfg.PerplexityModel, httpClient, "")
	if err != nil {
		return nil, err
	}

	providerList := []interfaces.AIProvider{gemini, perplexity}

	if cfg.HuggingFaceToken != "" {
		providerList = append(providerList, providers.NewHuggingFace(cfg.HuggingFaceToken, cfg.HuggingFaceModel, httpClient, ""))
	} else {
		logging.Warn("HF_TOKEN not set, HuggingFace fallback disabled")
	}

	return providerList, nil
}
