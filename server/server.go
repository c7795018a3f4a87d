// Package server provides HTTP server management and lifecycle handling for
// the medsafe API. It includes server setup, middleware configuration, route
// management, and graceful shutdown with proper error handling and logging.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medsafe/medsafe-api/config"
	"github.com/medsafe/medsafe-api/handlers"
	"github.com/medsafe/medsafe-api/logging"
	"github.com/medsafe/medsafe-api/metrics"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.HTTPHandlerImpl
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler *handlers.HTTPHandlerImpl) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.Middleware(requestLogger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Middleware)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Route("/api/medicine", func(r chi.Router) {
		r.Post("/analyze", s.handler.AnalyzeMedicine)
		r.Get("/alternatives", s.handler.GetAlternatives)
		r.Post("/interactions", s.handler.CheckInteractions)
		r.Get("/search", s.handler.SearchMedicine)
		r.Get("/suggestions", s.handler.GetSuggestions)
	})

	s.router.Get("/api/health", s.handler.HealthCheck)
	s.router.Get("/api/health/detailed", s.handler.DetailedHealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

func requestLogger() *slog.Logger {
	if logging.DefaultLoggingService != nil && logging.DefaultLoggingService.Logger != nil {
		return logging.DefaultLoggingService.Logger
	}
	return slog.Default()
}
