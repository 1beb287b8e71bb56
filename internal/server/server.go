// Package server runs the triage HTTP API. It owns the listener lifecycle
// and, when configured, a managed local Ollama container.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/triagekit/triage/internal/api"
	"github.com/triagekit/triage/internal/ollama"
	"github.com/triagekit/triage/internal/server/endpoints"
	"github.com/triagekit/triage/internal/svcctx"
)

// Server is the main triage HTTP server.
type Server struct {
	httpServer    *http.Server
	ollamaManager *ollama.DockerManager
	ollamaModel   string
	services      *svcctx.Services
	logger        *slog.Logger

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Addr is the host:port to bind.
	Addr string
	// Services are the wired core services enriching request contexts.
	Services *svcctx.Services
	// OllamaManager, when set, is started before the listener and stopped
	// on shutdown.
	OllamaManager *ollama.DockerManager
	// OllamaModel is pulled into a managed container after start.
	OllamaModel string
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:8000"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Services == nil {
		return nil, errors.New("server requires services")
	}

	s := &Server{
		ollamaManager: cfg.OllamaManager,
		ollamaModel:   cfg.OllamaModel,
		services:      cfg.Services,
		logger:        cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{OllamaManager: cfg.OllamaManager}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(s.withServices(mux)),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server and, when managed, the Ollama container.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.ollamaManager != nil {
		s.logger.Info("starting managed Ollama container")
		if err := s.ollamaManager.Start(ctx); err != nil {
			s.setNotRunning()
			return fmt.Errorf("failed to start Ollama: %w", err)
		}
		if s.ollamaModel != "" {
			s.logger.Info("ensuring model is available", "model", s.ollamaModel)
			if err := s.ollamaManager.EnsureModel(ctx, s.ollamaModel); err != nil {
				// Extraction degrades to deterministic-only without it.
				s.logger.Warn("model pull failed", "model", s.ollamaModel, "error", err)
			}
		}
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server and any managed
// resources.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.ollamaManager != nil {
		s.logger.Info("stopping managed Ollama container")
		if err := s.ollamaManager.Stop(shutdownCtx); err != nil {
			s.logger.Error("Ollama stop error", "error", err)
		}
		if err := s.ollamaManager.Close(); err != nil {
			s.logger.Error("Ollama manager close error", "error", err)
		}
	}

	if s.services.Predictor != nil {
		if err := s.services.Predictor.Close(); err != nil {
			s.logger.Error("predictor close error", "error", err)
		}
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the extraction pipeline is wired.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services.Documents == nil || s.services.Pipeline == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"detail":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}

// withCORS allows cross-origin access from any origin, matching the
// dashboard deployment model where the UI is served separately.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Endpoints exposes the endpoint registry, for CLI command generation.
func (s *Server) Endpoints() *api.Registry {
	return s.endpointRegistry
}
