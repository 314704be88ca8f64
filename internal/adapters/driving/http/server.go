package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the synchronization pipeline over HTTP.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	operations driving.Operations
	syncs      driving.SyncRepository

	// Infrastructure
	queue       driven.ExportQueue
	entityStore driven.EntityStore
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// Validator authenticates API callers; nil disables auth
	Validator TokenValidator

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	operations driving.Operations,
	syncs driving.SyncRepository,
	queue driven.ExportQueue,
	entityStore driven.EntityStore,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:      http.NewServeMux(),
		version:     cfg.Version,
		logger:      logger,
		operations:  operations,
		syncs:       syncs,
		queue:       queue,
		entityStore: entityStore,
		db:          db,
		redisClient: redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes(cfg.Validator)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(validator TokenValidator) {
	authMiddleware := NewAuthMiddleware(validator, s.logger)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Sync definition endpoints
	s.router.Handle("GET /api/v1/syncs",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListSyncs)))
	s.router.Handle("GET /api/v1/syncs/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetSync)))

	// Operation endpoints
	s.router.Handle("POST /api/v1/syncs/{id}/import/list",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleImportList)))
	s.router.Handle("POST /api/v1/syncs/{id}/import/entity",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleImportEntity)))
	s.router.Handle("POST /api/v1/syncs/{id}/export/queue",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleQueueExport)))

	// Queue endpoints
	s.router.Handle("GET /api/v1/queue/stats",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleQueueStats)))
	s.router.Handle("GET /api/v1/queue/tasks/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetTask)))
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
