// Package server exposes the pipeline over a read-only HTTP API.
//
// Every request loads the configured dataset through the runner, so remote
// sources are served from the runner's cache and local files are re-read.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/agentscape/pkg/observability/metrics"
	"github.com/matzehuels/agentscape/pkg/pipeline"
)

// DefaultReadTimeout applies when Config.ReadTimeout is zero.
const DefaultReadTimeout = 15 * time.Second

// Config configures a Server.
type Config struct {
	Addr        string
	ReadTimeout time.Duration

	// Defaults seed the options of every request; query parameters
	// override them. Defaults.Source names the dataset.
	Defaults pipeline.Options

	// Metrics, when set, is served at /metrics.
	Metrics *metrics.Registry
}

// Server serves the API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router http.Handler
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	s := &Server{cfg: cfg, runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogging(s.logger))
	r.Use(serveMetrics)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/entities", s.listEntities)
		api.Get("/entities/{name}", s.getEntity)
		api.Get("/layout", s.layout)
		api.Get("/plot.{format}", s.plot)
		api.Get("/hit", s.hit)
		api.Get("/categories.svg", s.categories)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Addr, "source", s.cfg.Defaults.Source)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
