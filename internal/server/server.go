// Package server assembles the HTTP surface: the server-rendered dashboard UI
// plus a small JSON API for health checks and operational stats.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/dealerdash/internal/api"
	"github.com/me/dealerdash/internal/config"
	"github.com/me/dealerdash/internal/store"
	"github.com/me/dealerdash/internal/ui"
)

// Server is the DealerDash HTTP server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	client    *api.Client
	store     store.Store
	ui        *ui.UI
	pages     []ui.Page
	staticDir string
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithPages overrides the default resource page set. Used by tests to mount a
// reduced set against a fake backend.
func WithPages(pages ...ui.Page) Option {
	return func(s *Server) {
		s.pages = pages
	}
}

// WithStaticDir serves static assets from dir under /static/.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// New creates a Server with all routes registered.
func New(cfg config.ServerConfig, client *api.Client, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		client:    client,
		store:     st,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ui = ui.New(client, st, logger, ui.Config{Secure: cfg.Secure})
	if s.pages == nil {
		s.pages = ui.DefaultPages()
	}
	s.ui.Register(s.pages...)

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	if s.staticDir != "" {
		r.Handle("/static/*", ui.StaticHandler(s.staticDir))
	}

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)

	// Operational JSON endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
	})
}
