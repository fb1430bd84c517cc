// Package ui renders the dashboard's web interface: login, the analytics
// dashboard, and one generic CRUD page per dealer API resource. Per-entity
// pages are configuration, not code; see resource.go and config.go.
package ui

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/me/dealerdash/internal/api"
	"github.com/me/dealerdash/internal/store"
	"github.com/me/dealerdash/internal/validate"
	"github.com/me/dealerdash/pkg/model"
)

// UI handles the web user interface.
type UI struct {
	client    *api.Client // unauthenticated base client; session tokens are bound per use
	store     store.Store
	sessions  *SessionManager
	validator *validate.Evaluator
	logger    *slog.Logger
	startTime time.Time
	secure    bool // secure cookies (HTTPS)

	pages []Page
}

// Page is one mounted resource page; the concrete type is *ResourcePage[T].
type Page interface {
	mount(ui *UI, r chi.Router)
	release(sessionID string)
	adminOnly() bool
	Slug() string
	Title() string
}

// NavLink describes one sidebar entry, derived from the registered pages.
type NavLink struct {
	Slug  string
	Title string
}

// Config holds UI configuration.
type Config struct {
	Secure bool
}

// New creates the UI handler. Resource pages are attached with Register.
func New(client *api.Client, st store.Store, logger *slog.Logger, cfg Config) *UI {
	return &UI{
		client:    client,
		store:     st,
		sessions:  NewSessionManager(st),
		validator: validate.New(),
		logger:    logger.With("component", "ui"),
		startTime: time.Now(),
		secure:    cfg.Secure,
	}
}

// Register attaches resource pages to the UI. Call before RegisterRoutes.
func (ui *UI) Register(pages ...Page) {
	ui.pages = append(ui.pages, pages...)
}

// releaseSession drops per-session controllers on logout or expiry.
func (ui *UI) releaseSession(sessionID string) {
	for _, p := range ui.pages {
		p.release(sessionID)
	}
}

// navLinks lists the pages the session's user may visit, for the layout nav.
func (ui *UI) navLinks(sess *model.Session) []NavLink {
	links := make([]NavLink, 0, len(ui.pages))
	for _, p := range ui.pages {
		if p.adminOnly() && (sess == nil || !sess.IsAdmin()) {
			continue
		}
		links = append(links, NavLink{Slug: p.Slug(), Title: p.Title()})
	}
	return links
}

// sessionClient returns a client bound to the session's API token.
func (ui *UI) sessionClient(token string) *api.Client {
	return ui.client.WithTokenSource(api.StaticToken(token))
}
