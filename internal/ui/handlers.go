package ui

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/me/dealerdash/pkg/model"
)

// HandleLogin renders the login page.
func (ui *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	// Already logged in: straight to the dashboard.
	if sess, _ := ui.sessions.GetSessionFromRequest(r); sess != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ui.render(w, http.StatusOK, "login", map[string]any{
		"Title": "Login - DealerDash",
		"Error": r.URL.Query().Get("error"),
	})
}

// HandleLoginPost authenticates against the dealer API and opens a session.
func (ui *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=Invalid+request", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		http.Redirect(w, r, "/login?error=Email+and+password+required", http.StatusSeeOther)
		return
	}

	res, err := ui.client.Login(r.Context(), email, password)
	if err != nil {
		ui.logger.Warn("login failed", "email", email, "error", err)
		http.Redirect(w, r, "/login?error=Invalid+credentials", http.StatusSeeOther)
		return
	}

	var tokenExp time.Time
	if res.ExpiresAt != nil {
		tokenExp = *res.ExpiresAt
	}

	sess, err := ui.sessions.CreateSession(r.Context(), res.User, res.Token, tokenExp)
	if err != nil {
		ui.logger.Error("create session failed", "error", err)
		http.Redirect(w, r, "/login?error=Session+creation+failed", http.StatusSeeOther)
		return
	}

	SetSessionCookie(w, sess, ui.secure)
	ui.logger.Info("user logged in", "email", email, "session", sess.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout closes the session and drops its collection controllers.
func (ui *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, _ := ui.sessions.GetSessionFromRequest(r); sess != nil {
		_ = ui.sessions.DeleteSession(r.Context(), sess.ID)
		ui.releaseSession(sess.ID)
		ui.logger.Info("user logged out", "email", sess.Email, "session", sess.ID)
	}
	ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleDashboard renders the analytics overview.
func (ui *UI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var summaryErr string
	summary, err := ui.sessionClient(sess.Token).Summary(r.Context())
	if err != nil {
		ui.logger.Error("analytics summary failed", "error", err)
		summaryErr = errorText(err)
		summary = &model.Summary{}
	}

	ui.render(w, http.StatusOK, "dashboard", map[string]any{
		"Title":   "Dashboard - DealerDash",
		"Session": sess,
		"Nav":     ui.navLinks(sess),
		"Summary": summary,
		"Error":   summaryErr,
		"Uptime":  time.Since(ui.startTime).Round(time.Second).String(),
	})
}

// --- Render helpers ---

func (ui *UI) render(w http.ResponseWriter, status int, template string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (ui *UI) renderError(w http.ResponseWriter, message string, err error) {
	ui.logger.Error(message, "error", err)
	ui.render(w, http.StatusInternalServerError, "error", map[string]any{
		"Title":   "Error - DealerDash",
		"Message": message,
	})
}

func (ui *UI) renderNotFound(w http.ResponseWriter, message string) {
	ui.render(w, http.StatusNotFound, "error", map[string]any{
		"Title":   "Not Found - DealerDash",
		"Message": message,
	})
}
