package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/me/dealerdash/internal/api"
	"github.com/me/dealerdash/internal/logging"
	"github.com/me/dealerdash/internal/store"
	"github.com/me/dealerdash/pkg/model"
)

// fakeBackend is an in-memory dealer API serving the /makes collection and
// /auth/login, speaking the {success, data, error} envelope.
type fakeBackend struct {
	mu    sync.Mutex
	makes []model.Make
}

func (b *fakeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "hunter2" {
			writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid credentials")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"token": "tok_test",
			"user": model.User{
				ID: "usr_1", Email: creds["email"], Name: "Test Admin", Role: model.RoleAdmin,
			},
		}, "")
	})

	mux.HandleFunc("GET /makes", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 20
		}

		matched := make([]model.Make, 0, len(b.makes))
		for _, m := range b.makes {
			if s := q.Get("search"); s != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(s)) {
				continue
			}
			matched = append(matched, m)
		}

		start := (page - 1) * limit
		end := start + limit
		if start > len(matched) {
			start = len(matched)
		}
		if end > len(matched) {
			end = len(matched)
		}
		pages := model.PageCount(len(matched), limit)

		writeEnvelope(w, http.StatusOK, map[string]any{
			"makes": matched[start:end],
			"pagination": model.Pagination{
				Page: page, Pages: pages, Total: len(matched),
				HasNext: page < pages, HasPrev: page > 1,
			},
		}, "")
	})

	mux.HandleFunc("POST /makes", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		name, _ := payload["name"].(string)

		b.mu.Lock()
		defer b.mu.Unlock()
		for _, m := range b.makes {
			if m.Name == name {
				writeEnvelope(w, http.StatusBadRequest, nil, "Make already exists")
				return
			}
		}
		active, _ := payload["active"].(bool)
		mk := model.Make{
			ID: fmt.Sprintf("mk_%d", len(b.makes)+1), Name: name,
			Active: active, CreatedAt: time.Now(),
		}
		b.makes = append(b.makes, mk)
		writeEnvelope(w, http.StatusCreated, mk, "")
	})

	mux.HandleFunc("DELETE /makes/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := r.PathValue("id")
		for i, m := range b.makes {
			if m.ID == id {
				b.makes = append(b.makes[:i], b.makes[i+1:]...)
				writeEnvelope(w, http.StatusOK, map[string]string{"id": id}, "")
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, nil, "Make not found")
	})

	mux.HandleFunc("GET /makes/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, m := range b.makes {
			if m.ID == r.PathValue("id") {
				writeEnvelope(w, http.StatusOK, m, "")
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, nil, "Make not found")
	})

	mux.HandleFunc("GET /analytics/summary", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, model.Summary{
			MakeCount: len(b.makes), VehicleCount: 7, SaleCount: 2, SalesTotal: 31000,
			EnquiriesByStatus: map[string]int{"new": 3},
		}, "")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeEnvelope(w http.ResponseWriter, status int, data any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": errMsg == "",
		"data":    data,
		"error":   errMsg,
	})
}

// testApp wires the full UI stack against a fake backend.
type testApp struct {
	ui     *UI
	router *chi.Mux
	cookie *http.Cookie
}

func newTestApp(t *testing.T, backendURL, role string) *testApp {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	client := api.NewClient(backendURL, nil, logging.Discard())
	u := New(client, st, logging.Discard(), Config{})
	u.Register(MakesPage(), ReferencePage("Fuel Type", "Fuel Types", "fuel-types", "fuelTypes"))

	router := chi.NewRouter()
	u.RegisterRoutes(router)

	sess, err := u.sessions.CreateSession(context.Background(),
		model.User{ID: "usr_1", Email: "staff@dealer.test", Name: "Staff", Role: role},
		"tok_test", time.Time{})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	return &testApp{
		ui:     u,
		router: router,
		cookie: &http.Cookie{Name: SessionCookieName, Value: sess.ID},
	}
}

func (a *testApp) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(a.cookie)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(a.cookie)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func seedMakes(names ...string) *fakeBackend {
	b := &fakeBackend{}
	for i, name := range names {
		b.makes = append(b.makes, model.Make{
			ID: fmt.Sprintf("mk_%d", i+1), Name: name, Active: true, CreatedAt: time.Now(),
		})
	}
	return b
}

func TestListRendersRows(t *testing.T) {
	backend := seedMakes("Honda", "Toyota", "Ford")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.get(t, "/makes")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"Honda", "Toyota", "Ford"} {
		if !strings.Contains(body, name) {
			t.Errorf("body missing %q", name)
		}
	}
	if !strings.Contains(body, "Page 1 of 1") {
		t.Error("body missing pagination summary")
	}
}

func TestListSearchFilters(t *testing.T) {
	backend := seedMakes("Honda", "Toyota")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	body := app.get(t, "/makes?search=hon").Body.String()
	if !strings.Contains(body, "Honda") {
		t.Error("search result missing Honda")
	}
	if strings.Contains(body, "Toyota") {
		t.Error("search result should not contain Toyota")
	}
}

func TestListClampsPageAfterShrink(t *testing.T) {
	// Three makes at two per page puts one row on page 2. Deleting it leaves
	// a stale page=2 parameter pointing past the end; the next render must
	// clamp to the last real page instead of showing an empty table.
	backend := seedMakes("Honda", "Toyota", "Ford")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	body := app.get(t, "/makes?page=2&limit=2").Body.String()
	if !strings.Contains(body, "Ford") || !strings.Contains(body, "Page 2 of 2") {
		t.Fatalf("page 2 should show Ford, got: %.200s", body)
	}

	rec := app.post(t, "/makes/mk_3/delete", url.Values{"return": {"limit=2&page=2"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want 303", rec.Code)
	}

	body = app.get(t, rec.Header().Get("Location")).Body.String()
	if !strings.Contains(body, "Page 1 of 1") {
		t.Errorf("expected clamp to page 1 of 1, got body with %q",
			firstLineContaining(body, "Page "))
	}
	if !strings.Contains(body, "Honda") || !strings.Contains(body, "Toyota") {
		t.Error("clamped page should show the remaining makes")
	}
}

func TestListEmptyCollection(t *testing.T) {
	backend := seedMakes()
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	body := app.get(t, "/makes").Body.String()
	if !strings.Contains(body, "No results") {
		t.Error("empty collection should render the no-results summary")
	}
	if !strings.Contains(body, "Page 1 of 1") {
		t.Error("empty collection still renders page 1 of 1")
	}
	if strings.Contains(body, "?page=0") || strings.Contains(body, "?page=2") {
		t.Error("empty collection must not render prev/next links")
	}
}

func TestCreateRequiredFieldKeepsForm(t *testing.T) {
	backend := seedMakes("Honda")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.post(t, "/makes", url.Values{"name": {""}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Name is required") {
		t.Error("missing required-field message")
	}
}

func TestCreateRuleFailureKeepsValue(t *testing.T) {
	backend := seedMakes()
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.post(t, "/makes", url.Values{"name": {"X"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Name must be at least 2 characters") {
		t.Error("missing rule failure message")
	}
	if !strings.Contains(body, `value="X"`) {
		t.Error("entered value must survive a failed submit")
	}
	// Nothing reached the backend.
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.makes) != 0 {
		t.Error("invalid submit must not create a record")
	}
}

func TestCreateBackendRejectionKeepsValue(t *testing.T) {
	backend := seedMakes("Honda")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.post(t, "/makes", url.Values{"name": {"Honda"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Make already exists") {
		t.Error("backend error message must surface on the form")
	}
	if !strings.Contains(body, `value="Honda"`) {
		t.Error("entered value must survive a backend rejection")
	}
}

func TestCreateSuccessRedirectsToList(t *testing.T) {
	backend := seedMakes()
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.post(t, "/makes", url.Values{"name": {"Honda"}, "active": {"on"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/makes") {
		t.Errorf("redirect = %q, want list page", loc)
	}

	backend.mu.Lock()
	created := len(backend.makes) == 1 && backend.makes[0].Name == "Honda" && backend.makes[0].Active
	backend.mu.Unlock()
	if !created {
		t.Error("create did not reach the backend")
	}
}

func TestEditPrefillsForm(t *testing.T) {
	backend := seedMakes("Honda")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	body := app.get(t, "/makes/mk_1/edit").Body.String()
	if !strings.Contains(body, `value="Honda"`) {
		t.Error("edit form should prefill the current name")
	}
	if !strings.Contains(body, "checked") {
		t.Error("edit form should prefill the active checkbox")
	}
}

func TestDeleteFailureKeepsRow(t *testing.T) {
	backend := seedMakes("Honda")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.post(t, "/makes/mk_missing/delete", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 redirect", rec.Code)
	}
	body := app.get(t, rec.Header().Get("Location")).Body.String()
	if !strings.Contains(body, "Make not found") {
		t.Error("delete failure should surface on the list page")
	}
	if !strings.Contains(body, "Honda") {
		t.Error("rows must survive a failed delete")
	}
}

func TestAdminOnlyPage(t *testing.T) {
	backend := seedMakes()
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	if rec := app.get(t, "/fuel-types"); rec.Code != http.StatusForbidden {
		t.Errorf("staff on admin page: status = %d, want 403", rec.Code)
	}

	admin := newTestApp(t, backend.server(t).URL, model.RoleAdmin)
	if rec := admin.get(t, "/fuel-types"); rec.Code == http.StatusForbidden {
		t.Error("admin must reach admin-only pages")
	}
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	backend := seedMakes()
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/makes", nil) // no cookie
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("got %d -> %q, want 303 -> /login", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLoginFlow(t *testing.T) {
	backend := seedMakes("Honda")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	form := url.Values{"email": {"admin@dealer.test"}, "password": {"hunter2"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d -> %q, want 303 -> /", rec.Code, rec.Header().Get("Location"))
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login did not set a session cookie")
	}

	// The new session reaches the dashboard.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Welcome back") {
		t.Errorf("dashboard after login: status %d", rec.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	backend := seedMakes()
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	form := url.Values{"email": {"admin@dealer.test"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
		t.Errorf("redirect = %q, want back to login with error", loc)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	backend := seedMakes()
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.get(t, "/logout")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("got %d -> %q, want 303 -> /login", rec.Code, rec.Header().Get("Location"))
	}

	// The old cookie no longer authenticates.
	if rec := app.get(t, "/makes"); rec.Code != http.StatusSeeOther {
		t.Errorf("stale session: status = %d, want redirect to login", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	backend := seedMakes("Honda", "Toyota")
	app := newTestApp(t, backend.server(t).URL, model.RoleStaff)

	rec := app.get(t, "/makes/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "ID,Name,Active,Created") {
		t.Errorf("csv header = %q", firstLineContaining(body, ""))
	}
	if !strings.Contains(body, "Honda") || !strings.Contains(body, "Toyota") {
		t.Error("csv missing rows")
	}
}

func firstLineContaining(s, sub string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, sub) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
