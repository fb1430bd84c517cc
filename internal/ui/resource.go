package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/me/dealerdash/internal/api"
	"github.com/me/dealerdash/internal/collection"
	"github.com/me/dealerdash/internal/store"
	"github.com/me/dealerdash/internal/validate"
	"github.com/me/dealerdash/pkg/model"
)

// Operations is what a resource page needs from the backend: one collection's
// CRUD calls. *api.Resource[T] satisfies it.
type Operations[T any] interface {
	List(ctx context.Context, q model.ListQuery) (*model.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload map[string]any) (*T, error)
	Update(ctx context.Context, id string, payload map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Column describes one list-table column.
type Column[T any] struct {
	Label string
	Value func(*T) string
}

// Option is one choice in a select field or filter.
type Option struct {
	Value string
	Label string
}

// Field kinds.
const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldDate     = "date"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
)

// Field describes one form field. Key is the JSON key the backend expects;
// the same key names the HTML input.
type Field struct {
	Key         string
	Label       string
	Kind        string
	Required    bool
	Placeholder string
	Rule        validate.Rule
	Options     []Option
	LoadOptions func(ctx context.Context, c *api.Client) ([]Option, error)
}

// Filter describes one list-page filter select.
type Filter struct {
	Key         string
	Label       string
	Options     []Option
	LoadOptions func(ctx context.Context, c *api.Client) ([]Option, error)
}

// ResourceConfig declares one CRUD page as data. Everything a page does
// (columns, form fields, filters, which row actions exist) comes from here;
// the handler code below is shared by every resource.
type ResourceConfig[T any] struct {
	Singular   string // "Vehicle"
	Plural     string // "Vehicles"
	Slug       string // URL segment, "vehicles"
	Searchable bool
	CanDelete  bool
	HasToggle  bool // active/inactive flip for reference data
	AdminOnly  bool

	Columns []Column[T]
	Fields  []Field
	Filters []Filter

	ID     func(*T) string
	Active func(*T) bool // required when HasToggle

	// Ops binds the collection to a (session-token-carrying) client.
	Ops func(c *api.Client) Operations[T]
}

// ResourcePage is the generic CRUD page shell: list with search, filters and
// pagination, create/edit forms, delete and toggle actions. One instance per
// resource; per-session collection controllers keep query state and discard
// stale responses across requests.
type ResourcePage[T any] struct {
	cfg ResourceConfig[T]
	ui  *UI

	mu          sync.Mutex
	controllers map[string]*collection.Controller[T] // keyed by session ID
}

// NewResourcePage builds a page from its config.
func NewResourcePage[T any](cfg ResourceConfig[T]) *ResourcePage[T] {
	return &ResourcePage[T]{
		cfg:         cfg,
		controllers: make(map[string]*collection.Controller[T]),
	}
}

// Slug returns the page's URL segment.
func (p *ResourcePage[T]) Slug() string { return p.cfg.Slug }

// Title returns the page's nav label.
func (p *ResourcePage[T]) Title() string { return p.cfg.Plural }

func (p *ResourcePage[T]) adminOnly() bool { return p.cfg.AdminOnly }

// mount registers the page's routes. r is already auth-guarded.
func (p *ResourcePage[T]) mount(ui *UI, r chi.Router) {
	p.ui = ui
	r.Route("/"+p.cfg.Slug, func(r chi.Router) {
		if p.cfg.AdminOnly {
			r.Use(ui.AdminMiddleware)
		}
		r.Get("/", p.handleList)
		r.Get("/export", p.handleExport)
		r.Get("/new", p.handleNew)
		r.Post("/", p.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/edit", p.handleEdit)
			r.Post("/", p.handleUpdate)
			if p.cfg.CanDelete {
				r.Post("/delete", p.handleDelete)
			}
			if p.cfg.HasToggle {
				r.Post("/toggle", p.handleToggle)
			}
		})
	})
}

// release drops the session's controller, cancelling any in-flight fetch.
func (p *ResourcePage[T]) release(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.controllers[sessionID]; ok {
		c.Close()
		delete(p.controllers, sessionID)
	}
}

// ops binds the backend collection to the session's token.
func (p *ResourcePage[T]) ops(sess *model.Session) Operations[T] {
	return p.cfg.Ops(p.ui.sessionClient(sess.Token))
}

// controller returns the session's collection controller, creating it (and
// issuing its initial fetch) on first use.
func (p *ResourcePage[T]) controller(sess *model.Session) *collection.Controller[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.controllers[sess.ID]; ok {
		return c
	}
	ops := p.ops(sess)
	c := collection.New(ops.List, p.initialQuery(sess))
	p.controllers[sess.ID] = c
	return c
}

// initialQuery seeds a new controller, honouring the user's saved page size.
func (p *ResourcePage[T]) initialQuery(sess *model.Session) model.ListQuery {
	q := model.DefaultListQuery()
	if pref, err := p.ui.store.GetPreference(context.Background(), sess.UserID, p.cfg.Slug); err == nil && pref != nil {
		q.Limit = pref.PageSize
	}
	return q
}

// --- List ---

func (p *ResourcePage[T]) handleList(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	ctrl := p.controller(sess)

	q, limitSet := p.parseQuery(r, sess)
	ctrl.SetQuery(q)
	if limitSet {
		// Remember the explicitly chosen page size for next time.
		_ = p.ui.store.SetPreference(r.Context(), &store.Preference{
			UserID: sess.UserID, Resource: p.cfg.Slug, PageSize: q.Limit,
		})
	}

	st, err := p.await(r.Context(), ctrl)
	if err != nil {
		p.ui.renderError(w, "Request cancelled", err)
		return
	}

	// A page beyond the end (say, after deleting the last row of the last
	// page) clamps to the final page and refetches.
	if st.Data != nil {
		pages := st.Data.Pagination.Pages
		if pages < 1 {
			pages = 1
		}
		if st.Query.Page > pages {
			ctrl.SetPage(pages)
			if st, err = p.await(r.Context(), ctrl); err != nil {
				p.ui.renderError(w, "Request cancelled", err)
				return
			}
		}
	}

	p.renderList(w, r, sess, st)
}

// await blocks until the latest fetch settles, then snapshots.
func (p *ResourcePage[T]) await(ctx context.Context, ctrl *collection.Controller[T]) (collection.State[T], error) {
	if err := ctrl.Wait(ctx); err != nil {
		return collection.State[T]{}, err
	}
	return ctrl.Snapshot(), nil
}

// parseQuery builds the query state from request parameters. Any parameter
// left out falls back to the controller-side default; filters not declared in
// the config are ignored. The second result reports an explicit limit.
func (p *ResourcePage[T]) parseQuery(r *http.Request, sess *model.Session) (model.ListQuery, bool) {
	q := p.initialQuery(sess)
	vals := r.URL.Query()

	if n, err := strconv.Atoi(vals.Get("page")); err == nil {
		q.Page = n
	}
	limitSet := false
	if n, err := strconv.Atoi(vals.Get("limit")); err == nil && n > 0 {
		q.Limit = n
		limitSet = true
	}
	if p.cfg.Searchable {
		q.Search = strings.TrimSpace(vals.Get("search"))
	}
	for _, f := range p.cfg.Filters {
		if v := vals.Get(f.Key); v != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[f.Key] = v
		}
	}
	q.Normalize()
	return q, limitSet
}

type rowView struct {
	ID     string
	Cells  []string
	Active bool
}

type filterView struct {
	Key      string
	Label    string
	Options  []Option
	Selected string
}

func (p *ResourcePage[T]) renderList(w http.ResponseWriter, r *http.Request, sess *model.Session, st collection.State[T]) {
	var (
		rows  []rowView
		pager Pager
	)
	if st.Data != nil {
		pager = BuildPager(st.Query, st.Data.Pagination)
		rows = make([]rowView, 0, len(st.Data.Items))
		for i := range st.Data.Items {
			item := &st.Data.Items[i]
			rv := rowView{ID: p.cfg.ID(item)}
			for _, col := range p.cfg.Columns {
				rv.Cells = append(rv.Cells, col.Value(item))
			}
			if p.cfg.HasToggle {
				rv.Active = p.cfg.Active(item)
			}
			rows = append(rows, rv)
		}
	} else {
		pager = BuildPager(st.Query, model.Pagination{})
	}

	headers := make([]string, 0, len(p.cfg.Columns))
	for _, col := range p.cfg.Columns {
		headers = append(headers, col.Label)
	}

	filters := make([]filterView, 0, len(p.cfg.Filters))
	client := p.ui.sessionClient(sess.Token)
	for _, f := range p.cfg.Filters {
		fv := filterView{Key: f.Key, Label: f.Label, Options: f.Options, Selected: st.Query.Filter(f.Key)}
		if f.LoadOptions != nil {
			if opts, err := f.LoadOptions(r.Context(), client); err == nil {
				fv.Options = opts
			}
		}
		filters = append(filters, fv)
	}

	p.ui.render(w, http.StatusOK, "resource/list", map[string]any{
		"Title":      p.cfg.Plural + " - DealerDash",
		"Session":    sess,
		"Nav":        p.ui.navLinks(sess),
		"Heading":    p.cfg.Plural,
		"Singular":   p.cfg.Singular,
		"Slug":       p.cfg.Slug,
		"Searchable": p.cfg.Searchable,
		"CanDelete":  p.cfg.CanDelete,
		"HasToggle":  p.cfg.HasToggle,
		"Headers":    headers,
		"Rows":       rows,
		"Filters":    filters,
		"Search":     st.Query.Search,
		"Pager":      pager,
		"PageSizes":  []int{10, 20, 50, 100},
		"Query":      listQueryString(st.Query),
		"Error":      listError(st.Err, r),
		"Stale":      st.Err != "" && st.Data != nil,
		"Notice":     r.URL.Query().Get("notice"),
	})
}

// listError prefers the controller's fetch error; a row action that failed
// reports through the redirect's error parameter instead.
func listError(fetchErr string, r *http.Request) string {
	if fetchErr != "" {
		return fetchErr
	}
	return r.URL.Query().Get("error")
}

// listQueryString encodes everything but the page number, for links that must
// preserve search/filter/limit state.
func listQueryString(q model.ListQuery) string {
	vals := q.Values()
	vals.Del("page")
	return vals.Encode()
}

// --- Export ---

// handleExport streams the filtered collection as CSV, walking every page.
func (p *ResourcePage[T]) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	ops := p.ops(sess)

	q, _ := p.parseQuery(r, sess)
	q.Page = 1
	q.Limit = 100

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s_%s.csv", p.cfg.Slug, time.Now().Format("20060102_150405")))

	headers := make([]string, 0, len(p.cfg.Columns)+1)
	headers = append(headers, "ID")
	for _, col := range p.cfg.Columns {
		headers = append(headers, col.Label)
	}
	fmt.Fprintln(w, strings.Join(headers, ","))

	for {
		page, err := ops.List(r.Context(), q)
		if err != nil {
			p.ui.logger.Error("export failed", "resource", p.cfg.Slug, "page", q.Page, "error", err)
			return
		}
		for i := range page.Items {
			item := &page.Items[i]
			cells := []string{csvEscape(p.cfg.ID(item))}
			for _, col := range p.cfg.Columns {
				cells = append(cells, csvEscape(col.Value(item)))
			}
			fmt.Fprintln(w, strings.Join(cells, ","))
		}
		if !page.Pagination.HasNext || len(page.Items) == 0 {
			return
		}
		q.Page++
	}
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// --- Forms ---

type fieldView struct {
	Field
	Value   string
	Checked bool
	Error   string
}

func (p *ResourcePage[T]) handleNew(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	p.renderForm(w, r, sess, formState{
		action: "/" + p.cfg.Slug,
		title:  "New " + p.cfg.Singular,
	})
}

func (p *ResourcePage[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	p.submitForm(w, r, sess, formState{
		action: "/" + p.cfg.Slug,
		title:  "New " + p.cfg.Singular,
	}, func(ctx context.Context, payload map[string]any) error {
		_, err := p.ops(sess).Create(ctx, payload)
		return err
	}, p.cfg.Singular+" created")
}

func (p *ResourcePage[T]) handleEdit(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	entity, err := p.ops(sess).Get(r.Context(), id)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrNotFound {
			p.ui.renderNotFound(w, p.cfg.Singular+" not found")
			return
		}
		p.ui.renderError(w, "Failed to load "+strings.ToLower(p.cfg.Singular), err)
		return
	}

	p.renderForm(w, r, sess, formState{
		action: "/" + p.cfg.Slug + "/" + id,
		title:  "Edit " + p.cfg.Singular,
		values: entityValues(entity),
		isEdit: true,
	})
}

func (p *ResourcePage[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	p.submitForm(w, r, sess, formState{
		action: "/" + p.cfg.Slug + "/" + id,
		title:  "Edit " + p.cfg.Singular,
		isEdit: true,
	}, func(ctx context.Context, payload map[string]any) error {
		_, err := p.ops(sess).Update(ctx, id, payload)
		return err
	}, p.cfg.Singular+" updated")
}

// formState carries what a render of the form needs besides the field specs.
type formState struct {
	action      string
	title       string
	values      map[string]string
	fieldErrors map[string]string
	topError    string
	isEdit      bool
}

// submitForm runs the shared submit pipeline: parse, validate locally, call
// the backend, and on any failure re-render the form with everything the user
// typed still in place.
func (p *ResourcePage[T]) submitForm(w http.ResponseWriter, r *http.Request, sess *model.Session, fs formState, commit func(context.Context, map[string]any) error, notice string) {
	if err := r.ParseForm(); err != nil {
		p.ui.renderError(w, "Invalid form submission", err)
		return
	}

	values := map[string]string{}
	for _, f := range p.cfg.Fields {
		values[f.Key] = strings.TrimSpace(r.PostFormValue(f.Key))
	}
	fs.values = values

	payload, fieldErrors := p.buildPayload(values)
	if len(fieldErrors) > 0 {
		fs.fieldErrors = fieldErrors
		p.renderForm(w, r, sess, fs)
		return
	}

	if err := commit(r.Context(), payload); err != nil {
		fs.topError, fs.fieldErrors = splitAPIError(err)
		p.renderForm(w, r, sess, fs)
		return
	}

	// The list refetches on next render; nothing is patched in optimistically.
	if ctrl := p.existingController(sess.ID); ctrl != nil {
		ctrl.Refetch()
	}
	http.Redirect(w, r, "/"+p.cfg.Slug+"?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

func (p *ResourcePage[T]) existingController(sessionID string) *collection.Controller[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controllers[sessionID]
}

// buildPayload coerces and validates submitted values. All failures are
// collected so the user sees every problem at once.
func (p *ResourcePage[T]) buildPayload(values map[string]string) (map[string]any, map[string]string) {
	payload := map[string]any{}
	fieldErrors := map[string]string{}

	record := map[string]any{}
	for _, f := range p.cfg.Fields {
		record[f.Key] = coerce(f, values[f.Key])
	}

	for _, f := range p.cfg.Fields {
		raw := values[f.Key]
		if f.Required && raw == "" && f.Kind != FieldCheckbox {
			fieldErrors[f.Key] = f.Label + " is required"
			continue
		}

		val := record[f.Key]
		if f.Kind == FieldNumber && raw != "" {
			if _, ok := val.(float64); !ok {
				fieldErrors[f.Key] = f.Label + " must be a number"
				continue
			}
		}

		if raw != "" || f.Kind == FieldCheckbox {
			msg, err := p.ui.validator.Check(f.Rule, val, record)
			if err != nil {
				p.ui.logger.Error("validation rule failed to evaluate",
					"resource", p.cfg.Slug, "field", f.Key, "error", err)
			} else if msg != "" {
				fieldErrors[f.Key] = msg
				continue
			}
		}

		if raw == "" && f.Kind != FieldCheckbox {
			continue // omit empty optional fields from the payload
		}
		payload[f.Key] = val
	}
	return payload, fieldErrors
}

// coerce converts a submitted string to the JSON type the backend expects.
func coerce(f Field, raw string) any {
	switch f.Kind {
	case FieldNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
		return raw
	case FieldCheckbox:
		return raw == "on" || raw == "true"
	default:
		return raw
	}
}

// splitAPIError maps a backend failure onto the form: per-field messages when
// the error carries details, a banner otherwise.
func splitAPIError(err error) (string, map[string]string) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return err.Error(), nil
	}
	if len(apiErr.Details) == 0 {
		return apiErr.Message, nil
	}
	fieldErrors := make(map[string]string, len(apiErr.Details))
	for _, d := range apiErr.Details {
		fieldErrors[d.Field] = d.Message
	}
	return apiErr.Message, fieldErrors
}

func (p *ResourcePage[T]) renderForm(w http.ResponseWriter, r *http.Request, sess *model.Session, fs formState) {
	client := p.ui.sessionClient(sess.Token)

	fields := make([]fieldView, 0, len(p.cfg.Fields))
	for _, f := range p.cfg.Fields {
		fv := fieldView{Field: f, Value: fs.values[f.Key], Error: fs.fieldErrors[f.Key]}
		if f.Kind == FieldCheckbox {
			fv.Checked = fs.values[f.Key] == "on" || fs.values[f.Key] == "true"
		}
		if f.LoadOptions != nil {
			if opts, err := f.LoadOptions(r.Context(), client); err == nil {
				fv.Options = opts
			} else {
				p.ui.logger.Error("load field options failed",
					"resource", p.cfg.Slug, "field", f.Key, "error", err)
			}
		}
		fields = append(fields, fv)
	}

	status := http.StatusOK
	if fs.topError != "" || len(fs.fieldErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	p.ui.render(w, status, "resource/form", map[string]any{
		"Title":     fs.title + " - DealerDash",
		"Session":   sess,
		"Nav":       p.ui.navLinks(sess),
		"Heading":   fs.title,
		"Action":    fs.action,
		"CancelURL": "/" + p.cfg.Slug,
		"Fields":    fields,
		"Error":     fs.topError,
		"IsEdit":    fs.isEdit,
	})
}

// entityValues flattens an entity into form-prefill strings keyed by JSON
// field name.
func entityValues[T any](entity *T) map[string]string {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}

	values := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = t
		case float64:
			values[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			if t {
				values[k] = "on"
			}
		default:
			b, _ := json.Marshal(t)
			values[k] = string(b)
		}
	}
	return values
}

// --- Row actions ---

func (p *ResourcePage[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	back := p.returnURL(r)
	if err := p.ops(sess).Delete(r.Context(), id); err != nil {
		// The row stays until the backend confirms; surface the failure and
		// rerender from a fresh fetch.
		p.ui.logger.Error("delete failed", "resource", p.cfg.Slug, "id", id, "error", err)
		http.Redirect(w, r, back+errorParam(back, err), http.StatusSeeOther)
		return
	}
	if ctrl := p.existingController(sess.ID); ctrl != nil {
		ctrl.Refetch()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (p *ResourcePage[T]) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	ops := p.ops(sess)

	back := p.returnURL(r)
	entity, err := ops.Get(r.Context(), id)
	if err != nil {
		http.Redirect(w, r, back+errorParam(back, err), http.StatusSeeOther)
		return
	}
	if _, err := ops.Update(r.Context(), id, map[string]any{"active": !p.cfg.Active(entity)}); err != nil {
		http.Redirect(w, r, back+errorParam(back, err), http.StatusSeeOther)
		return
	}
	if ctrl := p.existingController(sess.ID); ctrl != nil {
		ctrl.Refetch()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// returnURL rebuilds the list URL a row action came from, keeping its page,
// search and filter state.
func (p *ResourcePage[T]) returnURL(r *http.Request) string {
	base := "/" + p.cfg.Slug
	if qs := r.PostFormValue("return"); qs != "" {
		if vals, err := url.ParseQuery(qs); err == nil {
			return base + "?" + vals.Encode()
		}
	}
	return base
}

func errorParam(back string, err error) string {
	sep := "?"
	if strings.Contains(back, "?") {
		sep = "&"
	}
	return sep + "error=" + url.QueryEscape(errorText(err))
}

func errorText(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
