package model

import (
	"net/url"
	"strconv"
	"time"
)

// Response is the standard envelope for the dashboard's own JSON endpoints
// (health, stats).
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

// Pagination mirrors the dealer API's pagination block on list responses.
type Pagination struct {
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// Page is one page of a remote collection.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// PageCount returns ceil(total/limit). A zero or negative limit yields 0.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ListQuery is the client-side query state for one collection: page, page
// size, free-text search, and typed filter fields.
type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// DefaultListQuery returns the starting query state.
func DefaultListQuery() ListQuery {
	return ListQuery{Page: 1, Limit: 20}
}

// Normalize clamps the query into its valid range: page >= 1, limit in [1,100].
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

// WithFilter returns a copy of q with the filter set (empty value removes it)
// and the page reset to 1. Narrowing results must never strand the user on an
// out-of-range page.
func (q ListQuery) WithFilter(key, value string) ListQuery {
	out := q
	out.Filters = make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		out.Filters[k] = v
	}
	if value == "" {
		delete(out.Filters, key)
	} else {
		out.Filters[key] = value
	}
	out.Page = 1
	return out
}

// Filter returns the named filter value, or "" if unset.
func (q ListQuery) Filter(key string) string {
	return q.Filters[key]
}

// Values encodes the query as URL parameters for the dealer API.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Equal reports whether two queries describe the same request.
func (q ListQuery) Equal(o ListQuery) bool {
	if q.Page != o.Page || q.Limit != o.Limit || q.Search != o.Search {
		return false
	}
	if len(q.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range q.Filters {
		if o.Filters[k] != v {
			return false
		}
	}
	return true
}
