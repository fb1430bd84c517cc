// Package collection implements the remote collection controller: the owner
// of one entity list's query state (page, limit, search, filters) and fetch
// lifecycle (loading, error, last-known page).
//
// Requests can complete out of order, so every fetch carries a monotonically
// increasing sequence number. A response is applied only if its sequence is
// still the latest issued; anything older is discarded and its context
// canceled. The visible result therefore always corresponds to the most
// recently *initiated* query state, never merely the most recently completed
// request.
package collection

import (
	"context"
	"errors"
	"sync"

	"github.com/me/dealerdash/pkg/model"
)

// ListFunc fetches one page for a query. api.Resource[T].List satisfies it.
type ListFunc[T any] func(ctx context.Context, q model.ListQuery) (*model.Page[T], error)

// State is an atomic snapshot of a controller.
type State[T any] struct {
	Query   model.ListQuery
	Data    *model.Page[T] // last successfully fetched page; survives errors
	Loading bool
	Err     string // human-readable message of the last failed fetch, "" when healthy
}

// Controller owns the query state and result slot for one collection. All
// methods are safe for concurrent use.
type Controller[T any] struct {
	list ListFunc[T]

	mu      sync.Mutex
	query   model.ListQuery
	seq     uint64 // sequence of the most recently issued fetch
	loading bool
	data    *model.Page[T]
	errMsg  string
	cancel  context.CancelFunc // cancels the in-flight fetch, nil when idle
	settled chan struct{}      // closed when the fetch for seq completes
	closed  bool
}

// New creates a controller seeded with the given query state and issues an
// immediate fetch.
func New[T any](list ListFunc[T], initial model.ListQuery) *Controller[T] {
	initial.Normalize()
	c := &Controller[T]{list: list, query: initial}
	c.mu.Lock()
	c.startLocked()
	c.mu.Unlock()
	return c
}

// SetPage moves to page n and fetches. The page is normalized, not validated
// against the total: an out-of-range page simply comes back empty.
func (c *Controller[T]) SetPage(n int) {
	c.mutate(func(q *model.ListQuery) { q.Page = n })
}

// SetLimit changes the page size, resets to page 1, and fetches.
func (c *Controller[T]) SetLimit(n int) {
	c.mutate(func(q *model.ListQuery) { q.Limit = n; q.Page = 1 })
}

// SetSearch replaces the free-text search, resets to page 1, and fetches.
func (c *Controller[T]) SetSearch(s string) {
	c.mutate(func(q *model.ListQuery) { q.Search = s; q.Page = 1 })
}

// SetFilter replaces one filter field (empty value removes it), resets to
// page 1, and fetches.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mutate(func(q *model.ListQuery) { *q = q.WithFilter(key, value) })
}

// SetQuery replaces the whole query state and fetches. Used by the page shell
// when a request carries a full parameter set.
func (c *Controller[T]) SetQuery(q model.ListQuery) {
	c.mutate(func(dst *model.ListQuery) { *dst = q })
}

// Refetch re-issues the request with unchanged query state. Called after
// every mutation (create/update/delete) so the list reflects the backend.
func (c *Controller[T]) Refetch() {
	c.mutate(func(*model.ListQuery) {})
}

// Snapshot returns the current state atomically.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{Query: c.query, Data: c.data, Loading: c.loading, Err: c.errMsg}
}

// Wait blocks until the most recently issued fetch has settled (applied or
// superseded-and-discarded) or ctx is done. Callers that mutate and then
// render use mutate-then-Wait-then-Snapshot.
func (c *Controller[T]) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		if !c.loading {
			c.mu.Unlock()
			return nil
		}
		ch := c.settled
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			// A newer fetch may have superseded this one; re-check.
		}
	}
}

// Close cancels any in-flight fetch and rejects further ones. Safe to call
// more than once.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// mutate applies one query-state change and issues exactly one fetch
// reflecting the full current state.
func (c *Controller[T]) mutate(fn func(*model.ListQuery)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	fn(&c.query)
	c.query.Normalize()
	c.startLocked()
}

var errSuperseded = errors.New("superseded")

// startLocked issues a fetch for the current query state. mu must be held.
func (c *Controller[T]) startLocked() {
	c.seq++
	seq := c.seq

	// Abort the superseded fetch; its result would be discarded anyway.
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	c.cancel = func() { cancel(errSuperseded) }
	c.loading = true

	ch := make(chan struct{})
	c.settled = ch
	q := c.query

	go func() {
		defer close(ch)
		page, err := c.list(ctx, q)
		cancel(nil)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.seq {
			return // stale response: a newer query state was issued meanwhile
		}
		c.loading = false
		c.cancel = nil
		if err != nil {
			// Keep the previous data so the UI shows stale-but-present rows
			// instead of flashing empty.
			c.errMsg = errorMessage(err)
			return
		}
		c.errMsg = ""
		c.data = page
	}()
}

// errorMessage extracts a display message from a fetch error.
func errorMessage(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
