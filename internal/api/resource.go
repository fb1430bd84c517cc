package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/me/dealerdash/pkg/model"
)

// Resource is the operations object for one dealer API collection: thin
// list/get/create/update/delete calls bound to a resource path. The type
// parameter is the entity the collection holds.
type Resource[T any] struct {
	client *Client
	path   string // URL path under the API base, e.g. "/vehicles"
	plural string // key holding the item array in list responses, e.g. "vehicles"
}

// NewResource binds a client to one collection.
func NewResource[T any](c *Client, path, plural string) *Resource[T] {
	return &Resource[T]{client: c, path: path, plural: plural}
}

// WithClient rebinds the resource to a different client (e.g. one carrying a
// session token source).
func (r *Resource[T]) WithClient(c *Client) *Resource[T] {
	return &Resource[T]{client: c, path: r.path, plural: r.plural}
}

// List fetches one page matching the query.
func (r *Resource[T]) List(ctx context.Context, q model.ListQuery) (*model.Page[T], error) {
	q.Normalize()
	data, err := r.client.do(ctx, http.MethodGet, r.path, q.Values(), nil)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", r.path, err)
	}

	page := &model.Page[T]{Items: []T{}}
	if raw, ok := fields[r.plural]; ok {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return nil, fmt.Errorf("decode %s items: %w", r.path, err)
		}
	}
	if raw, ok := fields["pagination"]; ok {
		if err := json.Unmarshal(raw, &page.Pagination); err != nil {
			return nil, fmt.Errorf("decode %s pagination: %w", r.path, err)
		}
	}

	// Some endpoints omit derived fields; recompute rather than trust them.
	if page.Pagination.Pages == 0 {
		page.Pagination.Pages = model.PageCount(page.Pagination.Total, q.Limit)
	}
	if page.Pagination.Page == 0 {
		page.Pagination.Page = q.Page
	}
	return page, nil
}

// Get fetches a single entity by ID.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	data, err := r.client.do(ctx, http.MethodGet, r.path+"/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", r.path, id, err)
	}
	return &out, nil
}

// Create posts a new entity and returns the stored record (with its
// server-assigned ID and timestamps).
func (r *Resource[T]) Create(ctx context.Context, payload map[string]any) (*T, error) {
	data, err := r.client.do(ctx, http.MethodPost, r.path, nil, payload)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode created %s: %w", r.path, err)
	}
	return &out, nil
}

// Update puts the editable fields of an existing entity.
func (r *Resource[T]) Update(ctx context.Context, id string, payload map[string]any) (*T, error) {
	data, err := r.client.do(ctx, http.MethodPut, r.path+"/"+id, nil, payload)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode updated %s: %w", r.path, err)
	}
	return &out, nil
}

// Delete removes an entity. The caller refetches its list afterwards; rows
// are never dropped optimistically.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.client.do(ctx, http.MethodDelete, r.path+"/"+id, nil, nil)
	return err
}
