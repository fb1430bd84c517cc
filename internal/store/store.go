// Package store is the dashboard's local persistence: sessions and per-user
// view preferences. Entity data is never stored here: the remote dealer API
// is the single source of truth for vehicles, enquiries, and the rest.
package store

import (
	"context"

	"github.com/me/dealerdash/pkg/model"
)

// Preference is one user's saved view setting for a resource list, used to
// seed the list's query state on the next visit.
type Preference struct {
	UserID   string
	Resource string // resource slug, e.g. "vehicles"
	PageSize int
}

// Store defines the dashboard's local persistence layer.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, sess *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	// Preference operations
	SetPreference(ctx context.Context, pref *Preference) error
	GetPreference(ctx context.Context, userID, resource string) (*Preference, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
