package history

import (
	"context"
	"time"
)

// Repository defines persistence for the audit trail.
type Repository interface {
	// Append inserts one entry. The store assigns ID and CreatedAt when
	// unset.
	Append(ctx context.Context, e *Entry) error

	// List returns entries newest-first. When date is non-nil only
	// entries whose local-time calendar date matches are returned.
	List(ctx context.Context, date *time.Time) ([]*Entry, error)
}
