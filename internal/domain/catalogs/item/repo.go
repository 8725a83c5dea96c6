package item

import "context"

// Repository defines persistence for the item catalog.
type Repository interface {
	// GetByCode returns the item with the exact code, or a not-found error.
	GetByCode(ctx context.Context, code string) (*Item, error)

	// Search returns up to limit items whose code contains term, prefix
	// matches ranked first.
	Search(ctx context.Context, term string, limit int) ([]*Item, error)

	// Create inserts a new item. Duplicate codes are skipped by upsert.
	Create(ctx context.Context, i *Item) error

	// Ensure returns the item with the given code, creating it if absent.
	Ensure(ctx context.Context, code string) (*Item, error)

	// Count returns the number of items in the catalog.
	Count(ctx context.Context) (int64, error)
}
