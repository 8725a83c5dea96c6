package bin

import "context"

// Repository defines persistence for the bin catalog.
type Repository interface {
	// GetByCode returns the bin with the exact code, or a not-found error.
	GetByCode(ctx context.Context, code string) (*Bin, error)

	// Search returns up to limit bins whose code contains term, prefix
	// matches ranked first. An empty term matches nothing.
	Search(ctx context.Context, term string, limit int) ([]*Bin, error)

	// Create inserts a new bin. Duplicate codes are skipped by upsert.
	Create(ctx context.Context, b *Bin) error

	// Count returns the number of bins in the catalog.
	Count(ctx context.Context) (int64, error)
}
