package ledger

import (
	"context"

	"bintrack/internal/core/id"
)

// Repository defines the write-side persistence of the ledger. All methods
// that feed a mutation take row locks so concurrent merges on the same key
// serialize instead of losing updates.
type Repository interface {
	// FindMergeTarget returns the row matching the merge key
	// (bin, item, PO, BT, pieces-per-box) locked FOR UPDATE, or nil
	// when no such row exists.
	FindMergeTarget(ctx context.Context, binID, itemID id.ID, customerPO, batchTag *string, piecesPerBox int) (*Placement, error)

	// Insert creates a new ledger row.
	Insert(ctx context.Context, p *Placement) error

	// IncrementBoxes adds boxes to an existing row, recomputing
	// total_pieces in the store.
	IncrementBoxes(ctx context.Context, placementID id.ID, boxes int) error

	// RowsForClear returns all rows of a bin joined with item codes,
	// locked FOR UPDATE, ordered by item code, PO, BT, pieces-per-box.
	RowsForClear(ctx context.Context, binID id.ID) ([]*ClearRow, error)

	// RowsForClearItem is RowsForClear scoped to one item.
	RowsForClearItem(ctx context.Context, binID, itemID id.ID) ([]*ClearRow, error)

	// DeleteByBin removes all rows of a bin, returning the count.
	DeleteByBin(ctx context.Context, binID id.ID) (int64, error)

	// DeleteByBinItem removes all rows of one item in a bin.
	DeleteByBinItem(ctx context.Context, binID, itemID id.ID) (int64, error)
}
