package reports

import "context"

// Repository defines the read side of the ledger used by aggregation.
// Implementations return absent PO/BT as empty strings.
type Repository interface {
	// RowsByBin returns all ledger rows for a bin code. Unknown codes
	// yield an empty slice, not an error.
	RowsByBin(ctx context.Context, binCode string) ([]Row, error)

	// RowsByItem returns all ledger rows for an item code.
	RowsByItem(ctx context.Context, itemCode string) ([]Row, error)

	// RowsByBatchTag returns all ledger rows carrying the batch tag.
	RowsByBatchTag(ctx context.Context, batchTag string) ([]Row, error)

	// RowsByCustomerPO returns all ledger rows carrying the PO.
	RowsByCustomerPO(ctx context.Context, customerPO string) ([]Row, error)

	// AllRows returns the whole ledger, for exports.
	AllRows(ctx context.Context) ([]Row, error)

	// DistinctBatchTags lists distinct non-empty batch tags, optionally
	// filtered by a contains match, ascending.
	DistinctBatchTags(ctx context.Context, search string) ([]string, error)

	// DistinctCustomerPOs lists distinct non-empty POs, optionally
	// filtered by a contains match, ascending.
	DistinctCustomerPOs(ctx context.Context, search string) ([]string, error)
}
