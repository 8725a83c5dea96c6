// Package history provides the append-only audit trail. Entries are never
// updated or deleted, and denormalize bin/item codes as plain strings so
// the trail survives master-data changes.
package history

import "time"

// Kind tags what a history entry records. Clearing actions are first-class
// kinds rather than markers smuggled into the item code.
type Kind string

const (
	// KindPlacement records goods added to a bin. Quantities are the
	// delta of that request, not the post-merge total.
	KindPlacement Kind = "placement"

	// KindClearBin records one removed (item, PO, BT) group of a bin
	// clear, with negative total pieces. An empty-bin clear still
	// appends one neutral entry with zero quantities.
	KindClearBin Kind = "clear_bin"

	// KindClearItem records clearing one item within one bin.
	KindClearItem Kind = "clear_item"
)

// Entry is a single audit record.
type Entry struct {
	ID           int64     `db:"id" json:"id"`
	Kind         Kind      `db:"kind" json:"kind"`
	BinCode      string    `db:"bin_code" json:"binCode"`
	ItemCode     string    `db:"item_code" json:"itemCode"`
	CustomerPO   *string   `db:"customer_po" json:"customerPO,omitempty"`
	BatchTag     *string   `db:"batch_tag" json:"batchTag,omitempty"`
	BoxCount     int       `db:"box_count" json:"boxCount"`
	PiecesPerBox int       `db:"pieces_per_box" json:"piecesPerBox"`
	TotalPieces  int       `db:"total_pieces" json:"totalPieces"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
