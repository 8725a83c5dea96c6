// Package ledger owns current inventory quantities. Every mutation pairs a
// placement change with an audit entry inside one transaction.
package ledger

import (
	"strings"
	"time"

	"bintrack/internal/core/apperror"
	"bintrack/internal/core/id"
)

// Placement is one ledger row: a quantity of an item sitting in a bin,
// optionally tagged with a customer PO and a batch tag.
type Placement struct {
	ID           id.ID     `db:"id" json:"id"`
	BinID        id.ID     `db:"bin_id" json:"binId"`
	ItemID       id.ID     `db:"item_id" json:"itemId"`
	CustomerPO   *string   `db:"customer_po" json:"customerPO,omitempty"`
	BatchTag     *string   `db:"batch_tag" json:"batchTag,omitempty"`
	BoxCount     int       `db:"box_count" json:"boxCount"`
	PiecesPerBox int       `db:"pieces_per_box" json:"piecesPerBox"`
	TotalPieces  int       `db:"total_pieces" json:"totalPieces"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// PlacementInput is a placement request before bin/item resolution.
type PlacementInput struct {
	BinCode      string
	ItemCode     string
	BoxCount     int
	PiecesPerBox int
	CustomerPO   string
	BatchTag     string
}

// Normalize trims codes and tags. Blank PO/BT collapse to absent.
func (in *PlacementInput) Normalize() {
	in.BinCode = strings.TrimSpace(in.BinCode)
	in.ItemCode = strings.TrimSpace(in.ItemCode)
	in.CustomerPO = strings.TrimSpace(in.CustomerPO)
	in.BatchTag = strings.TrimSpace(in.BatchTag)
}

// Validate checks request invariants.
func (in *PlacementInput) Validate() error {
	if in.BinCode == "" {
		return apperror.NewValidation("bin code is required").WithDetail("field", "bin_code")
	}
	if in.ItemCode == "" {
		return apperror.NewValidation("item code is required").WithDetail("field", "item_code")
	}
	if in.BoxCount < 0 {
		return apperror.NewInvalidQuantity("box_count", in.BoxCount)
	}
	if in.PiecesPerBox < 0 {
		return apperror.NewInvalidQuantity("pieces_per_box", in.PiecesPerBox)
	}
	return nil
}

// poPtr returns the PO as a nullable column value.
func (in *PlacementInput) poPtr() *string {
	if in.CustomerPO == "" {
		return nil
	}
	po := in.CustomerPO
	return &po
}

// btPtr returns the BT as a nullable column value.
func (in *PlacementInput) btPtr() *string {
	if in.BatchTag == "" {
		return nil
	}
	bt := in.BatchTag
	return &bt
}

// PlaceResult reports what a placement did to the ledger.
type PlaceResult struct {
	Merged    bool       `json:"merged"`
	Placement *Placement `json:"placement"`
}

// ClearResult summarizes a clearing operation.
type ClearResult struct {
	Groups int `json:"groups"`
	Pieces int `json:"pieces"`
}

// ClearRow is a ledger row joined with its item code, as seen by a clearing
// operation before deletion.
type ClearRow struct {
	ItemID       id.ID   `db:"item_id"`
	ItemCode     string  `db:"item_code"`
	CustomerPO   *string `db:"customer_po"`
	BatchTag     *string `db:"batch_tag"`
	BoxCount     int     `db:"box_count"`
	PiecesPerBox int     `db:"pieces_per_box"`
	TotalPieces  int     `db:"total_pieces"`
}
