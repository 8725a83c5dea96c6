// Package reports is the aggregation engine: a pure read-transform that
// regroups ledger rows into nested per-item, per-bin, per-PO and per-BT
// summaries. It owns no state.
package reports

// Row is a flat ledger row as read for aggregation. Absent PO/BT are
// represented as empty strings and stay distinct group keys, never merged
// with present values.
type Row struct {
	BinCode      string `db:"bin_code"`
	ItemCode     string `db:"item_code"`
	CustomerPO   string `db:"customer_po"`
	BatchTag     string `db:"batch_tag"`
	BoxCount     int    `db:"box_count"`
	PiecesPerBox int    `db:"pieces_per_box"`
	TotalPieces  int    `db:"total_pieces"`
}

// BoxDetail is one box configuration and how many boxes of it exist.
type BoxDetail struct {
	BoxCount     int `json:"boxCount"`
	PiecesPerBox int `json:"piecesPerBox"`
}

// TagKey labels a sub-group within a dimension. Which fields are populated
// depends on the view: bin and item views carry PO and BT, the BT view
// carries bin and PO, the PO view carries bin and BT.
type TagKey struct {
	BinCode    string `json:"binCode,omitempty"`
	CustomerPO string `json:"customerPO,omitempty"`
	BatchTag   string `json:"batchTag,omitempty"`
}

// TagGroup is one PO/BT/bin combination inside a dimension, with its
// per-box-configuration breakdown.
type TagGroup struct {
	TagKey
	TotalPieces int         `json:"totalPieces"`
	TotalBoxes  int         `json:"totalBoxes"`
	BoxDetails  []BoxDetail `json:"boxDetails"`
}

// DimensionSummary is one node of the aggregation tree: a dimension value
// (an item code or a bin code) with its grand totals, its tag sub-groups,
// and a flattened combination-agnostic box breakdown.
type DimensionSummary struct {
	Code        string      `json:"code"`
	TotalPieces int         `json:"totalPieces"`
	TotalBoxes  int         `json:"totalBoxes"`
	Groups      []TagGroup  `json:"groups"`
	BoxDetails  []BoxDetail `json:"boxDetails"`
}

// BinView answers "what is in this bin".
type BinView struct {
	BinCode     string             `json:"binCode"`
	TotalPieces int                `json:"totalPieces"`
	TotalBoxes  int                `json:"totalBoxes"`
	Items       []DimensionSummary `json:"items"`
}

// ItemView answers "where is this item".
type ItemView struct {
	ItemCode    string             `json:"itemCode"`
	TotalPieces int                `json:"totalPieces"`
	TotalBoxes  int                `json:"totalBoxes"`
	Bins        []DimensionSummary `json:"bins"`
}

// Location is one bin holding an item, flattened for simple display.
type Location struct {
	BinCode     string      `json:"binCode"`
	TotalPieces int         `json:"totalPieces"`
	TotalBoxes  int         `json:"totalBoxes"`
	BoxDetails  []BoxDetail `json:"boxDetails"`
}

// LocationsView is the flattened companion of ItemView.
type LocationsView struct {
	ItemCode    string     `json:"itemCode"`
	TotalPieces int        `json:"totalPieces"`
	Locations   []Location `json:"locations"`
}

// TagView answers "what does this PO (or BT) cover", broken down by item.
type TagView struct {
	Value       string             `json:"value"`
	TotalPieces int                `json:"totalPieces"`
	TotalBoxes  int                `json:"totalBoxes"`
	Items       []DimensionSummary `json:"items"`
}
