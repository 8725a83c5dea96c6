package dto

import "bintrack/internal/domain/history"

// HistoryEntry is one audit record as returned by GET /api/logs.
type HistoryEntry struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	BinCode      string `json:"bin_code"`
	ItemCode     string `json:"item_code"`
	CustomerPO   string `json:"customer_po,omitempty"`
	BatchTag     string `json:"BT,omitempty"`
	BoxCount     int    `json:"box_count"`
	PiecesPerBox int    `json:"pieces_per_box"`
	TotalPieces  int    `json:"total_pieces"`
	InputTime    string `json:"input_time"`
}

// FromHistoryEntry converts a domain entry to its API shape. Timestamps
// render in server local time to match the date filter semantics.
func FromHistoryEntry(e *history.Entry) HistoryEntry {
	out := HistoryEntry{
		ID:           e.ID,
		Kind:         string(e.Kind),
		BinCode:      e.BinCode,
		ItemCode:     e.ItemCode,
		BoxCount:     e.BoxCount,
		PiecesPerBox: e.PiecesPerBox,
		TotalPieces:  e.TotalPieces,
		InputTime:    e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if e.CustomerPO != nil {
		out.CustomerPO = *e.CustomerPO
	}
	if e.BatchTag != nil {
		out.BatchTag = *e.BatchTag
	}
	return out
}

// FromHistoryEntries converts a slice of domain entries.
func FromHistoryEntries(entries []*history.Entry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromHistoryEntry(e))
	}
	return out
}
