package dto

// PlacementRequest is the POST /api/inventory body. The BT field name
// follows the scanner client's label wording.
type PlacementRequest struct {
	BinCode      string `json:"bin_code" binding:"required"`
	ItemCode     string `json:"item_code" binding:"required"`
	BoxCount     int    `json:"box_count"`
	PiecesPerBox int    `json:"pieces_per_box"`
	CustomerPO   string `json:"customer_po"`
	BatchTag     string `json:"BT"`
}

// PlacementResponse acknowledges a recorded placement.
type PlacementResponse struct {
	Success     bool   `json:"success"`
	Merged      bool   `json:"merged"`
	BinCode     string `json:"bin_code"`
	ItemCode    string `json:"item_code"`
	TotalPieces int    `json:"total_pieces"`
}

// ClearResponse acknowledges a clearing operation.
type ClearResponse struct {
	Success   bool   `json:"success"`
	Groups    int    `json:"groups"`
	Pieces    int    `json:"pieces"`
	Message   string `json:"message,omitempty"`
	MessageZH string `json:"message_zh,omitempty"`
}
