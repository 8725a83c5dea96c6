package handlers

import (
	"github.com/gin-gonic/gin"

	"bintrack/internal/core/pathcode"
	"bintrack/internal/domain/ledger"
	"bintrack/internal/domain/reports"
	"bintrack/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves placements, aggregation views and clears.
type InventoryHandler struct {
	*BaseHandler
	ledger  *ledger.Service
	reports *reports.Service
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(ledgerSvc *ledger.Service, reportsSvc *reports.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: NewBaseHandler(),
		ledger:      ledgerSvc,
		reports:     reportsSvc,
	}
}

// AddPlacement handles POST /api/inventory.
func (h *InventoryHandler) AddPlacement(c *gin.Context) {
	var req dto.PlacementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.ledger.AddPlacement(c.Request.Context(), ledger.PlacementInput{
		BinCode:      req.BinCode,
		ItemCode:     req.ItemCode,
		BoxCount:     req.BoxCount,
		PiecesPerBox: req.PiecesPerBox,
		CustomerPO:   req.CustomerPO,
		BatchTag:     req.BatchTag,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.PlacementResponse{
		Success:     true,
		Merged:      result.Merged,
		BinCode:     req.BinCode,
		ItemCode:    req.ItemCode,
		TotalPieces: result.Placement.TotalPieces,
	})
}

// ByItem handles GET /api/inventory/item/:item_code.
func (h *InventoryHandler) ByItem(c *gin.Context) {
	code := pathcode.Decode(c.Param("item_code"))
	view, err := h.reports.ByItem(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// ByBin handles GET /api/inventory/bin/:bin_code.
func (h *InventoryHandler) ByBin(c *gin.Context) {
	code := pathcode.Decode(c.Param("bin_code"))
	view, err := h.reports.ByBin(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// Locations handles GET /api/inventory/locations/:item_code.
func (h *InventoryHandler) Locations(c *gin.Context) {
	code := pathcode.Decode(c.Param("item_code"))
	view, err := h.reports.Locations(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// ByBatchTag handles GET /api/inventory/BT/:bt.
func (h *InventoryHandler) ByBatchTag(c *gin.Context) {
	bt := pathcode.Decode(c.Param("bt"))
	view, err := h.reports.ByBatchTag(c.Request.Context(), bt)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// ByCustomerPO handles GET /api/inventory/PO/:po.
func (h *InventoryHandler) ByCustomerPO(c *gin.Context) {
	po := pathcode.Decode(c.Param("po"))
	view, err := h.reports.ByCustomerPO(c.Request.Context(), po)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// BatchTags handles GET /api/BTs?search=X.
func (h *InventoryHandler) BatchTags(c *gin.Context) {
	tags, err := h.reports.BatchTags(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tags)
}

// CustomerPOs handles GET /api/POs?search=X.
func (h *InventoryHandler) CustomerPOs(c *gin.Context) {
	pos, err := h.reports.CustomerPOs(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, pos)
}

// ClearBin handles DELETE /api/inventory/bin/:bin_code/clear.
func (h *InventoryHandler) ClearBin(c *gin.Context) {
	code := pathcode.Decode(c.Param("bin_code"))
	result, err := h.ledger.ClearBin(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ClearResponse{
		Success:   true,
		Groups:    result.Groups,
		Pieces:    result.Pieces,
		Message:   "bin cleared",
		MessageZH: "库位已清空",
	})
}

// ClearItemAtBin handles DELETE /api/inventory/bin/:bin_code/item/:item_code/clear.
func (h *InventoryHandler) ClearItemAtBin(c *gin.Context) {
	binCode := pathcode.Decode(c.Param("bin_code"))
	itemCode := pathcode.Decode(c.Param("item_code"))
	result, err := h.ledger.ClearItemAtBin(c.Request.Context(), binCode, itemCode)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ClearResponse{
		Success:   true,
		Groups:    result.Groups,
		Pieces:    result.Pieces,
		Message:   "item cleared at bin",
		MessageZH: "商品已清空",
	})
}
