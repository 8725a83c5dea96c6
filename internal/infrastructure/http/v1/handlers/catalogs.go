package handlers

import (
	"github.com/gin-gonic/gin"

	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves bin and item autocomplete.
type CatalogHandler struct {
	*BaseHandler
	bins  *bin.Service
	items *item.Service
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(bins *bin.Service, items *item.Service) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(),
		bins:        bins,
		items:       items,
	}
}

// SearchBins handles GET /api/bins?search=X.
func (h *CatalogHandler) SearchBins(c *gin.Context) {
	bins, err := h.bins.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.CodeSuggestion, 0, len(bins))
	for _, b := range bins {
		out = append(out, dto.CodeSuggestion{Code: b.Code})
	}
	h.OK(c, out)
}

// SearchItems handles GET /api/items?search=X.
func (h *CatalogHandler) SearchItems(c *gin.Context) {
	items, err := h.items.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.CodeSuggestion, 0, len(items))
	for _, i := range items {
		out = append(out, dto.CodeSuggestion{Code: i.Code})
	}
	h.OK(c, out)
}
