package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"bintrack/internal/core/apperror"
	"bintrack/internal/infrastructure/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	*BaseHandler
	exporter *export.Exporter
}

// NewExportHandler creates an export handler.
func NewExportHandler(exporter *export.Exporter) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(),
		exporter:    exporter,
	}
}

// Items handles GET /api/export/items.
func (h *ExportHandler) Items(c *gin.Context) {
	h.setDownloadHeaders(c, "items")
	if err := h.exporter.WriteItems(c.Request.Context(), c.Writer); err != nil {
		h.Error(c, apperror.NewInternal(err))
	}
}

// Bins handles GET /api/export/bins.
func (h *ExportHandler) Bins(c *gin.Context) {
	h.setDownloadHeaders(c, "bins")
	if err := h.exporter.WriteBins(c.Request.Context(), c.Writer); err != nil {
		h.Error(c, apperror.NewInternal(err))
	}
}

// History handles GET /api/export/history?date=YYYY-MM-DD.
func (h *ExportHandler) History(c *gin.Context) {
	h.setDownloadHeaders(c, "history")
	if err := h.exporter.WriteHistory(c.Request.Context(), c.Writer, c.Query("date")); err != nil {
		h.Error(c, apperror.NewInternal(err))
	}
}

func (h *ExportHandler) setDownloadHeaders(c *gin.Context, name string) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
}
