package handlers

import (
	"github.com/gin-gonic/gin"

	"bintrack/internal/domain/history"
	"bintrack/internal/infrastructure/http/v1/dto"
)

// LogsHandler serves the audit trail.
type LogsHandler struct {
	*BaseHandler
	history *history.Service
}

// NewLogsHandler creates a logs handler.
func NewLogsHandler(historySvc *history.Service) *LogsHandler {
	return &LogsHandler{
		BaseHandler: NewBaseHandler(),
		history:     historySvc,
	}
}

// List handles GET /api/logs?date=YYYY-MM-DD.
func (h *LogsHandler) List(c *gin.Context) {
	entries, err := h.history.Logs(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromHistoryEntries(entries))
}
