package middleware

import (
	"github.com/gin-gonic/gin"

	"bintrack/internal/core/apperror"
	"bintrack/pkg/logger"
)

// ErrorHandler transforms errors into consistent JSON responses. Hides
// internal errors from clients while logging full details. Client-facing
// messages carry both English and Chinese text.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			body := gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			}
			if appErr.MessageZH != "" {
				body["message_zh"] = appErr.MessageZH
			}
			if len(appErr.Details) > 0 {
				body["details"] = appErr.Details
			}

			c.JSON(appErr.HTTPStatus, body)
			return
		}

		// Unknown error, log and return a generic message.
		logger.Error(c.Request.Context(), "unhandled error", "error", err)

		c.JSON(500, gin.H{
			"code":       apperror.CodeInternal,
			"message":    "Internal server error",
			"message_zh": "服务器内部错误",
			"details": map[string]any{
				"request_id": c.GetString("request_id"),
			},
		})
	}
}
