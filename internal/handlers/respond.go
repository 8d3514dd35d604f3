package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// RespondError writes a JSON error payload with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// LogAndRespondError logs the underlying error with request context and
// responds with a non-leaking client message.
func LogAndRespondError(c *gin.Context, status int, err error, message string) {
	slog.Error(message,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
	)
	RespondError(c, status, message)
}
