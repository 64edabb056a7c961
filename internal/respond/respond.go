// Package respond owns the JSON envelope every endpoint and middleware
// writes: {success, message?, errors?, data?}.
package respond

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Data    gin.H        `json:"data,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Success(c *gin.Context, status int, message string, data gin.H) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

func ValidationFailed(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Errors: errs})
}

// Internal hides the cause from the caller; the real error goes to the
// server log only.
func Internal(c *gin.Context, logger *slog.Logger, op string, err error) {
	logger.Error(op, "error", err)
	Error(c, http.StatusInternalServerError, "Internal server error")
}
