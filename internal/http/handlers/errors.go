package handlers

import (
	"net/http"

	intconfig "carbooking/internal/config"
	"carbooking/internal/domain"
	"carbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	payload := gin.H{
		"error":   message,
		"code":    code,
		"details": details,
	}
	if reqID := middleware.GetRequestID(c); reqID != "" {
		payload["request_id"] = reqID
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. Validation errors
// are surfaced verbatim; internals are not.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		intconfig.LogError("http", "RespondDomainError", map[string]any{
			"path":       c.FullPath(),
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		}, err)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
