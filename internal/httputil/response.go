// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/validation"
)

// Messages shared by every error response of a given class.
const (
	MessageInvalidData     = "Received data is not valid"
	MessageBadRequest      = "Malformed request"
	MessageUnauthenticated = "Unauthenticated"
	MessageForbidden       = "You don't have permission to access this resource"
	MessageNotFound        = "The requested resource was not found"
	MessageConflict        = "A conflict occurred with existing data"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	StatusCode int                    `json:"statusCode"`
	Message    string                 `json:"message,omitempty"`
	Errors     []validation.Violation `json:"errors,omitempty"`
	Success    bool                   `json:"success"`
}

// SuccessResponse is the body of every successful request.
type SuccessResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Success    bool   `json:"success"`
}

// Respond writes a SuccessResponse with the given status code.
func Respond(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, SuccessResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// HandleErrorGin maps domain errors to HTTP status codes, writes the JSON error body and
// aborts the gin chain. Every authentication failure produces the same body whatever the
// underlying cause; the cause is only logged.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var verr *validation.Errors
	var response ErrorResponse

	switch {
	case apperrors.As(err, &verr) && !verr.Empty():
		response = ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    MessageInvalidData,
			Errors:     verr.Violations,
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		response = ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    MessageInvalidData,
		}

	case apperrors.Is(err, apperrors.ErrBadRequest):
		response = ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    MessageBadRequest,
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		response = ErrorResponse{
			StatusCode: http.StatusUnauthorized,
			Message:    MessageUnauthenticated,
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		response = ErrorResponse{
			StatusCode: http.StatusForbidden,
			Message:    MessageForbidden,
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		response = ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    MessageNotFound,
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		response = ErrorResponse{
			StatusCode: http.StatusConflict,
			Message:    MessageConflict,
		}

	default:
		// Unknown/internal errors never expose details to the client
		response = ErrorResponse{StatusCode: http.StatusInternalServerError}
	}

	// Log the full error chain
	if logger != nil {
		level := slog.LevelWarn
		if response.StatusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "request failed",
			slog.Int("status_code", response.StatusCode),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
	}

	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(response.StatusCode, response)
}
