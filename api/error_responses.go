package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/note-search/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	ErrorCodeNoteNotFound     ErrorCode = "NOTE_NOT_FOUND"
	ErrorCodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeRequestTooLarge  ErrorCode = "REQUEST_TOO_LARGE"

	// Server Error Codes (5xx)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeSearchFailed  ErrorCode = "SEARCH_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)
	errorResponse.RequestID = requestIDFrom(c)
	c.AbortWithStatusJSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with one detail per failed field
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendNoteNotFoundError sends a standardized note not found error
func SendNoteNotFoundError(c *gin.Context, noteID string) {
	SendError(c, http.StatusNotFound, ErrorCodeNoteNotFound, "Note '"+noteID+"' not found")
}

// SendUnauthenticatedError sends a standardized missing identity error
func SendUnauthenticatedError(c *gin.Context) {
	SendError(c, http.StatusUnauthorized, ErrorCodeUnauthenticated,
		"Missing owner identity: set the "+OwnerHeader+" header")
}

// SendInvalidJSONError sends a standardized invalid JSON error, or a
// request too large error when the body exceeded the size limit.
func SendInvalidJSONError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLarge,
			"Request body exceeds the size limit")
		return
	}
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	slog.Error("request failed", "operation", operation, "request_id", requestIDFrom(c), "error", err)
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendServiceError maps an error returned by the note manager onto a response.
func SendServiceError(c *gin.Context, operation, noteID string, err error) {
	var argErr *internalErrors.InvalidArgumentError
	switch {
	case errors.As(err, &argErr):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidArgument, argErr.Error(),
			ErrorDetail{Field: argErr.Field, Message: argErr.Message})
	case errors.Is(err, internalErrors.ErrInvalidArgument):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidArgument, err.Error())
	case errors.Is(err, internalErrors.ErrNoteNotFound):
		SendNoteNotFoundError(c, noteID)
	case errors.Is(err, internalErrors.ErrUnauthenticated):
		SendUnauthenticatedError(c)
	default:
		SendInternalError(c, operation, err)
	}
}

// SendSearchError sends a search failure, keeping client errors as 4xx
func SendSearchError(c *gin.Context, err error) {
	if errors.Is(err, internalErrors.ErrInvalidArgument) {
		SendServiceError(c, "search", "", err)
		return
	}
	slog.Error("search failed", "request_id", requestIDFrom(c), "error", err)
	SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, "Search failed: "+err.Error())
}
