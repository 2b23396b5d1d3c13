// Package api provides the HTTP surface of the note search service.
package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/note-search/internal/engine"
	"github.com/gcbaptista/note-search/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateNoteID validates a note ID path parameter
func ValidateNoteID(noteID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if noteID == "" {
		result.AddError("noteId", "Note ID is required")
		return result
	}

	if strings.TrimSpace(noteID) != noteID {
		result.AddError("noteId", "Note ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateNoteRequest checks the shape of a note body before it reaches the engine
func ValidateNoteRequest(req *NoteRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req == nil {
		result.AddError("request_body", "Note body is required")
		return result
	}

	if len([]rune(req.Title)) > engine.MaxTitleLength {
		result.AddError("title", fmt.Sprintf("Title cannot exceed %d characters", engine.MaxTitleLength))
	}

	for i, tag := range req.Tags {
		if strings.TrimSpace(tag) == "" {
			result.AddError(fmt.Sprintf("tags[%d]", i), "Tag names cannot be empty or whitespace-only")
		}
	}

	for i, input := range req.Inputs {
		if strings.TrimSpace(input.Kind) == "" {
			result.AddError(fmt.Sprintf("inputs[%d].kind", i), "Input kind is required")
			continue
		}
		if _, ok := model.ParseInputKind(input.Kind); !ok {
			result.AddError(fmt.Sprintf("inputs[%d].kind", i),
				fmt.Sprintf("Unknown input kind '%s' (must be %s, %s or %s)",
					input.Kind, model.InputKindRichText, model.InputKindMarkdown, model.InputKindPlainText))
		}
	}

	return result
}

// ParsePagination reads the zero-based page and page size query parameters.
// Missing values fall back to page 0 and defaultPageSize; range checks are
// left to the search service.
func ParsePagination(rawPage, rawPageSize string, defaultPageSize int) (int, int, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	page, pageSize := 0, defaultPageSize

	if rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil {
			result.AddError("page", "Page must be an integer")
		} else {
			page = parsed
		}
	}

	if rawPageSize != "" {
		parsed, err := strconv.Atoi(rawPageSize)
		if err != nil {
			result.AddError("page_size", "Page size must be an integer")
		} else {
			pageSize = parsed
		}
	}

	return page, pageSize, result
}

// ParseTags splits a comma separated tag list, dropping blank entries.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
