package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidArgument is returned when a caller passes a value the operation cannot accept,
	// such as a negative page index or a note without a title.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoteNotFound is returned when a note does not exist or belongs to another owner
	ErrNoteNotFound = errors.New("note not found")

	// ErrUnauthenticated is returned when a request carries no owner identity
	ErrUnauthenticated = errors.New("unauthenticated")
)

// InvalidArgumentError represents an invalid argument error with context
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Message: message}
}

// NoteNotFoundError represents a note not found error with context
type NoteNotFoundError struct {
	NoteID string
}

func (e *NoteNotFoundError) Error() string {
	return fmt.Sprintf("note with ID '%s' not found", e.NoteID)
}

func (e *NoteNotFoundError) Is(target error) bool {
	return target == ErrNoteNotFound
}

// NewNoteNotFoundError creates a new NoteNotFoundError
func NewNoteNotFoundError(noteID string) *NoteNotFoundError {
	return &NoteNotFoundError{NoteID: noteID}
}
