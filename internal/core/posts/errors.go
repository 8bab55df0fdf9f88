package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrPostNotFound is returned when no live post exists with the requested id
	ErrPostNotFound = errors.New("post not found")

	// ErrNotPostAuthor is returned when a delete is attempted by a user
	// other than the post's author
	ErrNotPostAuthor = errors.New("user is not the post author")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
