package graph

import (
	"errors"
	"fmt"
)

// Domain errors for the follow graph
var (
	// ErrSelfFollow is returned when a user attempts to follow themselves
	ErrSelfFollow = errors.New("users cannot follow themselves")

	// ErrFollowNotFound is returned when an unfollow targets an edge
	// that does not exist
	ErrFollowNotFound = errors.New("follow relationship not found")
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
