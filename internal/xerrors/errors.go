package xerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	// ErrInvalidInput indicates invalid user input or configuration
	ErrInvalidInput = errors.New("invalid input")

	// ErrPermissionDenied indicates notification permission was refused
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrEmptyPoem indicates a successful API response carried no poem text
	ErrEmptyPoem = errors.New("no haiku content in response")
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Invalid value
	Message string // Human-readable message
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s (value: %q)", e.Field, e.Message, e.Value)
}

// Is implements error comparison for errors.Is
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a failed call to the text-generation API.
// Message carries the server-provided error message when one could be
// decoded from the response body.
type GenerationError struct {
	Status  int    // HTTP status code
	Message string // Server-provided message, if any
}

func (e *GenerationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("failed to generate haiku: %s", e.Message)
	}
	return fmt.Sprintf("failed to generate haiku: status %d", e.Status)
}

// NewGenerationError creates a new generation error
func NewGenerationError(status int, message string) *GenerationError {
	return &GenerationError{Status: status, Message: message}
}
