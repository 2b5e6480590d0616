package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidMode is returned when a generation mode is not recognised.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrEmptyText is returned when the text to generate from is blank.
	ErrEmptyText = errors.New("no input text provided")

	// ErrInvalidFlashcard is returned when a flashcard is malformed.
	ErrInvalidFlashcard = errors.New("invalid flashcard")

	// ErrInvalidQuizQuestion is returned when a quiz question is malformed.
	ErrInvalidQuizQuestion = errors.New("invalid quiz question")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
