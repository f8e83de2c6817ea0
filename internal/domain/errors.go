package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidOutcome is returned when a review outcome is not one of
	// correct, incorrect or skipped.
	ErrInvalidOutcome = errors.New("invalid review outcome")

	// ErrInvalidStatus is returned when a card status is not recognized.
	ErrInvalidStatus = errors.New("invalid card status")

	// ErrInvalidSource is returned when a card source is not recognized.
	ErrInvalidSource = errors.New("invalid card source")

	// ErrInvalidPeriod is returned when a statistics period is not recognized.
	ErrInvalidPeriod = errors.New("invalid statistics period")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so errors.Is(err, ErrValidation) works.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a domain validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidOutcome) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidSource) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrCardFrontInvalid) ||
		errors.Is(err, ErrCardBackInvalid)
}
