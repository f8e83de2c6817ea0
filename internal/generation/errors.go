package generation

import (
	"errors"

	"github.com/lingocards/lingo-api/internal/domain"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when suggestion generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate suggestions from text")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during suggestion generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrNotConfigured is returned when no LLM provider is configured.
	ErrNotConfigured = errors.New("AI generation is not configured")

	// ErrInvalidText is returned when the source text is too short or too long.
	ErrInvalidText = domain.NewValidationError("text", "must be between 50 and 10000 characters", domain.ErrValidation)

	// ErrInvalidCount is returned when the requested number of suggestions is out of range.
	ErrInvalidCount = domain.NewValidationError("target_count", "must be between 1 and 20", domain.ErrValidation)
)
