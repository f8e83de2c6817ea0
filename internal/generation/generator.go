package generation

import (
	"context"
)

// Suggestion is a flashcard proposed by the model. ID is a short random
// identifier the client uses to refer to the suggestion before accepting it.
type Suggestion struct {
	ID    string   `json:"suggestion_id"`
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Tags  []string `json:"suggested_tags"`
}

// Generator defines the interface for generating flashcard suggestions from text.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// GenerateSuggestions asks the model for up to count flashcards covering text.
	// Errors wrap ErrTransientFailure, ErrInvalidResponse, ErrContentBlocked or
	// ErrGenerationFailed.
	GenerateSuggestions(ctx context.Context, text string, count int) ([]Suggestion, error)
}

// Disabled is the Generator used when no provider is configured. Every call
// fails with ErrNotConfigured.
type Disabled struct{}

// GenerateSuggestions implements Generator.
func (Disabled) GenerateSuggestions(context.Context, string, int) ([]Suggestion, error) {
	return nil, ErrNotConfigured
}
