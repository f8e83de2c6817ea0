package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome is the user's self-reported recall result for a card.
type ReviewOutcome string

const (
	// ReviewOutcomeCorrect means the user recalled the card.
	ReviewOutcomeCorrect ReviewOutcome = "correct"
	// ReviewOutcomeIncorrect means the user failed to recall the card.
	ReviewOutcomeIncorrect ReviewOutcome = "incorrect"
	// ReviewOutcomeSkipped means the user moved on without answering.
	ReviewOutcomeSkipped ReviewOutcome = "skipped"
)

// IsValid reports whether o is one of the three known outcomes.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeCorrect, ReviewOutcomeIncorrect, ReviewOutcomeSkipped:
		return true
	default:
		return false
	}
}

// ErrReviewCardIDEmpty is returned when a review does not reference a card.
var ErrReviewCardIDEmpty = errors.New("review card ID cannot be empty")

// Review is an immutable record of one study answer. Reviews are append-only
// and are the only source for statistics and streaks.
type Review struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	CardID         uuid.UUID     `json:"card_id"`
	Outcome        ReviewOutcome `json:"outcome"`
	PreviousWeight float64       `json:"previous_weight"`
	NewWeight      float64       `json:"new_weight"`
	ReviewedAt     time.Time     `json:"reviewed_at"`
}

// NewReview creates a review stamped at reviewedAt (normalized to UTC).
func NewReview(
	userID, cardID uuid.UUID,
	outcome ReviewOutcome,
	previousWeight, newWeight float64,
	reviewedAt time.Time,
) (*Review, error) {
	review := &Review{
		ID:             uuid.New(),
		UserID:         userID,
		CardID:         cardID,
		Outcome:        outcome,
		PreviousWeight: previousWeight,
		NewWeight:      newWeight,
		ReviewedAt:     reviewedAt.UTC(),
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}
	return review, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if r.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if r.CardID == uuid.Nil {
		return ErrReviewCardIDEmpty
	}
	if !r.Outcome.IsValid() {
		return ErrInvalidOutcome
	}
	if r.PreviousWeight <= 0 || r.NewWeight <= 0 {
		return ErrCardWeightInvalid
	}
	return nil
}
