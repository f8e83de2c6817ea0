// Package study schedules study sessions by card weight, records review
// outcomes and derives progress statistics from the review log.
package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
)

// Session and history limits.
const (
	DefaultCardCount = 20
	MaxCardCount     = 50

	// MaxCandidatePool caps how many candidates are loaded for sampling.
	MaxCandidatePool = 100

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// SessionFilters narrows the cards a session is drawn from.
type SessionFilters struct {
	// CardCount is the session size. Zero means DefaultCardCount.
	CardCount int
	// Tags is a comma separated tag list; cards carrying any of them qualify.
	Tags string
	// Status defaults to active.
	Status domain.CardStatus
}

// Service schedules study sessions and records their outcomes.
type Service interface {
	// StartSession draws a weighted session for the user.
	// Returns ErrNoCardsAvailable when no card matches the filters.
	StartSession(ctx context.Context, userID uuid.UUID, filters SessionFilters) (*domain.StudySession, error)

	// SelectStudyCards returns up to CardCount cards, favouring higher study
	// weights. An empty result is not an error.
	SelectStudyCards(ctx context.Context, userID uuid.UUID, filters SessionFilters) ([]*domain.Card, error)

	// SubmitReview records an outcome for a card and moves its study weight.
	// The read, the review insert and the weight update commit together.
	//
	// Returns:
	//   - ErrInvalidOutcome when outcome is not a known value
	//   - ErrCardNotFound when the card does not exist, is deleted or is not owned
	SubmitReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		outcome domain.ReviewOutcome,
	) (*domain.Review, error)

	// GetStudyStatistics aggregates the user's reviews within period.
	GetStudyStatistics(
		ctx context.Context,
		userID uuid.UUID,
		period domain.StudyPeriod,
	) (*domain.StudyStatistics, error)

	// CalculateStudyStreak counts consecutive study days ending today or yesterday.
	CalculateStudyStreak(ctx context.Context, userID uuid.UUID) (int, error)

	// GetCardHistory returns the latest reviews of one card plus totals over
	// its whole history. Zero limit means DefaultHistoryLimit.
	GetCardHistory(
		ctx context.Context,
		userID, cardID uuid.UUID,
		limit int,
	) (*domain.CardHistory, error)
}

// Common error types for the study service
var (
	// ErrCardNotFound indicates that the card does not exist or is not owned by the user.
	ErrCardNotFound = errors.New("card not found")

	// ErrNoCardsAvailable indicates that no card matches the session filters.
	ErrNoCardsAvailable = errors.New("no cards available for study")

	// ErrInvalidCardCount indicates a session size outside 1..MaxCardCount.
	ErrInvalidCardCount = fmt.Errorf("%w: card_count must be between 1 and %d", domain.ErrValidation, MaxCardCount)

	// ErrInvalidLimit indicates a history limit outside 1..MaxHistoryLimit.
	ErrInvalidLimit = fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, MaxHistoryLimit)

	ErrInvalidOutcome = domain.ErrInvalidOutcome
	ErrInvalidPeriod  = domain.ErrInvalidPeriod
	ErrInvalidStatus  = domain.ErrInvalidStatus
)

// ServiceError wraps errors from the study service with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
