package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
)

// ReviewStore defines the interface for review persistence.
// Reviews are append-only: there is no update or delete.
type ReviewStore interface {
	// Create appends a review.
	// Returns ErrInvalidEntity if the referenced card does not exist.
	Create(ctx context.Context, review *domain.Review) error

	// ListByUser returns the user's reviews at or after since (all reviews
	// when since is nil), newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*domain.Review, error)

	// ListTimestamps returns the reviewed_at of every review of the user, newest first.
	ListTimestamps(ctx context.Context, userID uuid.UUID) ([]time.Time, error)

	// ListByCard returns up to limit of the user's reviews of a card, newest first.
	ListByCard(ctx context.Context, userID, cardID uuid.UUID, limit int) ([]*domain.Review, error)

	// CountByCard tallies all of the user's reviews of a card by outcome.
	CountByCard(ctx context.Context, userID, cardID uuid.UUID) (domain.ReviewCounts, error)

	// WithTx returns a ReviewStore that runs its queries on tx.
	WithTx(tx *sql.Tx) ReviewStore
}
