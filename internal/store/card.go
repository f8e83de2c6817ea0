package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
)

// CardSortField is a column cards can be listed by.
type CardSortField string

const (
	SortByCreatedAt CardSortField = "created_at"
	SortByUpdatedAt CardSortField = "updated_at"
)

// CardListFilter narrows and pages a card listing. Nil pointers mean "any".
type CardListFilter struct {
	Status         *domain.CardStatus
	Source         *domain.CardSource
	Tags           []string // any overlap
	IncludeDeleted bool
	SortBy         CardSortField
	Ascending      bool
	Limit          int
	Offset         int
}

// CandidateQuery selects the study candidate pool for a user.
type CandidateQuery struct {
	Status domain.CardStatus
	Tags   []string // any overlap; empty means no tag filter
	Limit  int
}

// CardStore defines the interface for card data persistence.
// All reads and writes are scoped by user ID unless stated otherwise.
type CardStore interface {
	// Create saves a new card.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves several cards.
	// IMPORTANT: This method MUST be run within a transaction for atomicity.
	//
	// Usage example:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by ID, including soft-deleted cards.
	// Returns ErrCardNotFound if the card does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a live (not deleted) card owned by userID and
	// locks its row until the surrounding transaction ends. Backends without
	// row locks rely on their writer serialization instead.
	// Returns ErrCardNotFound if there is no such card.
	GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)

	// List returns one page of cards matching filter and the total number of
	// matching cards ignoring Limit and Offset.
	List(ctx context.Context, userID uuid.UUID, filter CardListFilter) ([]*domain.Card, int, error)

	// FindStudyCandidates returns live cards with the given status and any of
	// the given tags, ordered by study weight descending and capped at Limit.
	FindStudyCandidates(ctx context.Context, userID uuid.UUID, query CandidateQuery) ([]*domain.Card, error)

	// ListForExport returns every live card with the given status, newest first.
	ListForExport(ctx context.Context, userID uuid.UUID, status domain.CardStatus) ([]*domain.Card, error)

	// ActiveWeights returns the study weights of the user's live active cards.
	ActiveWeights(ctx context.Context, userID uuid.UUID) ([]float64, error)

	// Update persists front, back, tags, status and updated_at of a live card.
	// The study weight is never written by this method.
	// Returns ErrCardNotFound if the card does not exist, is deleted or is not owned.
	Update(ctx context.Context, card *domain.Card) error

	// UpdateWeight sets the study weight of a live card.
	// Returns ErrCardNotFound if the card does not exist, is deleted or is not owned.
	UpdateWeight(ctx context.Context, userID, id uuid.UUID, weight float64, updatedAt time.Time) error

	// SoftDelete marks the given live cards deleted at deletedAt and returns
	// the IDs that were actually deleted. Unknown, foreign or already deleted
	// IDs are skipped.
	SoftDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, deletedAt time.Time) ([]uuid.UUID, error)

	// Restore clears the deletion mark of a deleted card.
	// Returns ErrCardNotFound if the card does not exist, is not deleted or is not owned.
	Restore(ctx context.Context, userID, id uuid.UUID, updatedAt time.Time) error

	// WithTx returns a CardStore that runs its queries on tx.
	WithTx(tx *sql.Tx) CardStore
}
