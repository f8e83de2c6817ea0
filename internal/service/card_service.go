package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

const (
	// DefaultListLimit is the page size used when a listing names none.
	DefaultListLimit = 20
	// MaxListLimit is the largest page a listing may request.
	MaxListLimit = 100
	// MaxAcceptedSuggestions caps how many AI suggestions are saved in one call.
	MaxAcceptedSuggestions = 50
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ListQuery filters and pages a card listing. Zero values mean "any" for
// filters and the defaults for paging and sorting.
type ListQuery struct {
	Status         domain.CardStatus
	Source         domain.CardSource
	Tags           string // comma-separated, any overlap
	IncludeDeleted bool
	Sort           store.CardSortField
	Order          string // asc or desc
	Limit          int
	Offset         int
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// CardPage is one page of a card listing.
type CardPage struct {
	Cards      []*domain.Card `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// CardInput carries the user-authored fields of a new card.
type CardInput struct {
	Front  string
	Back   string
	Tags   []string
	Status domain.CardStatus
}

// CardEdit is a partial update. Nil fields are left unchanged; a non-nil
// empty Tags clears the tags.
type CardEdit struct {
	Front  *string
	Back   *string
	Tags   []string
	Status *domain.CardStatus
}

// IsEmpty reports whether the edit changes nothing.
func (e CardEdit) IsEmpty() bool {
	return e.Front == nil && e.Back == nil && e.Tags == nil && e.Status == nil
}

// DeleteResult is the outcome of a single soft delete.
type DeleteResult struct {
	ID        uuid.UUID `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// BulkDeleteResult lists the cards a bulk delete actually removed.
type BulkDeleteResult struct {
	DeletedCount int         `json:"deleted_count"`
	DeletedIDs   []uuid.UUID `json:"deleted_ids"`
}

// RestoreStatus is the outcome of a restore attempt.
type RestoreStatus string

const (
	RestoreStatusRestored           RestoreStatus = "restored"
	RestoreStatusNotFound           RestoreStatus = "not_found"
	RestoreStatusNotDeleted         RestoreStatus = "not_deleted"
	RestoreStatusPermanentlyDeleted RestoreStatus = "permanently_deleted"
)

// RestoreResult carries the restore status and, when restored, the card.
type RestoreResult struct {
	Status RestoreStatus
	Card   *domain.Card
}

// CardService manages a user's flashcards outside of study sessions.
type CardService interface {
	// List returns one page of the user's cards.
	List(ctx context.Context, userID uuid.UUID, query ListQuery) (*CardPage, error)

	// Get returns a card, including soft-deleted ones.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// Create saves a manually authored card with the default study weight.
	Create(ctx context.Context, userID uuid.UUID, input CardInput) (*domain.Card, error)

	// Update applies a partial edit to a live card. The study weight is never changed.
	Update(ctx context.Context, userID, cardID uuid.UUID, edit CardEdit) (*domain.Card, error)

	// Delete soft-deletes a live card.
	Delete(ctx context.Context, userID, cardID uuid.UUID) (*DeleteResult, error)

	// Restore undoes a soft delete within domain.RestoreWindow. Expected
	// outcomes are reported through RestoreResult.Status, not as errors.
	Restore(ctx context.Context, userID, cardID uuid.UUID) (*RestoreResult, error)

	// BulkDelete soft-deletes every listed live card the user owns.
	BulkDelete(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (*BulkDeleteResult, error)

	// Export returns the user's live cards with the given status, newest first.
	Export(ctx context.Context, userID uuid.UUID, query ExportQuery) (*Export, error)

	// AcceptSuggestions saves AI-generated cards in a single transaction.
	AcceptSuggestions(ctx context.Context, userID uuid.UUID, inputs []CardInput) ([]*domain.Card, error)
}

// CardServiceOption configures a CardService.
type CardServiceOption func(*cardServiceImpl)

// WithCardClock overrides the clock used for deletion and restore times.
func WithCardClock(now func() time.Time) CardServiceOption {
	return func(s *cardServiceImpl) {
		s.now = now
	}
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cards  store.CardStore
	tx     store.Transactor
	now    func() time.Time
	logger *slog.Logger
}

// NewCardService creates a new CardService
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	cards store.CardStore,
	tx store.Transactor,
	logger *slog.Logger,
	opts ...CardServiceOption,
) (CardService, error) {
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &cardServiceImpl{
		cards:  cards,
		tx:     tx,
		now:    time.Now,
		logger: logger.With(slog.String("component", "card_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (q ListQuery) filter() (store.CardListFilter, error) {
	f := store.CardListFilter{
		Tags:           domain.ParseTagList(q.Tags),
		IncludeDeleted: q.IncludeDeleted,
		SortBy:         q.Sort,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}

	if q.Status != "" {
		if !q.Status.IsValid() {
			return f, domain.ErrInvalidStatus
		}
		status := q.Status
		f.Status = &status
	}
	if q.Source != "" {
		if !q.Source.IsValid() {
			return f, domain.ErrInvalidSource
		}
		source := q.Source
		f.Source = &source
	}

	switch f.SortBy {
	case "":
		f.SortBy = store.SortByCreatedAt
	case store.SortByCreatedAt, store.SortByUpdatedAt:
	default:
		return f, ErrInvalidSort
	}
	switch q.Order {
	case "", "desc":
	case "asc":
		f.Ascending = true
	default:
		return f, ErrInvalidSort
	}

	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit < 1 || f.Limit > MaxListLimit {
		return f, ErrInvalidLimit
	}
	if f.Offset < 0 {
		return f, ErrInvalidOffset
	}
	return f, nil
}

// List implements CardService.List
func (s *cardServiceImpl) List(ctx context.Context, userID uuid.UUID, query ListQuery) (*CardPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter, err := query.filter()
	if err != nil {
		return nil, err
	}

	cards, total, err := s.cards.List(ctx, userID, filter)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewCardServiceError("list_cards", "failed to list cards", err)
	}

	return &CardPage{
		Cards: cards,
		Pagination: Pagination{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+filter.Limit < total,
		},
	}, nil
}

// Get implements CardService.Get
func (s *cardServiceImpl) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, userID, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("get_card", "failed to retrieve card", err)
	}
	return card, nil
}

// Create implements CardService.Create
func (s *cardServiceImpl) Create(ctx context.Context, userID uuid.UUID, input CardInput) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(userID, input.Front, input.Back, input.Tags, input.Status, domain.CardSourceManual)
	if err != nil {
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewCardServiceError("create_card", "failed to save card", err)
	}

	log.Info("card created",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()))
	return card, nil
}

// Update implements CardService.Update
func (s *cardServiceImpl) Update(
	ctx context.Context,
	userID, cardID uuid.UUID,
	edit CardEdit,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if edit.IsEmpty() {
		return nil, ErrEmptyEdit
	}

	var card *domain.Card
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		var err error
		card, err = cards.GetForUpdate(ctx, userID, cardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrCardNotFound
			}
			return NewCardServiceError("update_card", "failed to load card", err)
		}

		if err := card.ApplyEdit(edit.Front, edit.Back, edit.Tags, edit.Status); err != nil {
			return err
		}

		if err := cards.Update(ctx, card); err != nil {
			if store.IsNotFoundError(err) {
				return ErrCardNotFound
			}
			return NewCardServiceError("update_card", "failed to save card", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCardNotFound) && !domain.IsValidationError(err) {
			log.Error("failed to update card",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID.String()))
		}
		return nil, err
	}

	log.Info("card updated",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	return card, nil
}
