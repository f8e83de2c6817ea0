package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

const cardColumns = `id, user_id, front, back, tags, status, source, study_weight, deleted_at, created_at, updated_at`

// CardStore implements store.CardStore on SQLite.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a SQLite CardStore. If logger is nil, a default logger is used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store"), slog.String("driver", "sqlite")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card                 domain.Card
		tags                 string
		status, source       string
		deletedAt            sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Front,
		&card.Back,
		&tags,
		&status,
		&source,
		&card.StudyWeight,
		&deletedAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if card.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if card.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if card.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t, err := parseTime(deletedAt.String)
		if err != nil {
			return nil, err
		}
		card.DeletedAt = &t
	}
	card.Status = domain.CardStatus(status)
	card.Source = domain.CardSource(source)
	return &card, nil
}

func scanCards(rows *sql.Rows) ([]*domain.Card, error) {
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// tagOverlap builds a predicate matching cards that carry any of tags.
func tagOverlap(tags []string) (string, []any) {
	args := make([]any, len(tags))
	for i, t := range tags {
		args[i] = t
	}
	return "EXISTS (SELECT 1 FROM json_each(flashcards.tags) WHERE json_each.value IN (" +
		placeholders(len(tags)) + "))", args
}

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flashcards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		card.ID.String(),
		card.UserID.String(),
		card.Front,
		card.Back,
		tags,
		string(card.Status),
		string(card.Source),
		card.StudyWeight,
		formatTimePtr(card.DeletedAt),
		formatTime(card.CreatedAt),
		formatTime(card.UpdatedAt),
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return err
		}
	}
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, userID, id, `
		SELECT `+cardColumns+` FROM flashcards
		WHERE id = ? AND user_id = ?
	`)
}

// GetForUpdate implements store.CardStore.GetForUpdate
// SQLite has no row locks; the single pooled connection serializes writers.
func (s *CardStore) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, userID, id, `
		SELECT `+cardColumns+` FROM flashcards
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`)
}

func (s *CardStore) getOne(ctx context.Context, userID, id uuid.UUID, query string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id.String(), userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// List implements store.CardStore.List
func (s *CardStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardListFilter,
) ([]*domain.Card, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := []string{"user_id = ?"}
	args := []any{userID.String()}
	if !filter.IncludeDeleted {
		where = append(where, "deleted_at IS NULL")
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Source != nil {
		where = append(where, "source = ?")
		args = append(args, string(*filter.Source))
	}
	if len(filter.Tags) > 0 {
		clause, tagArgs := tagOverlap(filter.Tags)
		where = append(where, clause)
		args = append(args, tagArgs...)
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards WHERE `+whereClause, args...).
		Scan(&total); err != nil {
		log.Error("failed to count cards", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	sortColumn := string(store.SortByCreatedAt)
	if filter.SortBy == store.SortByUpdatedAt {
		sortColumn = string(store.SortByUpdatedAt)
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM flashcards WHERE %s ORDER BY %s %s, id LIMIT ? OFFSET ?`,
		cardColumns, whereClause, sortColumn, direction)
	rows, err := s.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	cards, err := scanCards(rows)
	if err != nil {
		return nil, 0, MapError(err)
	}
	return cards, total, nil
}

// FindStudyCandidates implements store.CardStore.FindStudyCandidates
func (s *CardStore) FindStudyCandidates(
	ctx context.Context,
	userID uuid.UUID,
	q store.CandidateQuery,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := "user_id = ? AND status = ? AND deleted_at IS NULL"
	args := []any{userID.String(), string(q.Status)}
	if len(q.Tags) > 0 {
		clause, tagArgs := tagOverlap(q.Tags)
		where += " AND " + clause
		args = append(args, tagArgs...)
	}
	args = append(args, q.Limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM flashcards WHERE `+where+` ORDER BY study_weight DESC, id LIMIT ?`,
		args...)
	if err != nil {
		log.Error("failed to query study candidates", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	cards, err := scanCards(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// ListForExport implements store.CardStore.ListForExport
func (s *CardStore) ListForExport(
	ctx context.Context,
	userID uuid.UUID,
	status domain.CardStatus,
) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM flashcards
		WHERE user_id = ? AND status = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id
	`, userID.String(), string(status))
	if err != nil {
		return nil, MapError(err)
	}
	cards, err := scanCards(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// ActiveWeights implements store.CardStore.ActiveWeights
func (s *CardStore) ActiveWeights(ctx context.Context, userID uuid.UUID) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT study_weight FROM flashcards
		WHERE user_id = ? AND status = ? AND deleted_at IS NULL
	`, userID.String(), string(domain.CardStatusActive))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	weights := make([]float64, 0)
	for rows.Next() {
		var w float64
		if err := rows.Scan(&w); err != nil {
			return nil, MapError(err)
		}
		weights = append(weights, w)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return weights, nil
}

// Update implements store.CardStore.Update
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}
	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET front = ?, back = ?, tags = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`,
		card.Front,
		card.Back,
		tags,
		string(card.Status),
		formatTime(card.UpdatedAt),
		card.ID.String(),
		card.UserID.String(),
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrCardNotFound)
}

// UpdateWeight implements store.CardStore.UpdateWeight
func (s *CardStore) UpdateWeight(
	ctx context.Context,
	userID, id uuid.UUID,
	weight float64,
	updatedAt time.Time,
) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET study_weight = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`, weight, formatTime(updatedAt), id.String(), userID.String())
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrCardNotFound)
}

// SoftDelete implements store.CardStore.SoftDelete
func (s *CardStore) SoftDelete(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
	deletedAt time.Time,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	stamp := formatTime(deletedAt)
	args := []any{stamp, stamp, userID.String()}
	for _, id := range ids {
		args = append(args, id.String())
	}

	rows, err := s.db.QueryContext(ctx, `
		UPDATE flashcards
		SET deleted_at = ?, updated_at = ?
		WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`) AND deleted_at IS NULL
		RETURNING id
	`, args...)
	if err != nil {
		log.Error("failed to soft delete cards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	deleted := make([]uuid.UUID, 0, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		deleted = append(deleted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return deleted, nil
}

// Restore implements store.CardStore.Restore
func (s *CardStore) Restore(ctx context.Context, userID, id uuid.UUID, updatedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET deleted_at = NULL, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NOT NULL
	`, formatTime(updatedAt), id.String(), userID.String())
	if err != nil {
		return MapError(err)
	}
	return checkRowsAffected(result, store.ErrCardNotFound)
}

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}
