package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

const cardColumns = `id, user_id, front, back, tags, status, source, study_weight, deleted_at, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// tagScanner decodes a text[] column into dst.
func tagScanner(dst *[]string) sql.Scanner {
	return pgtype.NewMap().SQLScanner(dst)
}

// tagsParam never hands a nil slice to the driver, which would encode NULL.
func tagsParam(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card      domain.Card
		status    string
		source    string
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Front,
		&card.Back,
		tagScanner(&card.Tags),
		&status,
		&source,
		&card.StudyWeight,
		&deletedAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Status = domain.CardStatus(status)
	card.Source = domain.CardSource(source)
	if card.Tags == nil {
		card.Tags = []string{}
	}
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		card.DeletedAt = &t
	}
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// Create implements store.CardStore.Create
// It saves a new card to the database after domain validation.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.Front,
		card.Back,
		tagsParam(card.Tags),
		string(card.Status),
		string(card.Source),
		card.StudyWeight,
		card.DeletedAt,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()),
		slog.String("source", string(card.Source)))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// Every card is validated before any row is written.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return err
		}
	}

	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}

	log.Info("cards created", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, userID, id, `
		SELECT `+cardColumns+`
		FROM flashcards
		WHERE id = $1 AND user_id = $2
	`)
}

// GetForUpdate implements store.CardStore.GetForUpdate
// The row stays locked until the surrounding transaction ends.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	return s.getOne(ctx, userID, id, `
		SELECT `+cardColumns+`
		FROM flashcards
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		FOR UPDATE
	`)
}

func (s *PostgresCardStore) getOne(ctx context.Context, userID, id uuid.UUID, query string) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found",
				slog.String("card_id", id.String()),
				slog.String("user_id", userID.String()))
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
func (s *PostgresCardStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardListFilter,
) ([]*domain.Card, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := []string{"user_id = $1"}
	args := []any{userID}
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeDeleted {
		where = append(where, "deleted_at IS NULL")
	}
	if filter.Status != nil {
		where = append(where, "status = "+addArg(string(*filter.Status)))
	}
	if filter.Source != nil {
		where = append(where, "source = "+addArg(string(*filter.Source)))
	}
	if len(filter.Tags) > 0 {
		where = append(where, "tags && "+addArg(filter.Tags)+"::text[]")
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM flashcards WHERE ` + whereClause
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
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

	query := fmt.Sprintf(`
		SELECT %s
		FROM flashcards
		WHERE %s
		ORDER BY %s %s, id
		LIMIT %s OFFSET %s
	`, cardColumns, whereClause, sortColumn, direction, addArg(filter.Limit), addArg(filter.Offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}

	log.Debug("cards listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)),
		slog.Int("total", total))
	return cards, total, nil
}

// FindStudyCandidates implements store.CardStore.FindStudyCandidates
func (s *PostgresCardStore) FindStudyCandidates(
	ctx context.Context,
	userID uuid.UUID,
	q store.CandidateQuery,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM flashcards
		WHERE user_id = $1 AND status = $2 AND deleted_at IS NULL
		  AND (cardinality($3::text[]) = 0 OR tags && $3::text[])
		ORDER BY study_weight DESC, id
		LIMIT $4
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(q.Status), tagsParam(q.Tags), q.Limit)
	if err != nil {
		log.Error("failed to query study candidates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan study candidates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	log.Debug("study candidates loaded",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)),
		slog.Int("limit", q.Limit))
	return cards, nil
}

// ListForExport implements store.CardStore.ListForExport
func (s *PostgresCardStore) ListForExport(
	ctx context.Context,
	userID uuid.UUID,
	status domain.CardStatus,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM flashcards
		WHERE user_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(status))
	if err != nil {
		log.Error("failed to query cards for export",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	cards, err := scanCards(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// ActiveWeights implements store.CardStore.ActiveWeights
func (s *PostgresCardStore) ActiveWeights(ctx context.Context, userID uuid.UUID) ([]float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT study_weight
		FROM flashcards
		WHERE user_id = $1 AND status = $2 AND deleted_at IS NULL
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(domain.CardStatusActive))
	if err != nil {
		log.Error("failed to query active weights",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
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
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE flashcards
		SET front = $1, back = $2, tags = $3, status = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Front,
		card.Back,
		tagsParam(card.Tags),
		string(card.Status),
		card.UpdatedAt,
		card.ID,
		card.UserID,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		log.Debug("card not found for update", slog.String("card_id", card.ID.String()))
		return err
	}

	log.Debug("card updated", slog.String("card_id", card.ID.String()))
	return nil
}

// UpdateWeight implements store.CardStore.UpdateWeight
func (s *PostgresCardStore) UpdateWeight(
	ctx context.Context,
	userID, id uuid.UUID,
	weight float64,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE flashcards
		SET study_weight = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, weight, updatedAt, id, userID)
	if err != nil {
		log.Error("failed to update study weight",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()),
			slog.Float64("weight", weight))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("study weight updated",
		slog.String("card_id", id.String()),
		slog.Float64("weight", weight))
	return nil
}

// SoftDelete implements store.CardStore.SoftDelete
func (s *PostgresCardStore) SoftDelete(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
	deletedAt time.Time,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	idParams := make([]string, len(ids))
	for i, id := range ids {
		idParams[i] = id.String()
	}

	query := `
		UPDATE flashcards
		SET deleted_at = $1, updated_at = $1
		WHERE user_id = $2 AND id = ANY($3::uuid[]) AND deleted_at IS NULL
		RETURNING id
	`
	rows, err := s.db.QueryContext(ctx, query, deletedAt, userID, idParams)
	if err != nil {
		log.Error("failed to soft delete cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("requested", len(ids)))
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

	log.Info("cards soft deleted",
		slog.String("user_id", userID.String()),
		slog.Int("requested", len(ids)),
		slog.Int("deleted", len(deleted)))
	return deleted, nil
}

// Restore implements store.CardStore.Restore
func (s *PostgresCardStore) Restore(ctx context.Context, userID, id uuid.UUID, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE flashcards
		SET deleted_at = NULL, updated_at = $1
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NOT NULL
	`
	result, err := s.db.ExecContext(ctx, query, updatedAt, id, userID)
	if err != nil {
		log.Error("failed to restore card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Info("card restored", slog.String("card_id", id.String()))
	return nil
}

// WithTx implements store.CardStore.WithTx
// It returns a new CardStore instance that uses the provided transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}
