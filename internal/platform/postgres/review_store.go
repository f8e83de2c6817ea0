package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

const reviewColumns = `id, user_id, flashcard_id, outcome, previous_weight, new_weight, reviewed_at`

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

func scanReviews(rows *sql.Rows) ([]*domain.Review, error) {
	defer func() { _ = rows.Close() }()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		var (
			r       domain.Review
			outcome string
		)
		if err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.CardID,
			&outcome,
			&r.PreviousWeight,
			&r.NewWeight,
			&r.ReviewedAt,
		); err != nil {
			return nil, err
		}
		r.Outcome = domain.ReviewOutcome(outcome)
		r.ReviewedAt = r.ReviewedAt.UTC()
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Create implements store.ReviewStore.Create
// Returns store.ErrInvalidEntity if the card does not exist (foreign key violation).
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", review.CardID.String()))
		return err
	}

	query := `
		INSERT INTO study_reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.UserID,
		review.CardID,
		string(review.Outcome),
		review.PreviousWeight,
		review.NewWeight,
		review.ReviewedAt,
	)
	if err != nil {
		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.String("card_id", review.CardID.String()),
			slog.String("user_id", review.UserID.String()))
		return MapError(err)
	}

	log.Debug("review recorded",
		slog.String("review_id", review.ID.String()),
		slog.String("card_id", review.CardID.String()),
		slog.String("outcome", string(review.Outcome)))
	return nil
}

// ListByUser implements store.ReviewStore.ListByUser
func (s *PostgresReviewStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	since *time.Time,
) ([]*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewColumns + `
		FROM study_reviews
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR reviewed_at >= $2::timestamptz)
		ORDER BY reviewed_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to list reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	reviews, err := scanReviews(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return reviews, nil
}

// ListTimestamps implements store.ReviewStore.ListTimestamps
func (s *PostgresReviewStore) ListTimestamps(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT reviewed_at
		FROM study_reviews
		WHERE user_id = $1
		ORDER BY reviewed_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list review timestamps",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stamps := make([]time.Time, 0)
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, MapError(err)
		}
		stamps = append(stamps, ts.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stamps, nil
}

// ListByCard implements store.ReviewStore.ListByCard
func (s *PostgresReviewStore) ListByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	limit int,
) ([]*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewColumns + `
		FROM study_reviews
		WHERE user_id = $1 AND flashcard_id = $2
		ORDER BY reviewed_at DESC, id
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, cardID, limit)
	if err != nil {
		log.Error("failed to list card reviews",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	reviews, err := scanReviews(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return reviews, nil
}

// CountByCard implements store.ReviewStore.CountByCard
func (s *PostgresReviewStore) CountByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (domain.ReviewCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE outcome = 'correct'),
			COUNT(*) FILTER (WHERE outcome = 'incorrect'),
			COUNT(*) FILTER (WHERE outcome = 'skipped')
		FROM study_reviews
		WHERE user_id = $1 AND flashcard_id = $2
	`
	var counts domain.ReviewCounts
	err := s.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&counts.Total,
		&counts.Correct,
		&counts.Incorrect,
		&counts.Skipped,
	)
	if err != nil {
		log.Error("failed to count card reviews",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return domain.ReviewCounts{}, MapError(err)
	}
	return counts, nil
}

// WithTx implements store.ReviewStore.WithTx
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{
		db:     tx,
		logger: s.logger,
	}
}
