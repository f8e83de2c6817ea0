package sqlite

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

// ReviewStore implements store.ReviewStore on SQLite.
type ReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewStore creates a SQLite ReviewStore. If logger is nil, a default logger is used.
func NewReviewStore(db store.DBTX, logger *slog.Logger) *ReviewStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store"), slog.String("driver", "sqlite")),
	}
}

var _ store.ReviewStore = (*ReviewStore)(nil)

func scanReviews(rows *sql.Rows) ([]*domain.Review, error) {
	defer func() { _ = rows.Close() }()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		var (
			r          domain.Review
			outcome    string
			reviewedAt string
		)
		if err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.CardID,
			&outcome,
			&r.PreviousWeight,
			&r.NewWeight,
			&reviewedAt,
		); err != nil {
			return nil, err
		}
		t, err := parseTime(reviewedAt)
		if err != nil {
			return nil, err
		}
		r.Outcome = domain.ReviewOutcome(outcome)
		r.ReviewedAt = t
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}

// Create implements store.ReviewStore.Create
func (s *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_reviews (`+reviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		review.ID.String(),
		review.UserID.String(),
		review.CardID.String(),
		string(review.Outcome),
		review.PreviousWeight,
		review.NewWeight,
		formatTime(review.ReviewedAt),
	)
	if err != nil {
		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.String("card_id", review.CardID.String()))
		return MapError(err)
	}
	return nil
}

// ListByUser implements store.ReviewStore.ListByUser
func (s *ReviewStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	since *time.Time,
) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM study_reviews WHERE user_id = ?`
	args := []any{userID.String()}
	if since != nil {
		query += ` AND reviewed_at >= ?`
		args = append(args, formatTime(*since))
	}
	query += ` ORDER BY reviewed_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	reviews, err := scanReviews(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return reviews, nil
}

// ListTimestamps implements store.ReviewStore.ListTimestamps
func (s *ReviewStore) ListTimestamps(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reviewed_at FROM study_reviews
		WHERE user_id = ?
		ORDER BY reviewed_at DESC
	`, userID.String())
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stamps := make([]time.Time, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, MapError(err)
		}
		t, err := parseTime(raw)
		if err != nil {
			return nil, err
		}
		stamps = append(stamps, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stamps, nil
}

// ListByCard implements store.ReviewStore.ListByCard
func (s *ReviewStore) ListByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	limit int,
) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewColumns+` FROM study_reviews
		WHERE user_id = ? AND flashcard_id = ?
		ORDER BY reviewed_at DESC, id
		LIMIT ?
	`, userID.String(), cardID.String(), limit)
	if err != nil {
		return nil, MapError(err)
	}
	reviews, err := scanReviews(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return reviews, nil
}

// CountByCard implements store.ReviewStore.CountByCard
func (s *ReviewStore) CountByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (domain.ReviewCounts, error) {
	var counts domain.ReviewCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(outcome = 'correct'), 0),
			COALESCE(SUM(outcome = 'incorrect'), 0),
			COALESCE(SUM(outcome = 'skipped'), 0)
		FROM study_reviews
		WHERE user_id = ? AND flashcard_id = ?
	`, userID.String(), cardID.String()).Scan(
		&counts.Total,
		&counts.Correct,
		&counts.Incorrect,
		&counts.Skipped,
	)
	if err != nil {
		return domain.ReviewCounts{}, MapError(err)
	}
	return counts, nil
}

// WithTx implements store.ReviewStore.WithTx
func (s *ReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &ReviewStore{db: tx, logger: s.logger}
}
