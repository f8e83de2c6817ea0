package study_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/domain/weight"
	"github.com/lingocards/lingo-api/internal/migrations"
	"github.com/lingocards/lingo-api/internal/platform/sqlite"
	"github.com/lingocards/lingo-api/internal/service/study"
	"github.com/lingocards/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	cards *sqlite.CardStore
	svc   study.Service
}

func setup(t *testing.T, now time.Time) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "study.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	runner, err := migrations.NewRunner(db, migrations.DriverSQLite, logger)
	require.NoError(t, err)
	require.NoError(t, runner.Up(ctx))

	cards := sqlite.NewCardStore(db, logger)
	svc := study.NewService(
		cards,
		sqlite.NewReviewStore(db, logger),
		store.NewTransactor(db),
		weight.NewDefaultService(),
		logger,
		study.WithClock(func() time.Time { return now }),
		study.WithRand(rand.New(rand.NewPCG(7, 7))),
	)
	return &fixture{db: db, cards: cards, svc: svc}
}

func (f *fixture) addCard(t *testing.T, userID uuid.UUID, front string, tags ...string) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(userID, front, front+" (en)", tags, domain.CardStatusActive, domain.CardSourceManual)
	require.NoError(t, err)
	require.NoError(t, f.cards.Create(context.Background(), card))
	return card
}

func TestStudyFlow_SQLite(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	f := setup(t, now)
	userID := uuid.New()

	hola := f.addCard(t, userID, "hola", "greetings")
	gato := f.addCard(t, userID, "el gato", "animals")

	review, err := f.svc.SubmitReview(ctx, userID, hola.ID, domain.ReviewOutcomeIncorrect)
	require.NoError(t, err)
	assert.Equal(t, 1.0, review.PreviousWeight)
	assert.Equal(t, 1.5, review.NewWeight)

	_, err = f.svc.SubmitReview(ctx, userID, gato.ID, domain.ReviewOutcomeCorrect)
	require.NoError(t, err)

	stored, err := f.cards.GetByID(ctx, userID, hola.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, stored.StudyWeight)

	session, err := f.svc.StartSession(ctx, userID, study.SessionFilters{Tags: "greetings"})
	require.NoError(t, err)
	require.Len(t, session.Cards, 1)
	assert.Equal(t, hola.ID, session.Cards[0].ID)
	assert.Equal(t, 1.5, session.Cards[0].CurrentWeight)

	stats, err := f.svc.GetStudyStatistics(ctx, userID, domain.StudyPeriodDay)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalReviews)
	assert.Equal(t, 50.0, stats.AccuracyRate)
	assert.Equal(t, 2, stats.CardsStudied)
	assert.InDelta(t, 1.15, stats.AverageWeight, 0.001)
	assert.Equal(t, 1, stats.StudyStreakDays)

	history, err := f.svc.GetCardHistory(ctx, userID, hola.ID, 0)
	require.NoError(t, err)
	require.Len(t, history.Reviews, 1)
	assert.Equal(t, 1, history.IncorrectReviews)
}

func TestStudyFlow_SQLite_DeletedCards(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	f := setup(t, now)
	userID := uuid.New()

	card := f.addCard(t, userID, "adiós")
	_, err := f.svc.SubmitReview(ctx, userID, card.ID, domain.ReviewOutcomeSkipped)
	require.NoError(t, err)

	_, err = f.cards.SoftDelete(ctx, userID, []uuid.UUID{card.ID}, now)
	require.NoError(t, err)

	_, err = f.svc.SubmitReview(ctx, userID, card.ID, domain.ReviewOutcomeCorrect)
	assert.ErrorIs(t, err, study.ErrCardNotFound)

	_, err = f.svc.StartSession(ctx, userID, study.SessionFilters{})
	assert.ErrorIs(t, err, study.ErrNoCardsAvailable)

	history, err := f.svc.GetCardHistory(ctx, userID, card.ID, 10)
	require.NoError(t, err, "history outlives soft deletion")
	assert.Equal(t, 1, history.TotalReviews)

	_, err = f.svc.GetCardHistory(ctx, uuid.New(), card.ID, 10)
	assert.ErrorIs(t, err, study.ErrCardNotFound, "cards are scoped to their owner")
}
