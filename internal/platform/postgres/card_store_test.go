package postgres_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/postgres"
	"github.com/lingocards/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughConverter hands arguments to sqlmock untouched, the way the pgx
// driver accepts slices and pointers directly.
type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v any) (driver.Value, error) { return v, nil }

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthroughConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var cardColumnNames = []string{
	"id", "user_id", "front", "back", "tags", "status", "source",
	"study_weight", "deleted_at", "created_at", "updated_at",
}

func TestNewPostgresCardStore_NilDBPanics(t *testing.T) {
	assert.Panics(t, func() { postgres.NewPostgresCardStore(nil, testLogger()) })
	assert.NotPanics(t, func() {
		db, _ := newMockDB(t)
		postgres.NewPostgresCardStore(db, nil)
	})
}

func TestPostgresCardStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	userID := uuid.New()
	cardID := uuid.New()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	deleted := created.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM flashcards")).
		WithArgs(cardID, userID).
		WillReturnRows(sqlmock.NewRows(cardColumnNames).AddRow(
			cardID.String(), userID.String(), "hola", "hello", "{spanish,greetings}",
			"active", "ai", 2.25, deleted, created, created,
		))

	card, err := s.GetByID(context.Background(), userID, cardID)
	require.NoError(t, err)
	assert.Equal(t, cardID, card.ID)
	assert.Equal(t, []string{"spanish", "greetings"}, card.Tags)
	assert.Equal(t, domain.CardStatusActive, card.Status)
	assert.Equal(t, domain.CardSourceAI, card.Source)
	assert.Equal(t, 2.25, card.StudyWeight)
	require.NotNil(t, card.DeletedAt)
	assert.True(t, deleted.Equal(*card.DeletedAt))
}

func TestPostgresCardStore_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM flashcards")).
		WillReturnRows(sqlmock.NewRows(cardColumnNames))

	_, err := s.GetByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestPostgresCardStore_GetForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	userID := uuid.New()
	cardID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`deleted_at IS NULL\s+FOR UPDATE`).
		WithArgs(cardID, userID).
		WillReturnRows(sqlmock.NewRows(cardColumnNames).AddRow(
			cardID.String(), userID.String(), "f", "b", "{}", "active", "manual", 1.0, nil, now, now,
		))

	card, err := s.GetForUpdate(context.Background(), userID, cardID)
	require.NoError(t, err)
	assert.Empty(t, card.Tags)
	assert.NotNil(t, card.Tags)
	assert.Nil(t, card.DeletedAt)
}

func TestPostgresCardStore_FindStudyCandidates(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	userID := uuid.New()
	now := time.Now().UTC()
	rows := sqlmock.NewRows(cardColumnNames).
		AddRow(uuid.NewString(), userID.String(), "a", "b", "{verbs}", "active", "manual", 4.0, nil, now, now).
		AddRow(uuid.NewString(), userID.String(), "c", "d", "{verbs}", "active", "manual", 1.5, nil, now, now)

	mock.ExpectQuery(`ORDER BY study_weight DESC`).
		WithArgs(userID, "active", []string{"verbs"}, 6).
		WillReturnRows(rows)

	cards, err := s.FindStudyCandidates(context.Background(), userID, store.CandidateQuery{
		Status: domain.CardStatusActive,
		Tags:   []string{"verbs"},
		Limit:  6,
	})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 4.0, cards[0].StudyWeight)
}

func TestPostgresCardStore_FindStudyCandidates_NoTagsSendsEmptyArray(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	userID := uuid.New()
	mock.ExpectQuery(`ORDER BY study_weight DESC`).
		WithArgs(userID, "review", []string{}, 100).
		WillReturnRows(sqlmock.NewRows(cardColumnNames))

	cards, err := s.FindStudyCandidates(context.Background(), userID, store.CandidateQuery{
		Status: domain.CardStatusReview,
		Limit:  100,
	})
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestPostgresCardStore_UpdateWeight(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	userID := uuid.New()
	cardID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("SET study_weight = $1")).
		WithArgs(1.5, now, cardID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateWeight(context.Background(), userID, cardID, 1.5, now))

	mock.ExpectExec(regexp.QuoteMeta("SET study_weight = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := s.UpdateWeight(context.Background(), userID, cardID, 1.5, now)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestPostgresCardStore_SoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	userID := uuid.New()
	a, b := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`RETURNING id`).
		WithArgs(now, userID, []string{a.String(), b.String()}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()))

	deleted, err := s.SoftDelete(context.Background(), userID, []uuid.UUID{a, b}, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, deleted)

	// No IDs means no query.
	deleted, err = s.SoftDelete(context.Background(), userID, nil, now)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestPostgresCardStore_CreateRejectsInvalidCard(t *testing.T) {
	db, _ := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	card := &domain.Card{ID: uuid.New(), UserID: uuid.New(), Front: "", Back: "b", StudyWeight: 1}
	err := s.Create(context.Background(), card)
	assert.Error(t, err)
}

func TestPostgresCardStore_ListBuildsFilters(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresCardStore(db, testLogger())

	userID := uuid.New()
	status := domain.CardStatusArchived
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM flashcards WHERE user_id = $1 AND deleted_at IS NULL AND status = $2 AND tags && $3::text[]")).
		WithArgs(userID, "archived", []string{"food"}).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY updated_at ASC, id\s+LIMIT \$4 OFFSET \$5`).
		WithArgs(userID, "archived", []string{"food"}, 2, 2).
		WillReturnRows(sqlmock.NewRows(cardColumnNames).
			AddRow(uuid.NewString(), userID.String(), "x", "y", "{food}", "archived", "manual", 1.0, nil, now, now))

	cards, total, err := s.List(context.Background(), userID, store.CardListFilter{
		Status:    &status,
		Tags:      []string{"food"},
		SortBy:    store.SortByUpdatedAt,
		Ascending: true,
		Limit:     2,
		Offset:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, cards, 1)
}

func TestPostgresCardStore_WithTxKeepsLogger(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := postgres.NewPostgresCardStore(db, testLogger())
	tx, err := db.Begin()
	require.NoError(t, err)
	assert.NotNil(t, s.WithTx(tx))
	require.NoError(t, tx.Rollback())
}
