package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/domain/weight"
	"github.com/lingocards/lingo-api/internal/mocks"
	"github.com/lingocards/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReview(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()
	cardID := uuid.New()

	tests := []struct {
		outcome    domain.ReviewOutcome
		previous   float64
		wantWeight float64
	}{
		{domain.ReviewOutcomeCorrect, 1.0, 0.8},
		{domain.ReviewOutcomeCorrect, 0.55, 0.5},
		{domain.ReviewOutcomeIncorrect, 2.0, 3.0},
		{domain.ReviewOutcomeIncorrect, 4.0, 5.0},
		{domain.ReviewOutcomeSkipped, 1.0, 1.1},
	}

	for _, tc := range tests {
		t.Run(string(tc.outcome), func(t *testing.T) {
			var (
				updatedWeight float64
				updatedAt     time.Time
			)
			cards := &mocks.MockCardStore{
				GetForUpdateFn: func(ctx context.Context, uid, id uuid.UUID) (*domain.Card, error) {
					return &domain.Card{ID: id, UserID: uid, StudyWeight: tc.previous}, nil
				},
				UpdateWeightFn: func(ctx context.Context, uid, id uuid.UUID, w float64, at time.Time) error {
					updatedWeight = w
					updatedAt = at
					return nil
				},
			}
			reviews := &mocks.MockReviewStore{}
			tx := &mocks.MockTransactor{}
			svc := NewService(cards, reviews, tx, weight.NewDefaultService(), testLogger(),
				WithClock(func() time.Time { return now }))

			review, err := svc.SubmitReview(context.Background(), userID, cardID, tc.outcome)
			require.NoError(t, err)

			assert.Equal(t, 1, tx.Calls, "read and writes share one transaction")
			assert.Equal(t, cardID, review.CardID)
			assert.Equal(t, tc.outcome, review.Outcome)
			assert.Equal(t, tc.previous, review.PreviousWeight)
			assert.InDelta(t, tc.wantWeight, review.NewWeight, 1e-9)
			assert.Equal(t, now, review.ReviewedAt)
			assert.Equal(t, review.NewWeight, updatedWeight)
			assert.Equal(t, now, updatedAt)
			require.Len(t, reviews.Created, 1)
			assert.Same(t, review, reviews.Created[0])
		})
	}
}

func TestSubmitReview_InvalidOutcome(t *testing.T) {
	tx := &mocks.MockTransactor{}
	svc := NewService(&mocks.MockCardStore{}, &mocks.MockReviewStore{}, tx, weight.NewDefaultService(), testLogger())

	_, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), "maybe")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	assert.Zero(t, tx.Calls)
}

func TestSubmitReview_CardNotFound(t *testing.T) {
	reviews := &mocks.MockReviewStore{}
	svc := newTestService(t, &mocks.MockCardStore{}, reviews)

	_, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), domain.ReviewOutcomeCorrect)
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Empty(t, reviews.Created)
}

func TestSubmitReview_InsertFailureSkipsWeightUpdate(t *testing.T) {
	insertErr := errors.New("insert failed")
	updated := false
	cards := &mocks.MockCardStore{
		GetForUpdateFn: func(ctx context.Context, uid, id uuid.UUID) (*domain.Card, error) {
			return &domain.Card{ID: id, UserID: uid, StudyWeight: 1}, nil
		},
		UpdateWeightFn: func(ctx context.Context, uid, id uuid.UUID, w float64, at time.Time) error {
			updated = true
			return nil
		},
	}
	reviews := &mocks.MockReviewStore{
		CreateFn: func(ctx context.Context, r *domain.Review) error { return insertErr },
	}
	svc := newTestService(t, cards, reviews)

	_, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), domain.ReviewOutcomeCorrect)
	assert.ErrorIs(t, err, insertErr)
	assert.False(t, updated)
}

func TestSubmitReview_CardDeletedMidTransaction(t *testing.T) {
	cards := &mocks.MockCardStore{
		GetForUpdateFn: func(ctx context.Context, uid, id uuid.UUID) (*domain.Card, error) {
			return &domain.Card{ID: id, UserID: uid, StudyWeight: 1}, nil
		},
		UpdateWeightFn: func(ctx context.Context, uid, id uuid.UUID, w float64, at time.Time) error {
			return store.ErrCardNotFound
		},
	}
	svc := newTestService(t, cards, &mocks.MockReviewStore{})

	_, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), domain.ReviewOutcomeSkipped)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSubmitReview_TransactionFailure(t *testing.T) {
	tx := &mocks.MockTransactor{Err: store.ErrTransactionFailed}
	svc := NewService(&mocks.MockCardStore{}, &mocks.MockReviewStore{}, tx, weight.NewDefaultService(), testLogger())

	_, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), domain.ReviewOutcomeCorrect)
	assert.ErrorIs(t, err, store.ErrTransactionFailed)
}
