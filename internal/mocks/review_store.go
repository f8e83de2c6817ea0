package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/store"
)

// MockReviewStore implements store.ReviewStore for testing
type MockReviewStore struct {
	CreateFn         func(ctx context.Context, review *domain.Review) error
	ListByUserFn     func(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*domain.Review, error)
	ListTimestampsFn func(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
	ListByCardFn     func(ctx context.Context, userID, cardID uuid.UUID, limit int) ([]*domain.Review, error)
	CountByCardFn    func(ctx context.Context, userID, cardID uuid.UUID) (domain.ReviewCounts, error)

	// Created records every review passed to Create.
	Created []*domain.Review
}

var _ store.ReviewStore = (*MockReviewStore)(nil)

// Create implements store.ReviewStore
func (m *MockReviewStore) Create(ctx context.Context, review *domain.Review) error {
	m.Created = append(m.Created, review)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, review)
	}
	return nil
}

// ListByUser implements store.ReviewStore
func (m *MockReviewStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	since *time.Time,
) ([]*domain.Review, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, since)
	}
	return []*domain.Review{}, nil
}

// ListTimestamps implements store.ReviewStore
func (m *MockReviewStore) ListTimestamps(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	if m.ListTimestampsFn != nil {
		return m.ListTimestampsFn(ctx, userID)
	}
	return []time.Time{}, nil
}

// ListByCard implements store.ReviewStore
func (m *MockReviewStore) ListByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	limit int,
) ([]*domain.Review, error) {
	if m.ListByCardFn != nil {
		return m.ListByCardFn(ctx, userID, cardID, limit)
	}
	return []*domain.Review{}, nil
}

// CountByCard implements store.ReviewStore
func (m *MockReviewStore) CountByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (domain.ReviewCounts, error) {
	if m.CountByCardFn != nil {
		return m.CountByCardFn(ctx, userID, cardID)
	}
	return domain.ReviewCounts{}, nil
}

// WithTx implements store.ReviewStore. It returns the mock itself.
func (m *MockReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return m
}
