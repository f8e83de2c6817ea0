package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/store"
)

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	CreateFn              func(ctx context.Context, card *domain.Card) error
	CreateMultipleFn      func(ctx context.Context, cards []*domain.Card) error
	GetByIDFn             func(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)
	GetForUpdateFn        func(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)
	ListFn                func(ctx context.Context, userID uuid.UUID, filter store.CardListFilter) ([]*domain.Card, int, error)
	FindStudyCandidatesFn func(ctx context.Context, userID uuid.UUID, query store.CandidateQuery) ([]*domain.Card, error)
	ListForExportFn       func(ctx context.Context, userID uuid.UUID, status domain.CardStatus) ([]*domain.Card, error)
	ActiveWeightsFn       func(ctx context.Context, userID uuid.UUID) ([]float64, error)
	UpdateFn              func(ctx context.Context, card *domain.Card) error
	UpdateWeightFn        func(ctx context.Context, userID, id uuid.UUID, weight float64, updatedAt time.Time) error
	SoftDeleteFn          func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, deletedAt time.Time) ([]uuid.UUID, error)
	RestoreFn             func(ctx context.Context, userID, id uuid.UUID, updatedAt time.Time) error

	// TxCalls counts WithTx calls.
	TxCalls int
}

var _ store.CardStore = (*MockCardStore)(nil)

// Create implements store.CardStore
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return nil
}

// CreateMultiple implements store.CardStore
func (m *MockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, cards)
	}
	return nil
}

// GetByID implements store.CardStore
func (m *MockCardStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return nil, store.ErrCardNotFound
}

// GetForUpdate implements store.CardStore
func (m *MockCardStore) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, userID, id)
	}
	return nil, store.ErrCardNotFound
}

// List implements store.CardStore
func (m *MockCardStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardListFilter,
) ([]*domain.Card, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}
	return []*domain.Card{}, 0, nil
}

// FindStudyCandidates implements store.CardStore
func (m *MockCardStore) FindStudyCandidates(
	ctx context.Context,
	userID uuid.UUID,
	query store.CandidateQuery,
) ([]*domain.Card, error) {
	if m.FindStudyCandidatesFn != nil {
		return m.FindStudyCandidatesFn(ctx, userID, query)
	}
	return []*domain.Card{}, nil
}

// ListForExport implements store.CardStore
func (m *MockCardStore) ListForExport(
	ctx context.Context,
	userID uuid.UUID,
	status domain.CardStatus,
) ([]*domain.Card, error) {
	if m.ListForExportFn != nil {
		return m.ListForExportFn(ctx, userID, status)
	}
	return []*domain.Card{}, nil
}

// ActiveWeights implements store.CardStore
func (m *MockCardStore) ActiveWeights(ctx context.Context, userID uuid.UUID) ([]float64, error) {
	if m.ActiveWeightsFn != nil {
		return m.ActiveWeightsFn(ctx, userID)
	}
	return []float64{}, nil
}

// Update implements store.CardStore
func (m *MockCardStore) Update(ctx context.Context, card *domain.Card) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return nil
}

// UpdateWeight implements store.CardStore
func (m *MockCardStore) UpdateWeight(
	ctx context.Context,
	userID, id uuid.UUID,
	weight float64,
	updatedAt time.Time,
) error {
	if m.UpdateWeightFn != nil {
		return m.UpdateWeightFn(ctx, userID, id, weight, updatedAt)
	}
	return nil
}

// SoftDelete implements store.CardStore
func (m *MockCardStore) SoftDelete(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
	deletedAt time.Time,
) ([]uuid.UUID, error) {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, userID, ids, deletedAt)
	}
	return ids, nil
}

// Restore implements store.CardStore
func (m *MockCardStore) Restore(ctx context.Context, userID, id uuid.UUID, updatedAt time.Time) error {
	if m.RestoreFn != nil {
		return m.RestoreFn(ctx, userID, id, updatedAt)
	}
	return nil
}

// WithTx implements store.CardStore. It returns the mock itself.
func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	m.TxCalls++
	return m
}
