package mocks

import (
	"context"

	"github.com/lingocards/lingo-api/internal/store"
)

// MockTransactor implements store.Transactor without a database. The
// function runs with a nil transaction and its error is returned unchanged.
type MockTransactor struct {
	// Err, when set, is returned instead of running the function.
	Err error

	// Calls counts RunInTransaction calls.
	Calls int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements store.Transactor
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}
