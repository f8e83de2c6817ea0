// Package mocks provides shared test doubles for the store interfaces, the
// transactor and the token validator.
//
// Each mock has one function field per interface method. A nil field falls
// back to a zero result, so tests only set the behaviour they care about:
//
//	cards := &mocks.MockCardStore{
//	    GetByIDFn: func(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
//	        return nil, store.ErrCardNotFound
//	    },
//	}
//
// WithTx on a store mock returns the mock itself, and MockTransactor calls
// its function with a nil *sql.Tx, so transactional service code runs
// unchanged against the mocks.
package mocks
