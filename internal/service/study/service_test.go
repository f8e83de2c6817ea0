package study

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/lingocards/lingo-api/internal/domain/weight"
	"github.com/lingocards/lingo-api/internal/mocks"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(
	t *testing.T,
	cards *mocks.MockCardStore,
	reviews *mocks.MockReviewStore,
	opts ...Option,
) Service {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 1)))}, opts...)
	return NewService(cards, reviews, &mocks.MockTransactor{}, weight.NewDefaultService(), testLogger(), opts...)
}

func TestNewService_PanicsOnMissingDependencies(t *testing.T) {
	cards := &mocks.MockCardStore{}
	reviews := &mocks.MockReviewStore{}
	tx := &mocks.MockTransactor{}
	weights := weight.NewDefaultService()

	assert.Panics(t, func() { NewService(nil, reviews, tx, weights, nil) })
	assert.Panics(t, func() { NewService(cards, nil, tx, weights, nil) })
	assert.Panics(t, func() { NewService(cards, reviews, nil, weights, nil) })
	assert.Panics(t, func() { NewService(cards, reviews, tx, nil, nil) })
	assert.NotPanics(t, func() { NewService(cards, reviews, tx, weights, nil) })
}

func TestServiceError(t *testing.T) {
	err := NewServiceError("submit_review", "failed to record review", assert.AnError)
	assert.Equal(t, "submit_review operation failed: failed to record review: "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)

	bare := NewServiceError("get_statistics", "bad period", nil)
	assert.Equal(t, "get_statistics operation failed: bad period", bare.Error())
}
