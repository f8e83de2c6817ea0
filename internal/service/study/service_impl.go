package study

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lingocards/lingo-api/internal/domain/weight"
	"github.com/lingocards/lingo-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*studyServiceImpl)(nil)

// studyServiceImpl implements the Service interface.
type studyServiceImpl struct {
	cards    store.CardStore
	reviews  store.ReviewStore
	tx       store.Transactor
	weights  weight.Service
	sampler  *Sampler
	now      func() time.Time
	location *time.Location
	logger   *slog.Logger
}

// Option customizes the study service.
type Option func(*studyServiceImpl)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *studyServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone that defines a calendar day for streaks.
func WithLocation(loc *time.Location) Option {
	return func(s *studyServiceImpl) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithRand sets the random source used to sample sessions.
func WithRand(rng *rand.Rand) Option {
	return func(s *studyServiceImpl) {
		if rng != nil {
			s.sampler = NewSampler(rng)
		}
	}
}

// NewService creates a new study Service.
// Days are UTC and sampling is randomly seeded unless overridden by options.
func NewService(
	cards store.CardStore,
	reviews store.ReviewStore,
	tx store.Transactor,
	weights weight.Service,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards cannot be nil")
	}
	if reviews == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviews cannot be nil")
	}
	if tx == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tx cannot be nil")
	}
	if weights == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("weights cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &studyServiceImpl{
		cards:    cards,
		reviews:  reviews,
		tx:       tx,
		weights:  weights,
		sampler:  NewSampler(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
		now:      time.Now,
		location: time.UTC,
		logger:   logger.With(slog.String("component", "study_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
