package study

import (
	"math/rand/v2"
	"sync"

	"github.com/lingocards/lingo-api/internal/domain"
)

// Sampler draws cards without replacement with probability proportional to
// their study weight. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a Sampler drawing from rng.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("rng cannot be nil")
	}
	return &Sampler{rng: rng}
}

// Sample picks up to count distinct cards from pool. The input slice is not
// modified.
func (s *Sampler) Sample(pool []*domain.Card, count int) []*domain.Card {
	if count <= 0 || len(pool) == 0 {
		return []*domain.Card{}
	}

	remaining := make([]*domain.Card, len(pool))
	copy(remaining, pool)

	s.mu.Lock()
	defer s.mu.Unlock()

	picked := make([]*domain.Card, 0, min(count, len(pool)))
	for len(picked) < count && len(remaining) > 0 {
		var total float64
		for _, c := range remaining {
			total += c.StudyWeight
		}

		u := s.rng.Float64() * total
		idx := len(remaining) - 1 // rounding can leave u slightly above zero
		for i, c := range remaining {
			u -= c.StudyWeight
			if u <= 0 {
				idx = i
				break
			}
		}

		picked = append(picked, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return picked
}
