// Package ratelimit keeps per-user request budgets for expensive endpoints.
//
// A Store holds one token bucket per (endpoint, user) pair. Buckets refill
// continuously at the endpoint's hourly rate and start full. Idle buckets are
// evicted by Sweep, which Run calls on a ticker; nothing runs unless the
// owner starts it.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the result of an Allow check.
type Decision struct {
	Allowed bool
	// RetryAfter is how long until the next request would be allowed.
	// It is zero when Allowed is true.
	RetryAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Store is a concurrency-safe set of rate limiters.
type Store struct {
	mu      sync.Mutex
	limits  map[string]int
	buckets map[string]*bucket
	idleTTL time.Duration
	now     func() time.Time
}

// NewStore creates a Store. limits maps an endpoint name to its requests per
// hour; endpoints without an entry are not limited. Buckets unused for
// idleTTL are dropped by Sweep.
func NewStore(limits map[string]int, idleTTL time.Duration) *Store {
	copied := make(map[string]int, len(limits))
	for k, v := range limits {
		copied[k] = v
	}
	return &Store{
		limits:  copied,
		buckets: make(map[string]*bucket),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Allow consumes one request from the user's budget for endpoint.
func (s *Store) Allow(endpoint, userID string) Decision {
	return s.AllowAt(endpoint, userID, s.now())
}

// AllowAt is Allow evaluated at a given instant.
func (s *Store) AllowAt(endpoint, userID string, now time.Time) Decision {
	perHour, ok := s.limits[endpoint]
	if !ok || perHour <= 0 {
		return Decision{Allowed: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := endpoint + ":" + userID
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return Decision{RetryAfter: time.Hour}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{RetryAfter: delay}
	}
	return Decision{Allowed: true}
}

// Sweep removes buckets idle for longer than the store's TTL and reports how
// many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) > s.idleTTL {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live buckets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Run calls Sweep every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				logger.Debug("evicted idle rate limiters", slog.Int("count", n))
			}
		}
	}
}
