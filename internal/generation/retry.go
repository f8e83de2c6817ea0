package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy controls how transient provider failures are retried.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the backoff before the first retry. It doubles per retry
	// and is scaled by a random jitter factor in [0.5, 1.0).
	BaseDelay time.Duration
}

// Backoff returns the delay before retry number attempt (0-based) for the given
// jitter factor in [0, 1).
func (p RetryPolicy) Backoff(attempt int, jitter float64) time.Duration {
	backoff := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	return time.Duration(backoff * (0.5 + jitter*0.5))
}

// Retry calls fn until it succeeds, fails with an error that does not wrap
// ErrTransientFailure, or the policy's retries are exhausted. Waiting between
// attempts stops early when ctx is cancelled.
func Retry(ctx context.Context, logger *slog.Logger, policy RetryPolicy, fn func(ctx context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.InfoContext(ctx, "LLM call succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}

		if !errors.Is(err, ErrTransientFailure) {
			logger.WarnContext(ctx, "permanent LLM error, not retrying",
				"attempt", attempt+1,
				"error", err)
			return err
		}

		if attempt >= maxRetries {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_retries", maxRetries,
				"error", err)
			return fmt.Errorf("exceeded maximum retry attempts (%d): %w", maxRetries, err)
		}

		delay := policy.Backoff(attempt, rand.Float64())
		logger.InfoContext(ctx, "retrying LLM call after delay",
			"attempt", attempt+1,
			"delay", delay.String(),
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
