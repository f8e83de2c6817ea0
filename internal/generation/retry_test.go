package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetry(t *testing.T) {
	transient := fmt.Errorf("%w: 503 from upstream", ErrTransientFailure)

	tests := []struct {
		name      string
		failures  []error
		retries   int
		wantCalls int
		wantErr   error
	}{
		{name: "first try succeeds", failures: nil, retries: 3, wantCalls: 1},
		{name: "recovers after transient failures", failures: []error{transient, transient}, retries: 3, wantCalls: 3},
		{name: "permanent error stops immediately", failures: []error{ErrContentBlocked}, retries: 3, wantCalls: 1, wantErr: ErrContentBlocked},
		{name: "retries exhausted", failures: []error{transient, transient, transient}, retries: 2, wantCalls: 3, wantErr: ErrTransientFailure},
		{name: "negative retries means one attempt", failures: []error{transient}, retries: -1, wantCalls: 1, wantErr: ErrTransientFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), discardLogger(), RetryPolicy{MaxRetries: tt.retries}, func(ctx context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, discardLogger(), RetryPolicy{MaxRetries: 5, BaseDelay: time.Hour}, func(ctx context.Context) error {
		calls++
		cancel()
		return ErrTransientFailure
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, ErrTransientFailure)
	assert.False(t, errors.Is(err, ErrContentBlocked))
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{BaseDelay: 2 * time.Second}

	assert.Equal(t, time.Second, p.Backoff(0, 0))
	assert.Equal(t, 2*time.Second, p.Backoff(1, 0))
	assert.Equal(t, 6*time.Second, p.Backoff(2, 0.5))
	assert.Less(t, p.Backoff(3, 0.999), 16*time.Second)
}
