package shared

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy retries SQLite writes that fail on lock contention with
// exponential backoff.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	// Retryable decides whether an error warrants another attempt.
	// Defaults to IsSQLiteConflictError.
	Retryable func(error) bool
}

// DefaultRetryPolicy returns 3 attempts starting at 50ms (50ms, 100ms).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: 50 * time.Millisecond}
}

// Do runs fn until it succeeds, fails with a non-retryable error, the
// attempts are exhausted or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsSQLiteConflictError
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) || i == maxRetries-1 {
			break
		}

		delay := p.BaseDelay * time.Duration(1<<i)
		slog.Debug("Database locked, retrying",
			"op", op,
			"attempt", i+1,
			"delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}
