// Package retry re-runs failing operations with a linear backoff.
package retry

import (
	"context"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultDelay      = 1 * time.Second
)

// Policy is a reusable retry setting. Attempts <= 1 disables retrying.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

func (p Policy) Enabled() bool {
	return p.Attempts > 1
}

// Backoff returns the wait after the given 1-based attempt: delay * attempt.
func Backoff(delay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return delay * time.Duration(attempt)
}

// Do calls op up to maxRetries times, waiting Backoff(delay, attempt) between
// attempts, and returns the first success or the last error. Zero or negative
// arguments fall back to DefaultMaxRetries and DefaultDelay.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), maxRetries int, delay time.Duration) (T, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(Backoff(delay, attempt)):
		}
	}
	return zero, lastErr
}

// Wrap returns op wrapped with the policy, or op itself when disabled.
func Wrap[T any](p Policy, op func(context.Context) (T, error)) func(context.Context) (T, error) {
	if !p.Enabled() {
		return op
	}
	return func(ctx context.Context) (T, error) {
		return Do(ctx, op, p.Attempts, p.Delay)
	}
}
