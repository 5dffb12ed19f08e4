// Package retry runs operations under a bounded attempt/backoff policy.
// This is part of the platform layer and contains no business logic.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backoff returns the wait before the given retry. attempt starts at 1 for
// the delay that follows the first failure.
type Backoff func(attempt int, base time.Duration) time.Duration

// Linear waits base×attempt.
func Linear(attempt int, base time.Duration) time.Duration {
	return time.Duration(attempt) * base
}

// Quadratic waits base×attempt².
func Quadratic(attempt int, base time.Duration) time.Duration {
	return time.Duration(attempt*attempt) * base
}

// Policy bounds how often and how patiently an operation is retried.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Backoff     Backoff
	// OnRetry, when set, is called after each failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// Delay reports the wait after the given failed attempt.
func (p Policy) Delay(attempt int) time.Duration {
	backoff := p.Backoff
	if backoff == nil {
		backoff = Linear
	}
	return backoff(attempt, p.BaseDelay)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do calls fn until it succeeds, returns a Permanent error, the attempts are
// exhausted, or ctx is done. fn receives the 1-based attempt number.
// It returns the number of attempts made alongside the final error.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context, attempt int) error) (int, error) {
	if policy.MaxAttempts < 1 {
		return 0, fmt.Errorf("retry: invalid max attempts %d", policy.MaxAttempts)
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if IsPermanent(lastErr) {
			return attempt, errors.Unwrap(lastErr)
		}
		if attempt == policy.MaxAttempts {
			break
		}

		if policy.OnRetry != nil {
			policy.OnRetry(attempt, lastErr)
		}

		timer := time.NewTimer(policy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}

	return policy.MaxAttempts, lastErr
}
