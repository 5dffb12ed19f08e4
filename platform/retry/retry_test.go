package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	var retried []int
	policy := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		OnRetry:     func(attempt int, _ error) { retried = append(retried, attempt) },
	}

	attempts, err := Do(context.Background(), policy, func(_ context.Context, attempt int) error {
		if attempt < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Fatalf("unexpected retry callbacks %v", retried)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0

	attempts, err := Do(context.Background(), Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}, func(context.Context, int) error {
		calls++
		return Permanent(sentinel)
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if IsPermanent(err) {
		t.Fatalf("returned error should be unwrapped")
	}
	if calls != 1 || attempts != 1 {
		t.Fatalf("expected a single call, got calls=%d attempts=%d", calls, attempts)
	}
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	last := errors.New("still failing")

	attempts, err := Do(context.Background(), Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}, func(context.Context, int) error {
		return last
	})

	if !errors.Is(err, last) || attempts != 2 {
		t.Fatalf("expected last error after 2 attempts, got %v after %d", err, attempts)
	}
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, Policy{MaxAttempts: 3, BaseDelay: time.Hour}, func(context.Context, int) error {
		t.Fatalf("fn must not run on a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDoRejectsInvalidPolicy(t *testing.T) {
	if _, err := Do(context.Background(), Policy{}, func(context.Context, int) error { return nil }); err == nil {
		t.Fatalf("expected error for zero attempts")
	}
}

func TestBackoffSchedules(t *testing.T) {
	base := time.Second
	if got := (Policy{BaseDelay: base}).Delay(2); got != 2*time.Second {
		t.Errorf("linear: expected 2s, got %s", got)
	}
	if got := (Policy{BaseDelay: base, Backoff: Quadratic}).Delay(3); got != 9*time.Second {
		t.Errorf("quadratic: expected 9s, got %s", got)
	}
}
