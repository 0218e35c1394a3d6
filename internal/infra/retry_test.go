package infra

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("503 Service Unavailable")
var errPermanent = errors.New("insufficient balance")

func noSleep(t *testing.T, delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	t.Helper()
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	var delays []time.Duration
	policy := Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second}.WithSleeper(noSleep(t, &delays))

	attempts := 0
	out, err := Retry(context.Background(), policy,
		func(err error) bool { return errors.Is(err, errTransient) },
		func(context.Context) (string, error) {
			attempts++
			if attempts < 3 {
				return "", errTransient
			}
			return "FILLED", nil
		})

	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if out != "FILLED" {
		t.Errorf("Retry() = %q, want FILLED", out)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	// Linear backoff: base, then 2x base.
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetry_PermanentErrorStopsImmediately(t *testing.T) {
	var delays []time.Duration
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Second}.WithSleeper(noSleep(t, &delays))

	attempts := 0
	_, err := Retry(context.Background(), policy,
		func(err error) bool { return errors.Is(err, errTransient) },
		func(context.Context) (int, error) {
			attempts++
			return 0, errPermanent
		})

	if !errors.Is(err, errPermanent) {
		t.Errorf("Retry() error = %v, want %v", err, errPermanent)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(delays) != 0 {
		t.Errorf("slept %v times, want none", delays)
	}
}

func TestRetry_ExhaustionReturnsLastError(t *testing.T) {
	var delays []time.Duration
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Second}.WithSleeper(noSleep(t, &delays))

	attempts := 0
	_, err := Retry(context.Background(), policy,
		func(error) bool { return true },
		func(context.Context) (int, error) {
			attempts++
			return 0, errTransient
		})

	if !errors.Is(err, errTransient) {
		t.Errorf("Retry() error = %v, want last error %v", err, errTransient)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_NeverRerunsSuccess(t *testing.T) {
	policy := DefaultOrderPolicy()
	attempts := 0
	out, err := Retry(context.Background(), policy,
		func(error) bool { return true },
		func(context.Context) (int, error) {
			attempts++
			return 42, nil
		})
	if err != nil || out != 42 || attempts != 1 {
		t.Errorf("Retry() = (%d, %v) in %d attempts, want (42, nil) in 1", out, err, attempts)
	}
}

func TestRetry_ZeroAttemptsFallsBackToUnknown(t *testing.T) {
	policy := Policy{MaxAttempts: 0, BaseDelay: time.Second}
	_, err := Retry(context.Background(), policy,
		func(error) bool { return true },
		func(context.Context) (int, error) { return 0, nil })
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("Retry() error = %v, want ErrUnknown", err)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Second}.WithSleeper(
		func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		})

	_, err := Retry(ctx, policy,
		func(error) bool { return true },
		func(context.Context) (int, error) { return 0, errTransient })

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}
