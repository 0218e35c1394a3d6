package infra

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrUnknown is the defensive fallback when the retry loop exits
// without ever recording an error. It is not expected in practice.
var ErrUnknown = errors.New("unknown error occurred")

// Policy configures the retry executor.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the backoff unit. The wait after attempt n is
	// BaseDelay * n (linear backoff).
	BaseDelay time.Duration

	// sleep is injectable for tests; nil means ctx-aware time.After.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultOrderPolicy is the retry policy applied to order placement.
func DefaultOrderPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// WithSleeper returns a copy of the policy using the given sleep
// function between attempts.
func (p Policy) WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Policy {
	p.sleep = sleep
	return p
}

func (p Policy) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Retry runs op up to p.MaxAttempts times, sleeping BaseDelay * attempt
// between attempts. Errors for which retryable returns false propagate
// immediately; once all attempts fail the last error is returned. A
// succeeded op is never re-run.
func Retry[T any](ctx context.Context, p Policy, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.BaseDelay * time.Duration(attempt)
		slog.Warn("retrying after transient failure",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)
		if werr := p.wait(ctx, delay); werr != nil {
			return zero, werr
		}
	}

	if lastErr == nil {
		return zero, ErrUnknown
	}
	return zero, lastErr
}
