package infra

import (
	"log/slog"
	"sync"
	"time"
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreaker isolates a repeatedly failing dependency. The stream
// watcher uses it to stop hammering the exchange websocket endpoint
// when dials keep failing: after FailureThreshold consecutive failures
// it rejects attempts outright, then probes again once Timeout has
// passed, closing after SuccessThreshold probe successes. Thread-safe.
type CircuitBreaker struct {
	mu sync.Mutex

	name         string
	state        breakerState
	failureCount int
	successCount int
	lastFailure  time.Time

	failureThreshold int
	successThreshold int
	timeout          time.Duration
}

// CircuitBreakerConfig holds the breaker's thresholds; Name only labels
// log lines.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// NewCircuitBreaker creates a breaker in the closed (passing) state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		name:             cfg.Name,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		timeout:          cfg.Timeout,
	}
}

// Allow reports whether an attempt may proceed. While open, the first
// call after the timeout flips the breaker to half-open and lets one
// probe through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != breakerOpen {
		return true
	}
	if time.Since(cb.lastFailure) <= cb.timeout {
		return false
	}

	cb.state = breakerHalfOpen
	cb.successCount = 0
	slog.Info("circuit breaker half-open, probing", slog.String("name", cb.name))
	return true
}

// RecordSuccess records a successful attempt.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case breakerClosed:
		cb.failureCount = 0
	case breakerHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = breakerClosed
			cb.failureCount = 0
			cb.successCount = 0
			slog.Info("circuit breaker closed, recovered", slog.String("name", cb.name))
		}
	}
}

// RecordFailure records a failed attempt. A failure during a half-open
// probe reopens the breaker immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = time.Now()

	switch cb.state {
	case breakerClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.state = breakerOpen
			slog.Warn("circuit breaker open",
				slog.String("name", cb.name),
				slog.Int("failures", cb.failureCount))
		}
	case breakerHalfOpen:
		cb.state = breakerOpen
		cb.successCount = 0
		slog.Warn("circuit breaker reopened, probe failed", slog.String("name", cb.name))
	}
}
