package infra

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a token bucket limiter pacing outbound API
// calls. Thread-safe. It only delays requests, it never rejects them,
// so wrapping a call does not change its semantics.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing bursts of maxRequests and
// a sustained rate of perSecond requests per second.
func NewRateLimiter(maxRequests int, perSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     float64(maxRequests),
		maxTokens:  float64(maxRequests),
		refillRate: perSecond,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()

		wait := time.Duration(float64(time.Second) / r.refillRate)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// TryAcquire attempts to take a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// refill adds tokens based on elapsed time. Caller holds the mutex.
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.tokens += elapsed * r.refillRate

	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}

	r.lastRefill = now
}

// Binance futures allows far more than this; conservative limits keep
// a misbehaving caller well away from an IP ban.
var (
	binanceOrderLimiter   *RateLimiter
	binanceAccountLimiter *RateLimiter
	rateLimiterOnce       sync.Once
)

// OrderLimiter returns the shared limiter for order endpoints.
func OrderLimiter() *RateLimiter {
	rateLimiterOnce.Do(initLimiters)
	return binanceOrderLimiter
}

// AccountLimiter returns the shared limiter for account and position
// endpoints.
func AccountLimiter() *RateLimiter {
	rateLimiterOnce.Do(initLimiters)
	return binanceAccountLimiter
}

func initLimiters() {
	binanceOrderLimiter = NewRateLimiter(5, 10)   // 10 req/s, burst 5
	binanceAccountLimiter = NewRateLimiter(5, 10) // 10 req/s, burst 5
}
