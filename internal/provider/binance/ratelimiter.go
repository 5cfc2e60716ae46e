package binance

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces requests at least delayPerReq apart.
type RateLimiter struct {
	mu          sync.Mutex
	lastRequest time.Time
	delayPerReq time.Duration
}

// NewRateLimiter creates an in-memory limiter. A non-positive delay disables waiting.
func NewRateLimiter(delay time.Duration) *RateLimiter {
	return &RateLimiter{delayPerReq: delay}
}

// Wait blocks until the next request may be sent or ctx is done.
// The slot is reserved before sleeping, so concurrent callers queue up.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	now := time.Now()
	next := r.lastRequest.Add(r.delayPerReq)
	if r.lastRequest.IsZero() || r.delayPerReq <= 0 || !next.After(now) {
		r.lastRequest = now
		r.mu.Unlock()
		return nil
	}
	r.lastRequest = next
	r.mu.Unlock()

	timer := time.NewTimer(next.Sub(now))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
