package google

import (
	"context"
	"sync"
	"time"
)

// RateLimiter bounds request throughput with a fixed window: at most
// maxRequests may start inside any window; the first request after a
// window elapses opens a fresh one.
//
// A token bucket would smooth bursts instead of cutting them off at the
// window boundary, which is not how Google accounts per-second quota.
type RateLimiter struct {
	maxRequests int
	window      time.Duration

	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// NewRateLimiter creates a limiter allowing maxRequests per window.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		windowStart: time.Now(),
	}
}

// Wait blocks until the caller may proceed or the context is cancelled.
// The mutex is never held while sleeping, and a woken waiter re-checks
// the window because another goroutine may have taken the freed slot.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()

		if now.Sub(r.windowStart) >= r.window {
			r.windowStart = now
			r.count = 0
		}

		if r.count < r.maxRequests {
			r.count++
			r.mu.Unlock()
			return nil
		}

		remaining := r.window - now.Sub(r.windowStart)
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(remaining):
		}
	}
}
