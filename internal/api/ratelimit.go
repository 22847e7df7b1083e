package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter keeps the client within a request budget per window and
// spaces consecutive requests by a minimum interval.
type RateLimiter struct {
	mu sync.Mutex

	window   time.Duration
	limit    int
	usage    int
	resetsAt time.Time

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// A limit <= 0 disables the window budget.
func NewRateLimiter(limit int, window, minInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		window:      window,
		limit:       limit,
		resetsAt:    time.Now().Add(window),
		minInterval: minInterval,
	}
}

// Wait blocks until a request can be made without exceeding the budget
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if now.After(r.resetsAt) {
		r.usage = 0
		r.resetsAt = now.Add(r.window)
	}

	if r.limit > 0 && r.usage >= r.limit {
		if err := r.sleep(ctx, time.Until(r.resetsAt)); err != nil {
			return err
		}
		r.usage = 0
		r.resetsAt = time.Now().Add(r.window)
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.usage++
	r.lastRequest = time.Now()

	return nil
}

// sleep waits without holding the lock; it is re-acquired before returning
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()

	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders adopts the server's view of the budget when it sends one.
// Recognised: X-RateLimit-Limit and X-RateLimit-Remaining.
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit, err := strconv.Atoi(h.Get("X-RateLimit-Limit")); err == nil && limit > 0 {
		r.limit = limit
	}
	if remaining, err := strconv.Atoi(h.Get("X-RateLimit-Remaining")); err == nil && r.limit > 0 {
		r.usage = r.limit - remaining
		if r.usage < 0 {
			r.usage = 0
		}
	}
}

// Status returns the requests left in the current window, -1 when unlimited
func (r *RateLimiter) Status() (remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit <= 0 {
		return -1
	}
	return r.limit - r.usage
}
