package coda

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate throttles below Coda's documented read limit
	// (roughly 10 requests per 6 seconds per token).
	ProactiveRate = 1.5

	// ProactiveBurst allows short bursts during pagination.
	ProactiveBurst = 3

	// HeaderRetryAfter is the back-off header on 429 responses.
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter combines proactive throttling with reactive back-off
// from 429 responses.
type RateLimiter struct {
	mu         sync.Mutex
	bucket     *rate.Limiter
	retryUntil time.Time
}

// NewRateLimiter creates a rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
	}
}

// Wait blocks until it is safe to make a request, honouring both the
// token bucket and any server-requested back-off.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.retryUntil
	r.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.bucket.Wait(ctx)
}

// UpdateFromResponse records a Retry-After back-off when present.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	delay := 5 * time.Second
	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			delay = time.Duration(secs) * time.Second
		}
	}

	r.mu.Lock()
	r.retryUntil = time.Now().Add(delay)
	r.mu.Unlock()
}
