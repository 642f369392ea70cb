package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/trip-market/internal/metrics"
)

// RateLimiter bounds the request rate of a Client with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
	nowFunc func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond requests with the
// given burst. A non-positive perSecond disables limiting.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	r := &RateLimiter{
		limiter: rate.NewLimiter(limit, max(burst, 1)),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until a request may proceed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	res := r.limiter.ReserveN(r.nowFunc(), 1)
	if !res.OK() {
		return fmt.Errorf("rate limiter wait: burst exceeded")
	}

	delay := res.DelayFrom(r.nowFunc())
	if delay <= 0 {
		return nil
	}

	metrics.APIRateLimitWaitsTotal.Inc()
	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		res.CancelAt(r.nowFunc())
		return fmt.Errorf("rate limiter wait: %w", ctx.Err())
	}
}

// Allow reports whether a request may proceed right now without waiting.
func (r *RateLimiter) Allow() bool {
	return r.limiter.AllowN(r.nowFunc(), 1)
}
