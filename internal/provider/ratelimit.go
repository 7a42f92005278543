package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// minRate is the slowest accepted request rate, one call every ten seconds.
const minRate = 0.1

// ErrDailyLimitReached is returned when the daily API call limit has been exhausted.
var ErrDailyLimitReached = errors.New("daily API limit reached")

// RateLimiter enforces a minimum spacing between outbound calls and,
// optionally, a rolling 24-hour call quota. It is local to one process.
type RateLimiter struct {
	limiter     *rate.Limiter
	interval    time.Duration
	daily       atomic.Int64
	maxDaily    int64
	windowStart time.Time
	resetAt     time.Time
	mu          sync.Mutex
	nowFunc     func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithDailyLimit caps calls per rolling 24-hour window. Zero disables the cap.
func WithDailyLimit(n int64) RateLimiterOption {
	return func(r *RateLimiter) {
		r.maxDaily = n
	}
}

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond calls per second,
// spaced evenly: consecutive Wait calls return at least 1/perSecond apart.
// Rates below 0.1 are raised to 0.1.
func NewRateLimiter(perSecond float64, opts ...RateLimiterOption) *RateLimiter {
	perSecond = max(perSecond, minRate)
	interval := time.Duration(float64(time.Second) / perSecond)

	r := &RateLimiter{
		// Burst 1 turns the token bucket into a minimum-interval gate.
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	now := r.nowFunc()
	r.windowStart = now
	r.resetAt = now.Add(24 * time.Hour)
	return r
}

// Wait blocks until the minimum interval since the previous call has elapsed,
// or the context is canceled. Returns ErrDailyLimitReached if the daily
// quota is exhausted.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.checkDailyReset()

	if r.maxDaily > 0 && r.daily.Load() >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.daily.Load(), r.maxDaily)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.daily.Add(1)
	return nil
}

// Interval returns the enforced minimum spacing between calls.
func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}

// MaxDaily returns the configured daily cap, 0 when unlimited.
func (r *RateLimiter) MaxDaily() int64 {
	return r.maxDaily
}

// DailyCount returns the number of calls in the current 24-hour window.
func (r *RateLimiter) DailyCount() int64 {
	return r.daily.Load()
}

// Remaining returns the calls left in the current window, or -1 when no
// daily cap is configured.
func (r *RateLimiter) Remaining() int64 {
	if r.maxDaily <= 0 {
		return -1
	}
	return max(r.maxDaily-r.daily.Load(), 0)
}

// ResetAt returns the time when the current 24-hour window expires.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}

func (r *RateLimiter) checkDailyReset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.daily.Store(0)
		r.windowStart = now
		r.resetAt = now.Add(24 * time.Hour)
	}
}
