// Package ratelimit paces requests to remote drive APIs.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff is used when a throttled response carries no Retry-After header.
const DefaultBackoff = 60 * time.Second

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// Config holds rate limiting configuration for a remote API.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// Conservative defaults for the supported drive APIs.
var (
	// Graph stays well below SharePoint's per-app throttling thresholds.
	Graph = Config{RequestsPerSecond: 4.0, BurstSize: 8}

	// GoogleDrive allows 10/sec/user.
	GoogleDrive = Config{RequestsPerSecond: 8.0, BurstSize: 10}
)

// Limiter combines a token bucket with a server-imposed backoff window.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// New creates a limiter for the given configuration.
func New(cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5.0
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		now:     time.Now,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by Backoff.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	now := l.now()
	l.mu.Unlock()

	if now.Before(retryAt) {
		timer := time.NewTimer(retryAt.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// Backoff blocks further requests for d. A non-positive d uses DefaultBackoff.
func (l *Limiter) Backoff(d time.Duration) {
	if d <= 0 {
		d = DefaultBackoff
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	until := l.now().Add(d)
	if until.After(l.retryAt) {
		l.retryAt = until
	}
}

// BackoffFromResponse records a backoff for a throttled response.
// It returns true if the response was throttled.
func (l *Limiter) BackoffFromResponse(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return false
	}
	l.Backoff(RetryAfter(resp.Header))
	return true
}

// Allow reports whether a request can be made immediately.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	retryAt := l.retryAt
	now := l.now()
	l.mu.Unlock()

	if now.Before(retryAt) {
		return false
	}
	return l.limiter.Allow()
}

// RetryAt returns the end of the current backoff window.
func (l *Limiter) RetryAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.retryAt
}

// RetryAfter parses a Retry-After header in seconds. It returns zero when absent or invalid.
func RetryAfter(h http.Header) time.Duration {
	v := h.Get(HeaderRetryAfter)
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
