package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// UploadRate is the steady upload throttle. Content writes count against
	// GitHub's secondary limits, so stay well under one per second.
	UploadRate = 0.8

	// DefaultQuota is the authenticated hourly request budget.
	DefaultQuota = 5000

	// ReserveRequests is the quota kept back; below it uploads wait for reset.
	ReserveRequests = 50

	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
)

// Quota is the last request budget GitHub reported.
type Quota struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// exhausted reports whether calls should pause until Reset.
func (q Quota) exhausted(now time.Time) bool {
	return q.Remaining < ReserveRequests && now.Before(q.Reset)
}

// RateLimiter paces calls with a token bucket and pauses when the reported
// quota runs low.
type RateLimiter struct {
	bucket *rate.Limiter

	mu    sync.Mutex
	quota Quota
}

// NewRateLimiter creates a limiter paced at UploadRate.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithRate(UploadRate)
}

// NewRateLimiterWithRate creates a limiter paced at perSecond.
func NewRateLimiterWithRate(perSecond float64) *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
		quota:  Quota{Limit: DefaultQuota, Remaining: DefaultQuota},
	}
}

// Wait blocks until the next call may go out or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	q := r.Quota()
	if !q.exhausted(time.Now()) {
		return nil
	}

	timer := time.NewTimer(time.Until(q.Reset))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// UpdateFromResponse records the quota headers of resp.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := headerInt(resp.Header, HeaderRateLimit); ok {
		r.quota.Limit = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRateRemaining); ok {
		r.quota.Remaining = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRateReset); ok {
		r.quota.Reset = time.Unix(v, 0)
	}
}

// Quota returns a snapshot of the reported budget.
func (r *RateLimiter) Quota() Quota {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}

func headerInt(h http.Header, name string) (int64, bool) {
	raw := h.Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	return v, err == nil
}
