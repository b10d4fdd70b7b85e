package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter controls how frequently a caller may perform an action.
type RateLimiter interface {
	Allow(key string) bool
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter keeps one token bucket per key, typically a client IP.
// Stale buckets are swept out periodically as a side effect of Allow.
type keyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	calls   int
	now     func() time.Time
}

// Allow calls between expiry sweeps.
const sweepEvery = 64

// NewIPRateLimiter constructs a per-key limiter allowing up to requests
// events per window, with extra burst capacity. Idle keys are forgotten
// after ttl.
func NewIPRateLimiter(requests int, window time.Duration, burst int, ttl time.Duration) RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &keyedLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (l *keyedLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	l.calls++
	if l.calls >= sweepEvery {
		l.calls = 0
		for k, v := range l.buckets {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.buckets, k)
			}
		}
	}
	l.mu.Unlock()

	return b.lim.Allow()
}
