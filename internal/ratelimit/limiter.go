// Package ratelimit implements the gateway's sliding-window rate limiter.
// Neither of the retrieved pack's rate-limiting libraries fit the gateway's
// contract: golang.org/x/time/rate (used by the teacher's
// internal/gateway/middleware.go) is a token bucket, which smooths bursts
// rather than counting exact arrivals in a trailing window; and
// github.com/ulule/limiter/v3 (used by internal/api/middleware/security.go)
// implements GCRA, which likewise approximates a window rather than
// recording and pruning individual timestamps. The gateway's contract is an
// exact "prune then count then compare" sequence with a literal
// Retry-After: <window_seconds> response, so this package hand-rolls it,
// keeping the teacher's map-behind-a-mutex shape from middleware.go.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	hits []time.Time
}

// Limiter is one sliding window per client key, held in memory only.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	maxRequests int
	window      time.Duration
}

// New constructs a Limiter allowing at most maxRequests arrivals per window.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		buckets:     make(map[string]*bucket),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Check records an arrival at now for key and reports whether it is allowed.
// On rejection, retryAfter is always the configured window, per spec: the
// caller is told to wait out the whole window rather than the shorter time
// until the oldest recorded hit expires.
func (l *Limiter) Check(key string, now time.Time) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}

	cutoff := now.Add(-l.window)
	b.hits = pruneBefore(b.hits, cutoff)

	if len(b.hits) >= l.maxRequests {
		return false, l.window
	}

	b.hits = append(b.hits, now)
	return true, 0
}

// pruneBefore drops every timestamp at or before cutoff, keeping the
// underlying slice's backing array (hits are appended in increasing order so
// the survivors are always a suffix).
func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0], hits[i:]...)
}

// Evict removes buckets with no recorded hits still inside the window as of
// now. It is run periodically by a background goroutine (see RunEviction) to
// bound memory by active-key cardinality rather than lifetime key count.
func (l *Limiter) Evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	for key, b := range l.buckets {
		b.hits = pruneBefore(b.hits, cutoff)
		if len(b.hits) == 0 {
			delete(l.buckets, key)
		}
	}
}
