package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of one counted call. Remaining and ResetAt
// are populated whether or not the call was allowed.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window counter keyed by caller-chosen strings
// (typically "<action>:<clientIP>"). State lives in process memory only:
// it resets on restart and is not shared across instances, which is fine
// for a single-instance deployment.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func New() *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check counts one call against key. If the key has no live window a
// fresh one starts with count 1; otherwise the count increments and the
// call is allowed iff count <= max. Increment-and-compare happens under
// one lock so concurrent requests cannot undercount.
func (l *Limiter) Check(key string, window time.Duration, max int) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		resetAt := now.Add(window)
		l.entries[key] = &entry{count: 1, resetAt: resetAt}
		return Result{Allowed: true, Remaining: max - 1, ResetAt: resetAt}
	}

	e.count++
	remaining := max - e.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   e.count <= max,
		Remaining: remaining,
		ResetAt:   e.resetAt,
	}
}
