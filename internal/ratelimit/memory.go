package ratelimit

import (
	"context"
	"sync"
	"time"
)

// pruneThreshold bounds the counter map; expired windows are dropped
// once the map grows past it.
const pruneThreshold = 10000

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-wide fixed-window counter. The first
// request in a window resets the counter; requests beyond the limit are
// denied until the window ends. State lives for the life of the process
// and is not shared across instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates a limiter allowing limit requests per period
// for each key.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		if len(l.windows) > pruneThreshold {
			l.prune(now)
		}
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.period)}
		return Decision{Allowed: true, Remaining: l.limit - 1}, nil
	}

	if w.count < l.limit {
		w.count++
		return Decision{Allowed: true, Remaining: l.limit - w.count}, nil
	}

	retryAfter := w.resetAt.Sub(now)
	// Round up so clients never retry before the window ends.
	if rem := retryAfter % time.Second; rem != 0 {
		retryAfter += time.Second - rem
	}
	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}

func (l *MemoryLimiter) prune(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}
