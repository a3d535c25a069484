// Package ratelimit provides fixed-window request counters keyed by
// client identifier. The memory backend covers a single instance; the
// redis backend shares the window across replicas.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a request from the given client key may
// proceed within the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
