package kv

import (
	"context"
	"time"
)

// Limiter is a fixed-window rate limiter over counter keys. Counters
// self-expire at the end of their window.
type Limiter struct {
	store Store
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow increments the counter for key and reports whether the post-increment
// count is within limit. The first increment of a window sets the expiry.
func (l *Limiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.store.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}
	return count <= limit, nil
}
