// Package kv provides the idempotency store: a small key-value surface with
// TTLs, counters and advisory locks, pluggable against an in-memory map, a
// Redis server, or a relational table.
//
// Callers treat the store as best-effort: rate limiting and locking fail open
// when the backing service is unreachable. Nothing correctness-critical may
// depend on it.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is the key-value surface shared by all backends. All backends present
// identical semantics: SetEx sets a value with an expiry, Incr creates the key
// at 1 if absent, Expire is a no-op if the key is already gone.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX sets the key only if it does not exist, with a TTL, atomically
	// where the backend supports it. Returns whether the key was set.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
