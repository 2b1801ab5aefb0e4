package kv

import (
	"context"
	"time"
)

const lockPrefix = "lock:"

// Locker provides short-lived advisory locks. A lock is an optimization to
// avoid redundant paid work, never the authoritative dedup mechanism: the
// token record's uniqueness constraint is.
type Locker struct {
	store Store
}

// NewLocker creates a locker over the given store.
func NewLocker(store Store) *Locker {
	return &Locker{store: store}
}

// Acquire takes lock:<key> with the given TTL. Returns false without error
// when the lock is already held. Atomic on backends with a native
// set-if-absent primitive; see GormStore for the weaker fallback.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.store.SetNX(ctx, lockPrefix+key, "1", ttl)
}

// Release unconditionally deletes lock:<key>. An abandoned lock self-heals
// when its TTL elapses.
func (l *Locker) Release(ctx context.Context, key string) error {
	return l.store.Del(ctx, lockPrefix+key)
}
