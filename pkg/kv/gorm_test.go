package kv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(&Entry{}))
	return NewGormStore(db)
}

func TestGormStoreGetSet(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", "v"))
	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	// Set overwrites.
	require.NoError(t, s.Set(ctx, "k", "v2"))
	val, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestGormStoreExpiredRowSweep(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.SetEx(ctx, "k", "v", 10*time.Second))
	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	now = now.Add(11 * time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// The expired row is gone entirely, so SetNX can take the key.
	set, err := s.SetNX(ctx, "k", "again", time.Minute)
	require.NoError(t, err)
	assert.True(t, set)
}

func TestGormStoreSetNX(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	set, err := s.SetNX(ctx, "k", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, set)

	set, err = s.SetNX(ctx, "k", "2", time.Minute)
	require.NoError(t, err)
	assert.False(t, set)

	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestGormStoreIncr(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	n, err := s.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestGormStoreIncrKeepsWindowExpiry(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Incr(ctx, "counter")
	require.NoError(t, err)
	require.NoError(t, s.Expire(ctx, "counter", 30*time.Second))

	// A second increment inside the window must not clear the expiry.
	_, err = s.Incr(ctx, "counter")
	require.NoError(t, err)

	now = now.Add(31 * time.Second)
	n, err := s.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormStoreExpireMissingKeyIsNoop(t *testing.T) {
	s := newGormStore(t)
	assert.NoError(t, s.Expire(context.Background(), "missing", time.Second))
}

func TestGormStoreDel(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Del(ctx, "k"))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Del(ctx, "k"))
}
