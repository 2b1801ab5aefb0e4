package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client), mr
}

func TestNewRedisStoreInvalidURL(t *testing.T) {
	_, err := NewRedisStore("://invalid", "")
	assert.Error(t, err)
}

func TestRedisStoreGetSet(t *testing.T) {
	s, _ := newMiniredisStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", "v"))
	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestRedisStoreSetExExpiry(t *testing.T) {
	s, mr := newMiniredisStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetEx(ctx, "k", "v", 10*time.Second))
	mr.FastForward(11 * time.Second)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreSetNXAtomic(t *testing.T) {
	s, mr := newMiniredisStore(t)
	ctx := context.Background()

	set, err := s.SetNX(ctx, "k", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, set)

	set, err = s.SetNX(ctx, "k", "2", time.Minute)
	require.NoError(t, err)
	assert.False(t, set)

	mr.FastForward(2 * time.Minute)
	set, err = s.SetNX(ctx, "k", "3", time.Minute)
	require.NoError(t, err)
	assert.True(t, set)
}

func TestRedisStoreIncrAndExpire(t *testing.T) {
	s, mr := newMiniredisStore(t)
	ctx := context.Background()

	n, err := s.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Expire(ctx, "counter", 30*time.Second))

	n, err = s.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mr.FastForward(31 * time.Second)
	n, err = s.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "counter recreated after window expired")
}

func TestRedisStoreExistsDel(t *testing.T) {
	s, _ := newMiniredisStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v"))
	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Del(ctx, "k"))
	ok, err = s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStoreWithClient(client)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, s.Set(ctx, "k", "v"))
	_, err := s.Get(ctx, "k")
	assert.Error(t, err)
	_, err = s.SetNX(ctx, "k", "v", time.Second)
	assert.Error(t, err)
	_, err = s.Incr(ctx, "k")
	assert.Error(t, err)
}
