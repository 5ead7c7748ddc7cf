package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterWindow(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	limiter := NewRedisLimiter(rdb, Config{Requests: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "chat:u1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, "chat:u1")
	require.NoError(t, err)
	assert.False(t, ok, "third request in the window is rejected")

	ok, err = limiter.Allow(ctx, "chat:u2")
	require.NoError(t, err)
	assert.True(t, ok, "other keys have their own window")

	mr.FastForward(30 * time.Second)
	_, err = limiter.Allow(ctx, "chat:u1")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL("rate:chat:u1"), "later hits do not extend the window")

	mr.FastForward(30 * time.Second)
	ok, err = limiter.Allow(ctx, "chat:u1")
	require.NoError(t, err)
	assert.True(t, ok, "a new window starts after expiry")
	assert.Equal(t, time.Minute, mr.TTL("rate:chat:u1"))
}

func TestRedisLimiterUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, err := NewRedisLimiter(rdb, DefaultConfig()).Allow(context.Background(), "chat:u1")
	assert.Error(t, err)
}
