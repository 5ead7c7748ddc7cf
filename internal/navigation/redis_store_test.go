package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisStore(rdb, ttl)
}

func TestRedisStoreSwapReturnsPreviousRoute(t *testing.T) {
	ctx := context.Background()
	mr, store := newRedisStore(t, time.Hour)
	tracker := NewTracker(store)

	first, err := tracker.Track(ctx, "u1", "/chat")
	require.NoError(t, err)
	assert.Equal(t, "", first.PreviousRoute)
	assert.Equal(t, "/chat", first.Route)

	second, err := tracker.Track(ctx, "u1", "/profile")
	require.NoError(t, err)
	assert.Equal(t, "/chat", second.PreviousRoute)

	stored, err := mr.Get("nav:last_route:u1")
	require.NoError(t, err)
	assert.Equal(t, "/profile", stored)
	assert.Equal(t, time.Hour, mr.TTL("nav:last_route:u1"))
}

func TestRedisStoreGet(t *testing.T) {
	ctx := context.Background()
	mr, store := newRedisStore(t, time.Minute)

	_, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Swap(ctx, "u1", "/video-call")
	require.NoError(t, err)
	_, err = store.Swap(ctx, "u2", "/home")
	require.NoError(t, err)

	route, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/video-call", route)

	mr.FastForward(time.Minute)
	_, ok, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "marker expires with the session")
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, store := newRedisStore(t, time.Minute)
	mr.Close()

	_, err := store.Swap(context.Background(), "u1", "/chat")
	assert.Error(t, err)
	_, _, err = store.Get(context.Background(), "u1")
	assert.Error(t, err)
}
