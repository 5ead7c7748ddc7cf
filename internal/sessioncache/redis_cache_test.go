package sessioncache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisCache(rdb, ttl)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, cache := newRedisCache(t, time.Hour)
	written := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "u1", models.CachedMessage{
		Value:     "Glad you stopped by.",
		Source:    models.SourceSessionSummary,
		WrittenAt: written,
	}))
	assert.Equal(t, time.Hour, mr.TTL("session:message:u1"))

	entry, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Glad you stopped by.", entry.Value)
	assert.Equal(t, models.SourceSessionSummary, entry.Source)
	assert.True(t, written.Equal(entry.WrittenAt))

	require.NoError(t, cache.Put(ctx, "u1", models.CachedMessage{Value: "A new day.", Source: models.SourceDaily, WrittenAt: written}))
	entry, _, err = cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "A new day.", entry.Value)
	assert.Equal(t, models.SourceDaily, entry.Source)

	require.NoError(t, cache.Clear(ctx, "u1"))
	_, ok, err = cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheRejectsCorruptEntry(t *testing.T) {
	mr, cache := newRedisCache(t, time.Hour)
	require.NoError(t, mr.Set("session:message:u1", "not json"))

	_, ok, err := cache.Get(context.Background(), "u1")
	assert.Error(t, err)
	assert.False(t, ok)
}
