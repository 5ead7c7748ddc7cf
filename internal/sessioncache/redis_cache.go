package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// RedisCache stores entries as JSON under session:message:<user>.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func messageKey(userID string) string {
	return fmt.Sprintf("session:message:%s", userID)
}

func (c *RedisCache) Get(ctx context.Context, userID string) (models.CachedMessage, bool, error) {
	if c == nil || c.rdb == nil {
		return models.CachedMessage{}, false, fmt.Errorf("Redis client not available")
	}
	raw, err := c.rdb.Get(ctx, messageKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.CachedMessage{}, false, nil
	}
	if err != nil {
		return models.CachedMessage{}, false, err
	}
	var entry models.CachedMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.CachedMessage{}, false, fmt.Errorf("failed to decode cached message: %w", err)
	}
	return entry, true, nil
}

func (c *RedisCache) Put(ctx context.Context, userID string, entry models.CachedMessage) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("Redis client not available")
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cached message: %w", err)
	}
	return c.rdb.Set(ctx, messageKey(userID), raw, c.ttl).Err()
}

func (c *RedisCache) Clear(ctx context.Context, userID string) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("Redis client not available")
	}
	return c.rdb.Del(ctx, messageKey(userID)).Err()
}
