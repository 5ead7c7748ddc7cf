package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps markers in Redis under nav:last_route:<user>, expiring
// with the session.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func routeKey(userID string) string {
	return fmt.Sprintf("nav:last_route:%s", userID)
}

// Swap uses SET ... GET so the read of the previous value and the write are a
// single atomic command.
func (s *RedisStore) Swap(ctx context.Context, userID, route string) (string, error) {
	if s == nil || s.rdb == nil {
		return "", fmt.Errorf("Redis client not available")
	}
	previous, err := s.rdb.SetArgs(ctx, routeKey(userID), route, redis.SetArgs{
		Get: true,
		TTL: s.ttl,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return previous, nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (string, bool, error) {
	if s == nil || s.rdb == nil {
		return "", false, fmt.Errorf("Redis client not available")
	}
	route, err := s.rdb.Get(ctx, routeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return route, true, nil
}
