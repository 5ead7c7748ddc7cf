package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config defines a fixed-window rule: at most Requests per Window.
type Config struct {
	Requests int
	Window   time.Duration
}

// DefaultConfig returns the limit applied to generator-backed endpoints.
func DefaultConfig() Config {
	return Config{
		Requests: 20,
		Window:   time.Minute,
	}
}

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests with INCR and starts the window with EXPIRE on
// the first hit, so every instance shares the same counters.
type RedisLimiter struct {
	rdb    *redis.Client
	config Config
}

func NewRedisLimiter(rdb *redis.Client, config Config) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, config: config}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if rl == nil || rl.rdb == nil {
		return false, fmt.Errorf("Redis client not available")
	}

	redisKey := fmt.Sprintf("rate:%s", key)

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record request: %w", err)
	}

	return incr.Val() <= int64(rl.config.Requests), nil
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the single-instance Limiter used without Redis.
type MemoryLimiter struct {
	mu      sync.Mutex
	config  Config
	now     func() time.Time
	windows map[string]*window
}

func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  config,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (ml *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	w, ok := ml.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(ml.config.Window)}
		ml.windows[key] = w
	}
	w.count++
	return w.count <= ml.config.Requests, nil
}
