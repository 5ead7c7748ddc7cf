package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterWindow(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryLimiter(Config{Requests: 2, Window: time.Minute})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "summary:u1")
		assert.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := limiter.Allow(ctx, "summary:u1")
	assert.False(t, ok, "third request in the window is rejected")

	ok, _ = limiter.Allow(ctx, "summary:u2")
	assert.True(t, ok, "other keys have their own window")

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow(ctx, "summary:u1")
	assert.True(t, ok, "a new window starts after expiry")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 20, cfg.Requests)
	assert.Equal(t, time.Minute, cfg.Window)
}
