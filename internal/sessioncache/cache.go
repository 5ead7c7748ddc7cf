package sessioncache

import (
	"context"
	"sync"
	"time"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

// Cache holds the last contextual message of each user's session. Entries
// expire with the session; a new non-cached selection overwrites them.
type Cache interface {
	Get(ctx context.Context, userID string) (models.CachedMessage, bool, error)
	Put(ctx context.Context, userID string, entry models.CachedMessage) error
	Clear(ctx context.Context, userID string) error
}

type memoryEntry struct {
	message   models.CachedMessage
	expiresAt time.Time
}

// MemoryCache is the in-process Cache used without Redis.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, userID string) (models.CachedMessage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok {
		return models.CachedMessage{}, false, nil
	}
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		delete(c.entries, userID)
		return models.CachedMessage{}, false, nil
	}
	return entry.message, true, nil
}

func (c *MemoryCache) Put(_ context.Context, userID string, message models.CachedMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryEntry{message: message, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}
