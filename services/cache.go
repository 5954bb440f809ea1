package services

import (
	"sync"
	"time"
)

// ExpiringCache is a small key/value cache with per-entry expiry and
// synchronous invalidation. The season sweep deletes entries explicitly
// instead of waiting for the TTL, so readers never serve a season that was
// just deactivated.
type ExpiringCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func NewExpiringCache() *ExpiringCache {
	return &ExpiringCache{entries: make(map[string]cacheEntry)}
}

func (c *ExpiringCache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *ExpiringCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *ExpiringCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
