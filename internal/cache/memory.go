package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// MemoryCache is an in-process Cache implementation. Suitable for single
// instance deployments; multi-pod setups should use RedisCache.
type MemoryCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry[T]
	done    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a memory cache with a background janitor that
// evicts expired entries at the given interval.
func NewMemoryCache[T any](cleanupInterval time.Duration) *MemoryCache[T] {
	c := &MemoryCache[T]{
		entries: make(map[string]memoryEntry[T]),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	}
	return c
}

func (c *MemoryCache[T]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.done:
			return
		}
	}
}

func (c *MemoryCache[T]) evictExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache[T]) Get(_ context.Context, key string) (T, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		var zero T
		return zero, ErrCacheMiss
	}
	return entry.value, nil
}

func (c *MemoryCache[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache[T]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryCache[T]) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *MemoryCache[T]) Health(_ context.Context) error {
	return nil
}
