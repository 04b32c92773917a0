// Package cache provides a small typed wrapper over an in-memory TTL cache.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/monkeython/multipla/internal/log"
)

const DefaultExpiration = 1 * time.Minute
const DefaultCleanupInterval = 5 * time.Minute

// Memory is an in-memory TTL cache for values of type V.
type Memory[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewMemory initializes an in-memory cache. useCase names the cache in logs.
func NewMemory[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *Memory[V] {
	return &Memory[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item from the cache by its key.
func (c *Memory[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value",
			"useCase", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "useCase", c.useCase, "key", key)
	return v, true
}

// Set stores a value under key with the given TTL.
func (c *Memory[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes values by key.
func (c *Memory[V]) Delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Flush drops every cached value.
func (c *Memory[V]) Flush(ctx context.Context) {
	c.cache.Flush()
	log.Debug(log.CatCache, "cache flushed", "useCase", c.useCase)
}
