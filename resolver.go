package multipla

import (
	"context"
	"time"

	"github.com/monkeython/multipla/internal/cache"
)

// CachedResolver memoizes Resolve results for a fixed TTL. Lookups
// dominate registry mutation by orders of magnitude, so a short TTL keeps
// hot resolutions off the registry lock while bounding staleness after a
// re-rating. Call Invalidate after mutating the registry to drop stale
// results immediately.
type CachedResolver struct {
	registry *Multipla
	results  *cache.Memory[any]
	ttl      time.Duration
}

// NewCachedResolver wraps a registry with a resolve cache. A non-positive
// ttl falls back to the cache default (one minute).
func NewCachedResolver(registry *Multipla, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	return &CachedResolver{
		registry: registry,
		results:  cache.NewMemory[any]("resolve:"+registry.Label(), ttl, cache.DefaultCleanupInterval),
		ttl:      ttl,
	}
}

// Resolve is a read-through Multipla.Resolve: cached results are served
// until they expire. Errors are never cached.
func (r *CachedResolver) Resolve(ctx context.Context, name string) (any, error) {
	label := Canonicalize(name)
	if impl, found := r.results.Get(ctx, label); found {
		return impl, nil
	}

	impl, err := r.registry.Resolve(label)
	if err != nil {
		return nil, err
	}
	r.results.Set(ctx, label, impl, r.ttl)
	return impl, nil
}

// Invalidate drops every cached resolution.
func (r *CachedResolver) Invalidate(ctx context.Context) {
	r.results.Flush(ctx)
}
