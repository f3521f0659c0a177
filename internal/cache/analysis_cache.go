package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/yourusername/edgecast/internal/metrics"
)

// AnalysisCache memoizes results of an expensive upstream call for a fixed TTL.
// Values are stored as JSON so any Store can hold them.
type AnalysisCache[T any] struct {
	name      string
	store     Store
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewAnalysisCache creates a cache named name over store
func NewAnalysisCache[T any](name string, store Store, ttl time.Duration) *AnalysisCache[T] {
	return &AnalysisCache[T]{
		name:  name,
		store: store,
		ttl:   ttl,
	}
}

// Name returns the cache name used in keys and metrics
func (c *AnalysisCache[T]) Name() string {
	return c.name
}

// TTL returns the entry lifetime
func (c *AnalysisCache[T]) TTL() time.Duration {
	return c.ttl
}

func (c *AnalysisCache[T]) storeKey(key string) string {
	return c.name + ":" + key
}

// Get returns the cached value for key. A stored value that no longer decodes
// counts as a miss. Errors come only from the backend.
func (c *AnalysisCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	data, found, err := c.store.Get(ctx, c.storeKey(key))
	if err != nil {
		return zero, false, err
	}
	if !found {
		c.recordLookup(false)
		return zero, false, nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		c.recordLookup(false)
		return zero, false, nil
	}

	c.recordLookup(true)
	return value, true, nil
}

// Set stores value under key for the cache TTL
func (c *AnalysisCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s cache entry: %w", c.name, err)
	}
	return c.store.Set(ctx, c.storeKey(key), data, c.ttl)
}

// Invalidate removes key
func (c *AnalysisCache[T]) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.storeKey(key))
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// A failing load is not cached.
func (c *AnalysisCache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, found, err := c.Get(ctx, key); err != nil {
		var zero T
		return zero, err
	} else if found {
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		return value, err
	}
	return value, nil
}

// Stats returns cache statistics
func (c *AnalysisCache[T]) Stats() (hits, misses uint64, ratio float64) {
	hits = c.hitCount.Load()
	misses = c.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (c *AnalysisCache[T]) recordLookup(hit bool) {
	if hit {
		c.hitCount.Add(1)
	} else {
		c.missCount.Add(1)
	}
	metrics.RecordCacheLookup(c.name, hit)
	_, _, ratio := c.Stats()
	metrics.UpdateCacheHitRatio(c.name, ratio)
}
