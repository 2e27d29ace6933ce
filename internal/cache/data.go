package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Operation classes with their own lifetimes.
const (
	ClassPopularity = "popularity"
	ClassRanking    = "ranking"
	ClassSearch     = "search"
	ClassMetadata   = "metadata"
)

// NewDecisionCache returns a least-recently-accessed cache for routing decisions.
func NewDecisionCache[V any](ttl time.Duration, capacity int, clock func() time.Time) *Cache[V] {
	return New[V](Options{TTL: ttl, Capacity: capacity, Policy: EvictLeastRecentlyAccessed, Clock: clock})
}

// DataCache caches store results keyed by operation and arguments. Concurrent
// loads of the same key share one call.
type DataCache struct {
	entries    *Cache[any]
	ttls       map[string]time.Duration
	defaultTTL time.Duration
	group      singleflight.Group
}

// NewDataCache builds a data cache. ttls is keyed by operation class; an
// operation "popularity.total" belongs to class "popularity".
func NewDataCache(capacity int, ttls map[string]time.Duration, clock func() time.Time) *DataCache {
	copied := make(map[string]time.Duration, len(ttls))
	var longest time.Duration
	for class, ttl := range ttls {
		copied[class] = ttl
		if ttl > longest {
			longest = ttl
		}
	}
	return &DataCache{
		entries:    New[any](Options{TTL: longest, Capacity: capacity, Policy: EvictExpiredThenOldestInserted, Clock: clock}),
		ttls:       copied,
		defaultTTL: longest,
	}
}

// TTLFor returns the lifetime applied to an operation.
func (d *DataCache) TTLFor(operation string) time.Duration {
	class, _, _ := strings.Cut(operation, ".")
	if ttl, ok := d.ttls[class]; ok {
		return ttl
	}
	return d.defaultTTL
}

// Stats returns the underlying counters.
func (d *DataCache) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	return d.entries.Stats()
}

// GetOrLoad returns the cached value for the operation and arguments or calls
// load once, caching a successful result. Errors are returned to every waiter
// and never cached. A waiter whose ctx ends stops waiting without cancelling
// the load for the others. A nil DataCache calls load directly.
func GetOrLoad[V any](ctx context.Context, d *DataCache, operation string, args []any, kwargs map[string]any, load func(context.Context) (V, error)) (V, error) {
	var zero V
	if d == nil {
		return load(ctx)
	}
	key, err := DataKey(operation, args, kwargs)
	if err != nil {
		return zero, err
	}
	if cached, ok := d.entries.Get(key); ok {
		if value, ok := cached.(V); ok {
			return value, nil
		}
	}

	// The shared load outlives any single waiter; each caller still honours
	// its own cancellation.
	shared := context.WithoutCancel(ctx)
	ch := d.group.DoChan(key, func() (any, error) {
		value, err := load(shared)
		if err != nil {
			return nil, err
		}
		d.entries.SetWithTTL(key, value, d.TTLFor(operation))
		return value, nil
	})
	var result any
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		result = res.Val
	}
	if result == nil {
		return zero, nil
	}
	value, ok := result.(V)
	if !ok {
		return zero, fmt.Errorf("cache %s: unexpected value type %T", operation, result)
	}
	return value, nil
}
