package cache

import (
	"container/list"
	"sync"
	"time"
)

// Policy selects how a full cache makes room.
type Policy int

const (
	// EvictLeastRecentlyAccessed drops the entry whose last read or write is oldest.
	EvictLeastRecentlyAccessed Policy = iota
	// EvictExpiredThenOldestInserted sweeps expired entries, then drops the oldest insert.
	EvictExpiredThenOldestInserted
)

func (p Policy) String() string {
	switch p {
	case EvictExpiredThenOldestInserted:
		return "expired_then_oldest_inserted"
	default:
		return "least_recently_accessed"
	}
}

// Options configures a Cache. Zero TTL means entries never expire unless a
// per-entry TTL is given; zero Capacity means unbounded.
type Options struct {
	TTL      time.Duration
	Capacity int
	Policy   Policy
	Clock    func() time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Size        int
}

type entry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
	accessedAt time.Time
	expiresAt  time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Cache is a bounded TTL map. The list keeps entries ordered by the policy's
// recency notion with the most recent at the front.
type Cache[V any] struct {
	mu      sync.Mutex
	opts    Options
	entries map[string]*list.Element
	order   *list.List
	stats   Stats
}

// New constructs a cache.
func New[V any](opts Options) *Cache[V] {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Cache[V]{
		opts:    opts,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	now := c.opts.Clock()
	e := elem.Value.(*entry[V])
	if e.expired(now) {
		c.removeElement(elem)
		c.stats.Expirations++
		c.stats.Misses++
		return zero, false
	}
	e.accessedAt = now
	if c.opts.Policy == EvictLeastRecentlyAccessed {
		c.order.MoveToFront(elem)
	}
	c.stats.Hits++
	return e.value, true
}

// Set stores value under key with the cache-wide TTL.
func (c *Cache[V]) Set(key string, value V) {
	if c == nil {
		return
	}
	c.SetWithTTL(key, value, c.opts.TTL)
}

// SetWithTTL stores value under key with a specific lifetime. Overwriting a
// key counts as a fresh insert.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Clock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry[V])
		e.value = value
		e.insertedAt = now
		e.accessedAt = now
		e.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	e := &entry[V]{key: key, value: value, insertedAt: now, accessedAt: now, expiresAt: expiresAt}
	c.entries[key] = c.order.PushFront(e)
	c.enforceCapacity(now)
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem)
	}
}

// Len returns the number of stored entries, expired ones included until they
// are swept or read.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := c.stats
	snapshot.Size = len(c.entries)
	return snapshot
}

// Policy reports the eviction policy.
func (c *Cache[V]) Policy() Policy {
	if c == nil {
		return EvictLeastRecentlyAccessed
	}
	return c.opts.Policy
}

func (c *Cache[V]) enforceCapacity(now time.Time) {
	if c.opts.Capacity <= 0 || len(c.entries) <= c.opts.Capacity {
		return
	}
	if c.opts.Policy == EvictExpiredThenOldestInserted {
		for elem := c.order.Back(); elem != nil; {
			prev := elem.Prev()
			if elem.Value.(*entry[V]).expired(now) {
				c.removeElement(elem)
				c.stats.Expirations++
			}
			elem = prev
		}
	}
	for len(c.entries) > c.opts.Capacity {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.removeElement(oldest)
		c.stats.Evictions++
	}
}

func (c *Cache[V]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[V])
	delete(c.entries, e.key)
	c.order.Remove(elem)
}
