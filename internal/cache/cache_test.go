package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestRoundTripAndExpiry(t *testing.T) {
	for _, policy := range []Policy{EvictLeastRecentlyAccessed, EvictExpiredThenOldestInserted} {
		t.Run(policy.String(), func(t *testing.T) {
			clock := newFakeClock()
			c := New[string](Options{TTL: 5 * time.Minute, Capacity: 10, Policy: policy, Clock: clock.Now})

			c.Set("k", "v")
			clock.Advance(5*time.Minute - time.Second)
			if got, ok := c.Get("k"); !ok || got != "v" {
				t.Fatalf("Get before ttl = %q, %v", got, ok)
			}

			clock.Advance(time.Second)
			if _, ok := c.Get("k"); ok {
				t.Fatal("entry returned at ttl expiry")
			}
			stats := c.Stats()
			if stats.Hits != 1 || stats.Misses != 1 || stats.Expirations != 1 || stats.Size != 0 {
				t.Fatalf("unexpected stats %+v", stats)
			}
		})
	}
}

func TestPerEntryTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[int](Options{TTL: time.Hour, Policy: EvictExpiredThenOldestInserted, Clock: clock.Now})
	c.SetWithTTL("short", 1, time.Minute)
	c.Set("long", 2)
	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("short"); ok {
		t.Fatal("short entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatal("long entry should still be present")
	}
}

func TestLeastRecentlyAccessedEviction(t *testing.T) {
	clock := newFakeClock()
	c := New[int](Options{TTL: time.Hour, Capacity: 3, Policy: EvictLeastRecentlyAccessed, Clock: clock.Now})
	for i, key := range []string{"a", "b", "c"} {
		c.Set(key, i)
		clock.Advance(time.Second)
	}
	// Touch a so b becomes the least recently accessed.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}
	clock.Advance(time.Second)

	c.Set("d", 3)
	if c.Len() != 3 {
		t.Fatalf("expected exactly one eviction, len=%d", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("expected %s to survive", key)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Fatalf("evictions = %d, want 1", got)
	}
}

func TestExpiredThenOldestInsertedEviction(t *testing.T) {
	clock := newFakeClock()
	c := New[int](Options{TTL: time.Hour, Capacity: 3, Policy: EvictExpiredThenOldestInserted, Clock: clock.Now})
	for i, key := range []string{"a", "b", "c"} {
		c.Set(key, i)
		clock.Advance(time.Second)
	}
	// Reads do not protect an entry under this policy.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}

	c.Set("d", 3)
	if c.Len() != 3 {
		t.Fatalf("expected exactly one eviction, len=%d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a is the oldest insert and should have been evicted")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Fatalf("evictions = %d, want 1", got)
	}
}

func TestExpiredEntriesSweptBeforeOldest(t *testing.T) {
	clock := newFakeClock()
	c := New[int](Options{TTL: time.Hour, Capacity: 3, Policy: EvictExpiredThenOldestInserted, Clock: clock.Now})
	c.Set("a", 1)
	c.SetWithTTL("b", 2, time.Minute)
	c.Set("c", 3)
	clock.Advance(2 * time.Minute)

	c.Set("d", 4)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive because b expired first")
	}
	stats := c.Stats()
	if stats.Evictions != 0 || stats.Expirations != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestOverwriteRefreshesEntry(t *testing.T) {
	clock := newFakeClock()
	c := New[int](Options{TTL: time.Minute, Capacity: 2, Policy: EvictExpiredThenOldestInserted, Clock: clock.Now})
	c.Set("a", 1)
	c.Set("b", 2)
	clock.Advance(30 * time.Second)
	c.Set("a", 10)
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should be the oldest insert after a was rewritten")
	}
	if got, ok := c.Get("a"); !ok || got != 10 {
		t.Fatalf("Get(a) = %d, %v", got, ok)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](Options{TTL: time.Minute, Capacity: 50, Policy: EvictLeastRecentlyAccessed})
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*31+i)%120)
				c.Set(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 50 {
		t.Fatalf("capacity exceeded: %d", c.Len())
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache[int]
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatal("nil cache returned a value")
	}
	c.SetWithTTL("b", 2, time.Minute)
	c.Delete("a")
	if c.Len() != 0 || c.Stats() != (Stats{}) {
		t.Fatal("nil cache should be empty")
	}
	if c.Policy() != EvictLeastRecentlyAccessed {
		t.Fatalf("nil cache policy = %v", c.Policy())
	}
}
