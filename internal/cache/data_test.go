package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		ClassPopularity: 15 * time.Minute,
		ClassRanking:    30 * time.Minute,
		ClassSearch:     30 * time.Minute,
		ClassMetadata:   60 * time.Minute,
	}
}

func TestGetOrLoadCachesByOperationClass(t *testing.T) {
	clock := newFakeClock()
	d := NewDataCache(100, testTTLs(), clock.Now)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrLoad(ctx, d, "popularity.total", []any{"uid"}, nil, load)
		if err != nil || got != 42 {
			t.Fatalf("GetOrLoad = %d, %v", got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one load, got %d", calls)
	}

	clock.Advance(15 * time.Minute)
	if _, err := GetOrLoad(ctx, d, "popularity.total", []any{"uid"}, nil, load); err != nil {
		t.Fatalf("GetOrLoad returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after popularity ttl, got %d loads", calls)
	}

	if d.TTLFor("metadata.by_uids") != time.Hour || d.TTLFor("unknown") != time.Hour {
		t.Fatal("unexpected ttl lookup")
	}
	stats := d.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	d := NewDataCache(10, testTTLs(), nil)
	ctx := context.Background()
	boom := errors.New("store offline")
	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	}
	if _, err := GetOrLoad(ctx, d, "ranking.top", nil, nil, load); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	got, err := GetOrLoad(ctx, d, "ranking.top", nil, nil, load)
	if err != nil || got != "ok" {
		t.Fatalf("second GetOrLoad = %q, %v", got, err)
	}
}

func TestGetOrLoadCoalescesConcurrentLoads(t *testing.T) {
	d := NewDataCache(10, testTTLs(), nil)
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := GetOrLoad(context.Background(), d, "search.titles", []any{"dune"}, nil, load)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one coalesced load, got %d", calls.Load())
	}
	for i, v := range results {
		if v != 7 {
			t.Fatalf("result %d = %d", i, v)
		}
	}
}

func TestGetOrLoadWaiterCancelDoesNotFailOthers(t *testing.T) {
	d := NewDataCache(10, testTTLs(), nil)
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	load := func(ctx context.Context) (int, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 9, nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := GetOrLoad(firstCtx, d, "popularity.total", []any{"dark"}, nil, load)
		firstErr <- err
	}()
	<-started

	type outcome struct {
		value int
		err   error
	}
	second := make(chan outcome, 1)
	go func() {
		v, err := GetOrLoad(context.Background(), d, "popularity.total", []any{"dark"}, nil, load)
		second <- outcome{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first waiter err = %v", err)
	}
	close(release)
	got := <-second
	if got.err != nil || got.value != 9 {
		t.Fatalf("second waiter = %d, %v", got.value, got.err)
	}
}

func TestGetOrLoadNilCache(t *testing.T) {
	got, err := GetOrLoad(context.Background(), nil, "search", nil, nil, func(context.Context) (int, error) { return 3, nil })
	if err != nil || got != 3 {
		t.Fatalf("GetOrLoad(nil) = %d, %v", got, err)
	}
}

func TestNewDecisionCachePolicy(t *testing.T) {
	c := NewDecisionCache[string](time.Minute, 2, nil)
	if c.Policy() != EvictLeastRecentlyAccessed {
		t.Fatalf("unexpected policy %s", c.Policy())
	}
}
