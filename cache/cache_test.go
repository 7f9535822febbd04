package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lukasfischer/evictcache/policy"
	"github.com/lukasfischer/evictcache/policy/arc"
	"github.com/lukasfischer/evictcache/policy/lru"
)

func lruFactory[K comparable, V any]() func(int) (policy.Policy[K, V], error) {
	return func(capacity int) (policy.Policy[K, V], error) { return lru.New[K, V](capacity) }
}

func TestCache_InvalidOptions(t *testing.T) {
	t.Parallel()

	if _, err := New[string, int](Options[string, int]{TotalCapacity: 0, NewPolicy: lruFactory[string, int]()}); err == nil {
		t.Fatal("want error for TotalCapacity <= 0")
	}
	if _, err := New[string, int](Options[string, int]{TotalCapacity: 8}); err == nil {
		t.Fatal("want error for nil NewPolicy")
	}
}

// Each cache instance is stamped with a distinct, non-empty ID surfaced
// through String(), for correlating log lines across multiple instances.
func TestCache_StringIsUniquePerInstance(t *testing.T) {
	t.Parallel()

	a, err := New[string, int](Options[string, int]{TotalCapacity: 8, NewPolicy: lruFactory[string, int]()})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New[string, int](Options[string, int]{TotalCapacity: 8, NewPolicy: lruFactory[string, int]()})
	if err != nil {
		t.Fatal(err)
	}

	if a.String() == "" {
		t.Fatal("want non-empty String()")
	}
	if a.String() == b.String() {
		t.Fatal("want distinct String() across instances")
	}
}

func TestCache_BasicPutGet(t *testing.T) {
	t.Parallel()

	c, err := New[string, int](Options[string, int]{TotalCapacity: 8, NewPolicy: lruFactory[string, int]()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	c.Put("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get a want 1, got %v ok=%v", v, ok)
	}

	c.Put("a", 11)
	if v, ok := c.Get("a"); !ok || v != 11 {
		t.Fatalf("Get a want 11, got %v ok=%v", v, ok)
	}
}

func TestCache_Purge(t *testing.T) {
	t.Parallel()

	c, err := New[string, int](Options[string, int]{TotalCapacity: 8, NewPolicy: lruFactory[string, int]()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	c.Put("a", 1)
	c.Put("b", 2)
	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("want Len()==0 after Purge, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a must miss after Purge")
	}
}

func TestCache_ClosedIsNoop(t *testing.T) {
	t.Parallel()

	c, err := New[string, int](Options[string, int]{TotalCapacity: 8, NewPolicy: lruFactory[string, int]()})
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", 1)
	_ = c.Close()

	c.Put("b", 2)
	if _, ok := c.Get("a"); ok {
		t.Fatal("closed cache must report every key as absent")
	}
}

// Deterministic LRU eviction: single shard, small capacity.
// Accessing "a" promotes it; inserting "c" evicts LRU ("b").
func TestCache_EvictionLRU(t *testing.T) {
	t.Parallel()

	c, err := New[string, int](Options[string, int]{
		TotalCapacity: 2,
		ShardCount:    1, // force a single shard so LRU is global
		NewPolicy:     lruFactory[string, int](),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	c.Put("a", 1) // LRU = a
	c.Put("b", 2) // MRU = b

	if _, ok := c.Get("a"); !ok { // promote a -> MRU
		t.Fatal("expect hit for a")
	}
	c.Put("c", 3) // overflow -> evict LRU (b)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b must be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a must survive (promoted)")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatal("c must be present")
	}
}

// sharded aggregate hit scenario: 4 shards, LRU, 1000 distinct puts
// followed by 1000 gets of the same keys in reverse order. Each shard
// retains its own MRU set, so the aggregate hit count is at least
// per-shard capacity × shard count.
func TestCache_Scenario_ShardedAggregateHits(t *testing.T) {
	t.Parallel()

	const shards = 4
	const totalCapacity = 100

	c, err := New[int, int](Options[int, int]{
		TotalCapacity: totalCapacity,
		ShardCount:    shards,
		NewPolicy:     lruFactory[int, int](),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	for i := 0; i < 1000; i++ {
		c.Put(i, i)
	}

	hits := 0
	for i := 999; i >= 0; i-- {
		if _, ok := c.Get(i); ok {
			hits++
		}
	}

	if hits < totalCapacity {
		t.Fatalf("want aggregate hits >= %d, got %d", totalCapacity, hits)
	}
}

func TestCache_ARCPolicy(t *testing.T) {
	t.Parallel()

	c, err := New[string, string](Options[string, string]{
		TotalCapacity: 4,
		ShardCount:    1,
		NewPolicy: func(capacity int) (policy.Policy[string, string], error) {
			return arc.New[string, string](capacity, 2)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	c.Put("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("get(a) = %v, %v", v, ok)
	}
}

// Singleflight test: concurrent GetOrLoad calls for the same key
// should trigger the Loader at most once; subsequent calls are cache hits.
func TestCache_GetOrLoad_Singleflight(t *testing.T) {
	var calls int64

	c, err := New[string, string](Options[string, string]{
		TotalCapacity: 64,
		NewPolicy:     lruFactory[string, string](),
		Loader: func(_ context.Context, k string) (string, error) {
			atomic.AddInt64(&calls, 1)
			time.Sleep(5 * time.Millisecond) // simulate I/O
			return "v:" + k, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	const N = 64
	var g errgroup.Group
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := 0; i < N; i++ {
		g.Go(func() error {
			v, err := c.GetOrLoad(ctx, "k")
			if err != nil {
				return err
			}
			if v != "v:k" {
				return fmt.Errorf("got %q", v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("loader must run exactly once, got %d", got)
	}

	if v, err := c.GetOrLoad(context.Background(), "k"); err != nil || v != "v:k" {
		t.Fatalf("second GetOrLoad failed: v=%q err=%v", v, err)
	}
}

func TestCache_GetOrLoad_NoLoader(t *testing.T) {
	t.Parallel()

	c, err := New[string, string](Options[string, string]{TotalCapacity: 4, NewPolicy: lruFactory[string, string]()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if _, err := c.GetOrLoad(context.Background(), "k"); err != ErrNoLoader {
		t.Fatalf("want ErrNoLoader, got %v", err)
	}
}
