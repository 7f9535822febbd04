package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lukasfischer/evictcache/internal/singleflight"
	"github.com/lukasfischer/evictcache/internal/util"
	"github.com/lukasfischer/evictcache/policy"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in
// Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// shardedCache stripes a logical cache across N independent policy
// instances, each fully self-contained (its own map, ordering structures,
// and lock). A key's shard is picked once by hashing it; there is no
// coherence between shards.
type shardedCache[K comparable, V any] struct {
	// ID identifies this cache instance for logging and metrics labeling
	// across multiple caches in the same process.
	ID string

	shards []policy.Policy[K, V]
	hash   func(K) uint64
	closed atomic.Bool

	metrics Metrics
	loader  func(ctx context.Context, k K) (V, error)

	sf singleflight.Group[K, V]
}

// New constructs a ShardedCache from Options. NewPolicy is required;
// TotalCapacity must be > 0.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.TotalCapacity <= 0 {
		return nil, fmt.Errorf("cache: TotalCapacity must be > 0, got %d", opt.TotalCapacity)
	}
	if opt.NewPolicy == nil {
		return nil, errors.New("cache: NewPolicy is required")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	sh := opt.ShardCount
	if sh <= 0 {
		sh = util.ReasonableShardCount()
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}

	perShardCap := (opt.TotalCapacity + sh - 1) / sh // split capacity evenly, rounding up
	shards := make([]policy.Policy[K, V], sh)
	for i := 0; i < sh; i++ {
		p, err := opt.NewPolicy(perShardCap)
		if err != nil {
			return nil, fmt.Errorf("cache: constructing shard %d policy: %w", i, err)
		}
		shards[i] = p
	}

	return &shardedCache[K, V]{
		ID:      uuid.New().String(),
		shards:  shards,
		hash:    util.Fnv64a[K],
		metrics: opt.Metrics,
		loader:  opt.Loader,
	}, nil
}

// String returns the cache instance's ID, for log/metric correlation.
func (c *shardedCache[K, V]) String() string { return c.ID }

// Put inserts or updates k→v in its shard.
func (c *shardedCache[K, V]) Put(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.shardFor(k).Put(k, v)
	c.metrics.Size(c.Len())
}

// Get returns the value for k and a presence flag, forwarding to k's shard.
func (c *shardedCache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	v, ok := c.shardFor(k).Get(k)
	if ok {
		c.metrics.Hit()
	} else {
		c.metrics.Miss()
	}
	return v, ok
}

// Purge clears every shard.
func (c *shardedCache[K, V]) Purge() {
	for _, s := range c.shards {
		s.Purge()
	}
}

// Len returns the total number of resident entries across all shards.
func (c *shardedCache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Close marks the cache as closed. Afterwards Put is a no-op and Get always
// misses; Purge and Len still act on the shards.
func (c *shardedCache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight). If no
// Loader is configured, returns ErrNoLoader.
func (c *shardedCache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	return c.sf.Do(ctx, k, func() (V, error) {
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.loader(ctx, k)
		if err == nil {
			c.Put(k, v)
		}
		return v, err
	})
}

// shardFor picks a shard by hashing the key. Shard count is guaranteed to
// be a power of two by New, so util.ShardIndex takes its fast masking path.
func (c *shardedCache[K, V]) shardFor(k K) policy.Policy[K, V] {
	idx := util.ShardIndex(c.hash(k), len(c.shards))
	return c.shards[idx]
}
