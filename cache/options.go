package cache

import (
	"context"

	"github.com/lukasfischer/evictcache/policy"
)

// Metrics exposes cache-level observability hooks. A NoopMetrics
// implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Size(entries int)
}

// Options configures a ShardedCache. Zero values are mostly safe; New
// applies these defaults:
//   - ShardCount <= 0 => auto (≈2*GOMAXPROCS, rounded to a power of two)
//   - nil Metrics     => NoopMetrics
type Options[K comparable, V any] struct {
	// TotalCapacity is the entry count limit, split evenly (ceiling) across
	// shards. Must be > 0.
	TotalCapacity int

	// ShardCount is the number of independent shards, rounded up to the
	// next power of two. If <= 0, an automatic value is chosen and rounded
	// the same way.
	ShardCount int

	// NewPolicy constructs one shard's eviction policy given its capacity.
	// Required: there is no default policy, since the four core policies
	// have meaningfully different tradeoffs and picking one silently would
	// hide that choice from the caller.
	NewPolicy func(capacity int) (policy.Policy[K, V], error)

	// Loader fetches a value on a cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// Metrics receives hit/miss/size observations. Nil => NoopMetrics.
	Metrics Metrics
}
