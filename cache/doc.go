// Package cache provides a generic, sharded in-memory key/value cache with
// pluggable eviction policies (LRU, LRU-K, LFU with aging, ARC), optional
// singleflight loading, and lightweight metrics hooks.
//
// Design
//
//   - Concurrency: a ShardedCache is split into shards, each of which is one
//     independently-locked policy.Policy instance — there is no shard-level
//     lock, since every policy already owns its own map, ordering structures,
//     and mutex. The default shard count is chosen by a heuristic
//     (util.ReasonableShardCount) and rounded to a power of two.
//
//   - Storage: each shard's internal structures depend entirely on the
//     policy chosen via Options.NewPolicy; the cache package never looks
//     inside a shard beyond the policy.Policy contract.
//
//   - Policies: eviction policy is pluggable via Options.NewPolicy, a
//     per-shard factory. There is no default: LRU, LRU-K, LFU, and ARC have
//     different tradeoffs and the caller must choose.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Size signals. By default
//     NoopMetrics is used; plug the metrics/prom adapter to export them.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{
//	    TotalCapacity: 10_000,
//	    NewPolicy: func(capacity int) (policy.Policy[string, []byte], error) {
//	        return lru.New[string, []byte](capacity)
//	    },
//	})
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//
// With GetOrLoad (singleflight)
//
//	c, err := cache.New[string, string](cache.Options[string, string]{
//	    TotalCapacity: 1024,
//	    NewPolicy: func(capacity int) (policy.Policy[string, string], error) {
//	        return lru.New[string, string](capacity)
//	    },
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Using an alternative policy (ARC)
//
//	c, err := cache.New[string, string](cache.Options[string, string]{
//	    TotalCapacity: 50_000,
//	    NewPolicy: func(capacity int) (policy.Policy[string, string], error) {
//	        return arc.New[string, string](capacity, 2)
//	    },
//	})
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "evictcache", "demo", nil) // implements Metrics
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{
//	    TotalCapacity: 10_000,
//	    NewPolicy: func(capacity int) (policy.Policy[string, []byte], error) {
//	        return lru.New[string, []byte](capacity)
//	    },
//	    Metrics: m,
//	})
//
// Thread-safety & complexity
//
// All methods on Cache are safe for concurrent use. Typical operation cost
// is O(1) expected time: one map access and constant-time list adjustments
// under the selected shard's own lock.
//
// See options.go for all available Options fields and package policy for
// the Policy interface used to implement custom strategies.
package cache
