package cache

import "context"

// Cache is a sharded, in-memory key/value cache interface. All methods are
// safe for concurrent use by multiple goroutines.
//
// Typical complexity for operations is amortized O(1): a map lookup plus
// constant-time list adjustments under a shard's own policy lock.
type Cache[K comparable, V any] interface {
	// String returns the cache instance's identifier, stamped once at
	// construction. Intended for correlating log lines and metrics across
	// multiple cache instances in the same process.
	String() string

	// Put inserts or updates k→v, promoting the entry according to the
	// selected shard's eviction policy.
	Put(k K, v V)

	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted according to the policy.
	Get(k K) (V, bool)

	// Purge clears every shard.
	Purge()

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Close marks the cache closed. Current implementation is a soft close
	// and returns nil.
	Close() error

	// GetOrLoad returns the value for k, loading it via Options.Loader on
	// miss. Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)
}
