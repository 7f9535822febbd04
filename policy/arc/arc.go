// Package arc implements the Adaptive Replacement Cache: a recency half
// (LRU-side) and a frequency half (LFU-side), each with a ghost list of
// recently evicted keys that drives capacity transfer between the two.
package arc

import (
	"sync"

	"github.com/lukasfischer/evictcache/policy"
)

const defaultThreshold = 2

// ARC coordinates an arcHalfLRU and an arcHalfLFU. New entries land in the
// LRU half; an entry promotes into the LFU half once its access count
// reaches threshold. A key re-referenced after falling into either half's
// ghost list transfers one unit of capacity from the other half, on the
// theory that the half it fell out of was under-provisioned.
type ARC[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	threshold int

	lru *arcHalfLRU[K, V]
	lfu *arcHalfLFU[K, V]
}

// New constructs an ARC policy of the given capacity. threshold is optional
// and defaults to 2: the number of accesses in the LRU half before an entry
// promotes into the LFU half. capacity must be >= 0, threshold must be >= 1.
func New[K comparable, V any](capacity int, threshold ...int) (policy.Policy[K, V], error) {
	if capacity < 0 {
		return nil, policy.ErrInvalidCapacity
	}
	t := defaultThreshold
	if len(threshold) > 0 {
		t = threshold[0]
	}
	if t < 1 {
		return nil, policy.ErrInvalidThreshold
	}
	return &ARC[K, V]{
		capacity:  capacity,
		threshold: t,
		lru:       newArcHalfLRU[K, V](capacity, t),
		lfu:       newArcHalfLFU[K, V](capacity, t),
	}, nil
}

// checkGhostCaches consumes ghost membership for k in either half and, on a
// hit, transfers one unit of capacity from the other half toward the half
// that lost k too early. At most one transfer happens per call.
func (c *ARC[K, V]) checkGhostCaches(k K) {
	if c.lru.checkGhost(k) {
		if c.lfu.decreaseCapacity() {
			c.lru.increaseCapacity()
		}
		return
	}
	if c.lfu.checkGhost(k) {
		if c.lru.decreaseCapacity() {
			c.lfu.increaseCapacity()
		}
	}
}

// Get checks the ghost lists first, then the LRU half (promoting into the
// LFU half if the access reached the promotion threshold), then the LFU
// half.
func (c *ARC[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checkGhostCaches(k)

	if v, ok, shouldPromote := c.lru.get(k); ok {
		if shouldPromote {
			c.lfu.put(k, v)
		}
		return v, true
	}
	return c.lfu.get(k)
}

// Put checks the ghost lists first, always writes to the LRU half, and also
// writes to the LFU half if k was already resident there, keeping an
// already-promoted key's two views coherent.
func (c *ARC[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checkGhostCaches(k)

	inLFU := c.lfu.contains(k)
	c.lru.put(k, v)
	if inLFU {
		c.lfu.put(k, v)
	}
}

// Purge clears both halves and their ghost lists, restoring each half's
// capacity to the value ARC was constructed with.
func (c *ARC[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.purge(c.capacity)
	c.lfu.purge(c.capacity)
}

// Len returns the number of distinct keys resident in either half: a
// promoted key can be resident in both halves at once, so this is a union
// count, not a sum.
func (c *ARC[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.lru.len()
	for k := range c.lfu.main {
		if !c.lru.contains(k) {
			n++
		}
	}
	return n
}

// Cap returns the capacity ARC was constructed with. The two halves' actual
// capacities drift from this value as ghost hits transfer capacity between
// them; Cap reports the nominal budget, not either half's current share.
func (c *ARC[K, V]) Cap() int { return c.capacity }
