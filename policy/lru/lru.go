// Package lru implements the classic least-recently-used eviction policy.
package lru

import (
	"sync"

	"github.com/lukasfischer/evictcache/internal/entrylist"
	"github.com/lukasfischer/evictcache/policy"
)

// LRU is a move-to-tail Least-Recently-Used cache. The front of the list
// is always the next eviction victim; the back is the most recently
// touched entry.
type LRU[K comparable, V any] struct {
	mu  sync.Mutex
	cap int
	m   map[K]*entrylist.Entry[K, V]
	l   *entrylist.List[K, V]
}

// New constructs an LRU policy of the given capacity. capacity must be >= 0.
func New[K comparable, V any](capacity int) (policy.Policy[K, V], error) {
	if capacity < 0 {
		return nil, policy.ErrInvalidCapacity
	}
	return &LRU[K, V]{
		cap: capacity,
		m:   make(map[K]*entrylist.Entry[K, V], capacity),
		l:   entrylist.New[K, V](),
	}, nil
}

// Get returns k's value, promoting it to the most-recently-used end on a hit.
func (c *LRU[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.l.MoveToBack(e)
	return e.Value, true
}

// Put inserts or updates k, evicting the least-recently-used entry first if
// the cache is at capacity. A capacity of 0 makes this a no-op.
func (c *LRU[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == 0 {
		return
	}

	if e, ok := c.m[k]; ok {
		e.Value = v
		c.l.MoveToBack(e)
		return
	}

	if len(c.m) >= c.cap {
		victim := c.l.PopFront()
		if victim != nil {
			delete(c.m, victim.Key)
		}
	}

	e := &entrylist.Entry[K, V]{Key: k, Value: v, HasValue: true}
	c.m[k] = e
	c.l.PushBack(e)
}

// Purge clears the cache.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[K]*entrylist.Entry[K, V], c.cap)
	c.l.Purge()
}

// Len returns the number of resident entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap returns the configured capacity.
func (c *LRU[K, V]) Cap() int { return c.cap }
