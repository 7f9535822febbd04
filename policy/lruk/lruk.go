// Package lruk implements LRU-K: promotion into a resident LRU cache only
// after a key has been referenced K times, backed by a secondary LRU that
// tracks reference counts for warming keys.
package lruk

import (
	"sync"

	"github.com/lukasfischer/evictcache/policy"
	"github.com/lukasfischer/evictcache/policy/lru"
)

// LRUK composes an embedded "promoted" LRU of capacity C with a secondary
// "history" LRU (capacity H) mapping key to reference count, plus a side
// map of candidate values recorded by Put. A key is promoted into the
// resident cache once its reference count reaches K.
//
// mu makes the whole policy atomic per operation, even though the two
// embedded LRUs are independently locked: without it a concurrent Get/Put
// pair on the same warming key could race past each other between the
// history bump and the promotion decision.
type LRUK[K comparable, V any] struct {
	mu sync.Mutex

	k int

	promoted policy.Policy[K, V]
	history  policy.Policy[K, int]

	candidates map[K]V
}

// New constructs an LRU-K policy: capacity is the size of the promoted
// cache, historyCapacity bounds the reference-count tracker, and k is the
// number of references required before a key is promoted. k must be >= 1.
func New[K comparable, V any](capacity, historyCapacity, k int) (policy.Policy[K, V], error) {
	if k < 1 {
		return nil, policy.ErrInvalidK
	}
	promoted, err := lru.New[K, V](capacity)
	if err != nil {
		return nil, err
	}
	history, err := lru.New[K, int](historyCapacity)
	if err != nil {
		return nil, policy.ErrInvalidHistoryCapacity
	}
	return &LRUK[K, V]{
		k:          k,
		promoted:   promoted,
		history:    history,
		candidates: make(map[K]V),
	}, nil
}

// Get returns k's value if it is already promoted. Otherwise it increments
// k's reference count in the history cache; once that count reaches K and a
// candidate value has been recorded by a prior Put, the key is promoted and
// its value returned. A pure-reader path (K Gets with no intervening Put)
// never fabricates a value: reaching the threshold with no stored candidate
// is still reported as a miss.
func (c *LRUK[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.promoted.Get(k); ok {
		return v, true
	}

	count, _ := c.history.Get(k)
	count++
	c.history.Put(k, count)

	if candidate, has := c.candidates[k]; has && count >= c.k {
		delete(c.candidates, k)
		c.promoted.Put(k, candidate)
		return candidate, true
	}

	var zero V
	return zero, false
}

// Put overwrites the value in place if k is already promoted. Otherwise it
// records v as k's candidate value and increments its reference count;
// once that count reaches K, k is promoted using v (the most recent
// candidate always wins on promotion).
func (c *LRUK[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.promoted.Get(k); ok {
		c.promoted.Put(k, v)
		return
	}

	count, _ := c.history.Get(k)
	count++
	c.history.Put(k, count)
	c.candidates[k] = v

	if count >= c.k {
		delete(c.candidates, k)
		c.promoted.Put(k, v)
	}
}

// Purge clears the promoted cache, the history cache, and all candidates.
func (c *LRUK[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.candidates = make(map[K]V)
	c.promoted.Purge()
	c.history.Purge()
}

// Len returns the number of promoted (resident) entries.
func (c *LRUK[K, V]) Len() int { return c.promoted.Len() }

// Cap returns the promoted cache's capacity.
func (c *LRUK[K, V]) Cap() int { return c.promoted.Cap() }
