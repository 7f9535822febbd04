package arc

import "github.com/lukasfischer/evictcache/internal/entrylist"

// arcHalfLRU is the recency half of an ARC cache: a plain LRU main list plus
// a same-sized ghost list of recently evicted keys. Ghost capacity is fixed
// at construction and never shrinks even as main capacity is transferred
// away by the coordinator.
type arcHalfLRU[K comparable, V any] struct {
	cap       int
	ghostCap  int
	threshold int

	main     map[K]*entrylist.Entry[K, V]
	mainList *entrylist.List[K, V]

	ghost     map[K]*entrylist.Entry[K, V]
	ghostList *entrylist.List[K, V]
}

func newArcHalfLRU[K comparable, V any](capacity, threshold int) *arcHalfLRU[K, V] {
	return &arcHalfLRU[K, V]{
		cap:       capacity,
		ghostCap:  capacity,
		threshold: threshold,
		main:      make(map[K]*entrylist.Entry[K, V], capacity),
		mainList:  entrylist.New[K, V](),
		ghost:     make(map[K]*entrylist.Entry[K, V]),
		ghostList: entrylist.New[K, V](),
	}
}

// get returns the value on a main hit, touching the entry, and reports
// shouldPromote once the entry's access count has reached the promotion
// threshold.
func (h *arcHalfLRU[K, V]) get(k K) (v V, ok bool, shouldPromote bool) {
	e, found := h.main[k]
	if !found {
		var zero V
		return zero, false, false
	}
	h.mainList.MoveToBack(e)
	e.Count++
	return e.Value, true, e.Count >= h.threshold
}

// put inserts or updates k in main, evicting the LRU entry into the ghost
// list first if at capacity.
func (h *arcHalfLRU[K, V]) put(k K, v V) {
	if h.cap == 0 {
		return
	}
	if e, ok := h.main[k]; ok {
		e.Value = v
		h.mainList.MoveToBack(e)
		return
	}
	if len(h.main) >= h.cap {
		h.evictOne()
	}
	e := &entrylist.Entry[K, V]{Key: k, Value: v, HasValue: true, Count: 1}
	h.main[k] = e
	h.mainList.PushBack(e)
}

func (h *arcHalfLRU[K, V]) contains(k K) bool {
	_, ok := h.main[k]
	return ok
}

// checkGhost reports whether k is in ghost, removing it as a side effect.
func (h *arcHalfLRU[K, V]) checkGhost(k K) bool {
	e, ok := h.ghost[k]
	if !ok {
		return false
	}
	h.ghostList.Remove(e)
	delete(h.ghost, k)
	return true
}

func (h *arcHalfLRU[K, V]) increaseCapacity() { h.cap++ }

// decreaseCapacity refuses to go below zero, evicting one entry first if
// main is already full, so the invariant len(main) <= cap is never broken.
func (h *arcHalfLRU[K, V]) decreaseCapacity() bool {
	if h.cap == 0 {
		return false
	}
	if len(h.main) == h.cap {
		h.evictOne()
	}
	h.cap--
	return true
}

func (h *arcHalfLRU[K, V]) evictOne() {
	victim := h.mainList.PopFront()
	if victim == nil {
		return
	}
	delete(h.main, victim.Key)
	h.addToGhost(victim.Key)
}

func (h *arcHalfLRU[K, V]) addToGhost(k K) {
	if h.ghostCap == 0 {
		return
	}
	if len(h.ghost) >= h.ghostCap {
		oldest := h.ghostList.PopFront()
		if oldest != nil {
			delete(h.ghost, oldest.Key)
		}
	}
	ge := &entrylist.Entry[K, V]{Key: k, HasValue: false}
	h.ghost[k] = ge
	h.ghostList.PushBack(ge)
}

func (h *arcHalfLRU[K, V]) purge(originalCap int) {
	h.cap = originalCap
	h.ghostCap = originalCap
	h.main = make(map[K]*entrylist.Entry[K, V], originalCap)
	h.mainList.Purge()
	h.ghost = make(map[K]*entrylist.Entry[K, V])
	h.ghostList.Purge()
}

func (h *arcHalfLRU[K, V]) len() int { return len(h.main) }
