// Package arc adapts the Adaptive Replacement Cache algorithm (see the
// standalone, self-contained implementation in package arc at the
// repository root) to the shard's single intrusive list and
// policy.ShardPolicy contract.
package arc

import (
	"container/list"

	"github.com/cachekit/cachekit/policy"
)

// arc tracks its own T1/T2 resident membership and B1/B2 ghost key
// lists, the same way twoq tracks its own A1in/A1out alongside the
// shard's list: PushFront/MoveToFront keep the shard's unified recency
// order in sync for eviction-order bookkeeping and metrics, but ARC's
// own T1/T2 tails (not the shard's Back()) choose the eviction victim,
// and OnAdd returns that victim for the shard to actually evict.
//
// Ghost capacities are bounded by the shard's total capacity rather
// than the exact quarterSplit partition the standalone package uses;
// unlike a freestanding ARC, the adapter does not own a fixed resident
// split to size ghosts against, only the dynamic current T1/T2 counts.
type arc[K comparable, V any] struct {
	h policy.Hooks[K, V]

	cap int

	p int // adaptive target size for t1

	t1List *list.List
	t1Idx  map[K]*list.Element

	t2List *list.List
	t2Idx  map[K]*list.Element

	b1List *list.List
	b1Idx  map[K]*list.Element

	b2List *list.List
	b2Idx  map[K]*list.Element
}

// New constructs an ARC policy factory. capacity is the per-shard
// resident capacity (T1+T2); pass per-shard sizes when sharded.
func New[K comparable, V any](capacity int) policy.Policy[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return arcPolicy[K, V]{cap: capacity}
}

type arcPolicy[K comparable, V any] struct{ cap int }

func (ap arcPolicy[K, V]) New(h policy.Hooks[K, V]) policy.ShardPolicy[K, V] {
	return &arc[K, V]{
		h:      h,
		cap:    ap.cap,
		t1List: list.New(), t1Idx: make(map[K]*list.Element),
		t2List: list.New(), t2Idx: make(map[K]*list.Element),
		b1List: list.New(), b1Idx: make(map[K]*list.Element),
		b2List: list.New(), b2Idx: make(map[K]*list.Element),
	}
}

// ghostCap returns the current headroom for ghost entries: capacity not
// already spent on resident T1+T2 entries.
func (a *arc[K, V]) ghostCap() int {
	g := a.cap - (a.t1List.Len() + a.t2List.Len())
	if g < 0 {
		g = 0
	}
	return g
}

// OnAdd is called for keys not currently resident in the shard. It
// reproduces ARC's Put case analysis for the three miss cases (B1
// ghost hit, B2 ghost hit, cold miss); genuine T1/T2 hits never reach
// OnAdd because the shard only calls it for brand-new map entries.
func (a *arc[K, V]) OnAdd(n policy.Node[K, V]) (evict policy.Node[K, V]) {
	k := n.Key()

	switch {
	case a.b1Idx[k] != nil:
		delta := 1
		if l1, l2 := a.b1List.Len(), a.b2List.Len(); l1 > 0 {
			delta = max(1, l2/l1)
		}
		a.p = min(a.ghostCap(), a.p+delta)
		a.eraseGhost(a.b1List, a.b1Idx, k)

		if a.t1List.Len()+a.t2List.Len() >= a.cap {
			evict = a.replace(false)
		}
		a.h.PushFront(n)
		a.pushT2(k, n)
		return evict

	case a.b2Idx[k] != nil:
		delta := 1
		if l1, l2 := a.b1List.Len(), a.b2List.Len(); l2 > 0 {
			delta = max(1, l1/l2)
		}
		a.p = max(0, a.p-delta)
		a.eraseGhost(a.b2List, a.b2Idx, k)

		if a.t1List.Len()+a.t2List.Len() >= a.cap {
			evict = a.replace(true)
		}
		a.h.PushFront(n)
		a.pushT2(k, n)
		return evict

	default:
		if a.t1List.Len()+a.t2List.Len() >= a.cap {
			evict = a.replace(false)
		}
		a.h.PushFront(n)
		a.pushT1(k, n)
		return evict
	}
}

// replace picks ARC's eviction victim: T1's LRU tail if T1 has spilled
// past the adaptive target p (or sits exactly at p and favorT1 tips the
// tie), otherwise T2's LRU tail.
func (a *arc[K, V]) replace(favorT1 bool) policy.Node[K, V] {
	t1Len := a.t1List.Len()
	if t1Len > 0 && (t1Len > a.p || (t1Len == a.p && favorT1)) {
		return a.evictFrom(a.t1List, a.t1Idx)
	}
	if a.t2List.Len() > 0 {
		return a.evictFrom(a.t2List, a.t2Idx)
	}
	if t1Len > 0 {
		return a.evictFrom(a.t1List, a.t1Idx)
	}
	return nil
}

// evictFrom returns the node at the tail of list l (T1 or T2 tracking)
// and leaves it tracked there: the shard evicts OnAdd's returned
// candidate and then calls OnRemove for it, which moves the key into
// the matching ghost list.
func (a *arc[K, V]) evictFrom(l *list.List, idx map[K]*list.Element) policy.Node[K, V] {
	el := l.Back()
	if el == nil {
		return nil
	}
	return el.Value.(policy.Node[K, V])
}

func (a *arc[K, V]) pushT1(k K, n policy.Node[K, V]) { a.t1Idx[k] = a.t1List.PushFront(n) }
func (a *arc[K, V]) pushT2(k K, n policy.Node[K, V]) { a.t2Idx[k] = a.t2List.PushFront(n) }

func (a *arc[K, V]) eraseGhost(l *list.List, idx map[K]*list.Element, k K) {
	if el, ok := idx[k]; ok {
		l.Remove(el)
		delete(idx, k)
	}
}

// ghostify moves k into ghost list l, trimming the oldest ghost entry
// once the list exceeds the current headroom.
func (a *arc[K, V]) ghostify(l *list.List, idx map[K]*list.Element, k K, cap int) {
	if old, ok := idx[k]; ok {
		l.Remove(old)
	}
	idx[k] = l.PushFront(k)
	for l.Len() > cap {
		tail := l.Back()
		if tail == nil {
			break
		}
		kk := tail.Value.(K)
		delete(idx, kk)
		l.Remove(tail)
	}
}

// OnGet promotes a T1 hit to T2 (second-touch promotion) and refreshes
// a T2 hit in place, mirroring package arc's Get.
func (a *arc[K, V]) OnGet(n policy.Node[K, V]) {
	k := n.Key()
	if el, ok := a.t1Idx[k]; ok {
		a.t1List.Remove(el)
		delete(a.t1Idx, k)
		a.pushT2(k, n)
	} else if el, ok := a.t2Idx[k]; ok {
		a.t2List.MoveToFront(el)
	}
	a.h.MoveToFront(n)
}

// OnUpdate follows OnGet semantics (updates count as recent use).
func (a *arc[K, V]) OnUpdate(n policy.Node[K, V]) { a.OnGet(n) }

// OnRemove retires a resident key into the matching ghost list (T1
// departures become B1 ghosts, T2 departures become B2 ghosts),
// whatever the removal reason (policy eviction, TTL, or an explicit
// Remove call) — the same simplification package twoq makes for A1out.
func (a *arc[K, V]) OnRemove(n policy.Node[K, V]) {
	k := n.Key()
	if el, ok := a.t1Idx[k]; ok {
		a.t1List.Remove(el)
		delete(a.t1Idx, k)
		a.ghostify(a.b1List, a.b1Idx, k, a.cap)
		return
	}
	if el, ok := a.t2Idx[k]; ok {
		a.t2List.Remove(el)
		delete(a.t2Idx, k)
		a.ghostify(a.b2List, a.b2Idx, k, a.cap)
	}
}

// Inspect reports the adaptive target p alongside each partition's
// current occupancy.
func (a *arc[K, V]) Inspect() map[string]float64 {
	return map[string]float64{
		"p":  float64(a.p),
		"t1": float64(a.t1List.Len()),
		"t2": float64(a.t2List.Len()),
		"b1": float64(a.b1List.Len()),
		"b2": float64(a.b2List.Len()),
	}
}

var _ policy.Inspector = (*arc[string, int])(nil)
