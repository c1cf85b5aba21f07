// Package arc implements the Adaptive Replacement Cache: four
// recency-ordered partitions (two resident, two ghost) tied together by
// a self-tuning target partition size p. See core.RecencyMap for the
// underlying building block each of T1/T2/B1/B2 is built from.
//
// ARC is not safe for concurrent use; see the package-level
// concurrency note in core.
package arc

import "github.com/cachekit/cachekit/core"

// ARC is an Adaptive Replacement Cache over keys K and values V, fixed
// to capacity c at construction.
type ARC[K comparable, V any] struct {
	t1, t2 *core.RecencyMap[K, V]
	b1, b2 *core.RecencyMap[K, struct{}]

	capacity int
	size     int // resident target: T1+T2 cap ("s" in the design notes)
	p        int
}

// quarterSplit implements the construction-time rounding rule: integer
// quotient q = c/4, remainder r = c mod 4; sub-capacities are
// q+[r>=1], q+[r>=2], q+[r>=3], q for T1, T2, B1, B2 respectively. This
// asymmetric split is preserved bit-for-bit rather than replaced by the
// more familiar balanced c/2-resident/c/2-ghost ARC presentation.
func quarterSplit(c int) (t1Cap, t2Cap, b1Cap, b2Cap, resident int) {
	q := c / 4
	r := c % 4
	b := func(n int) int {
		if r >= n {
			return 1
		}
		return 0
	}
	t1Cap = q + b(1)
	t2Cap = q + b(2)
	b1Cap = q + b(3)
	b2Cap = q
	resident = t1Cap + t2Cap
	return
}

// New constructs an ARC with the given total capacity c.
func New[K comparable, V any](c int) *ARC[K, V] {
	if c < 0 {
		c = 0
	}
	_, _, _, _, resident := quarterSplit(c)
	return &ARC[K, V]{
		// All four partitions are sized to the full capacity, not their
		// quarter-split share: the only things allowed to evict a
		// resident or drop a ghost are the explicit Replace() call (guarded
		// by the combined |T1|+|T2| >= s check) and the dynamic
		// ghostCap-relative trims below. A per-partition core.RecencyMap
		// cap tighter than that would let RecencyMap.Put's own
		// trimToCapacity silently drop a key the instant that partition's
		// quarter share is reached — before Replace() demotes a resident
		// to its ghost list, or before a ghost hit is even observable.
		t1:       core.New[K, V](c),
		t2:       core.New[K, V](c),
		b1:       core.New[K, struct{}](c),
		b2:       core.New[K, struct{}](c),
		capacity: c,
		size:     resident,
		p:        0,
	}
}

// GetSize returns the number of resident entries (T1+T2); ghost entries
// are not counted.
func (a *ARC[K, V]) GetSize() int { return a.t1.GetSize() + a.t2.GetSize() }

// P returns the current adaptive target size for T1.
func (a *ARC[K, V]) P() int { return a.p }

// Put inserts or updates k→v, running exactly one branch of the ARC
// case analysis (promotion, refresh, or one of the two ghost-hit
// rebalances, or a cold miss). It always returns true.
func (a *ARC[K, V]) Put(k K, v V) bool {
	if a.t1.Contains(k) {
		a.t1.Erase(k)
		a.t2.Put(k, v)
		return true
	}
	if a.t2.Contains(k) {
		a.t2.Put(k, v)
		return true
	}

	ghostCap := a.capacity - a.size

	if a.b1.Contains(k) {
		delta := 1
		if b2n, b1n := a.b2.GetSize(), a.b1.GetSize(); b2n > b1n {
			delta = b2n / b1n
		}
		a.p = min(ghostCap, a.p+delta)

		if a.GetSize() >= a.size {
			a.Replace(false)
		}
		a.b1.Erase(k)
		a.t2.Put(k, v)
		return true
	}

	if a.b2.Contains(k) {
		delta := 1
		if b1n, b2n := a.b1.GetSize(), a.b2.GetSize(); b1n > b2n {
			delta = b1n / b2n
		}
		a.p = max(0, a.p-delta)

		if a.GetSize() >= a.size {
			a.Replace(true)
		}
		a.b2.Erase(k)
		a.t2.Put(k, v)
		return true
	}

	// Cold miss.
	if a.GetSize() >= a.size {
		a.Replace(false)
	}
	if a.b1.GetSize() > ghostCap-a.p {
		if lk := a.b1.GetLeastUsedKey(); lk != nil {
			a.b1.Erase(*lk)
		}
	}
	if a.b2.GetSize() > a.p {
		if lk := a.b2.GetLeastUsedKey(); lk != nil {
			a.b2.Erase(*lk)
		}
	}
	a.t1.Put(k, v)
	return true
}

// Replace chooses one resident victim and demotes it to the matching
// ghost list; the value is discarded, only the key is recorded.
// favorT1 breaks a T1-size-equals-p tie in favor of evicting from T1
// (used on a B2 ghost hit, where frequency is the tie-breaker).
func (a *ARC[K, V]) Replace(favorT1 bool) {
	t1Size := a.t1.GetSize()
	if t1Size > 0 && (t1Size > a.p || (t1Size == a.p && favorT1)) {
		k := *a.t1.GetLeastUsedKey()
		a.t1.Erase(k)
		a.b1.Put(k, struct{}{})
		return
	}
	if k := a.t2.GetLeastUsedKey(); k != nil {
		kk := *k
		a.t2.Erase(kk)
		a.b2.Put(kk, struct{}{})
	}
}

// Get returns a borrow of the value for k, promoting T1 hits into T2
// (second-touch promotion) and refreshing T2 hits in place. Ghost hits
// are not observable via Get; they only influence Put's case analysis.
func (a *ARC[K, V]) Get(k K) *V {
	if v := a.t1.Peek(k); v != nil {
		val := *v
		a.t1.Erase(k)
		return a.t2.Emplace(k, val)
	}
	if v := a.t2.Get(k); v != nil {
		return v
	}
	return nil
}

// Erase removes k from all four partitions. Idempotent.
func (a *ARC[K, V]) Erase(k K) {
	a.t1.Erase(k)
	a.t2.Erase(k)
	a.b1.Erase(k)
	a.b2.Erase(k)
}

// SetMaxSize recomputes the resident target using the same rounding
// rule, shrinks each underlying partition to the new total capacity,
// and clamps p into the new [0, n-resident] range. The four partitions
// stay sized to the full capacity n rather than their quarter-split
// share, for the same reason New does: only the dynamic, ghostCap-
// relative checks in Put are allowed to trim a partition.
func (a *ARC[K, V]) SetMaxSize(n int) {
	if n < 0 {
		n = 0
	}
	_, _, _, _, resident := quarterSplit(n)
	a.t1.SetMaxSize(n)
	a.t2.SetMaxSize(n)
	a.b1.SetMaxSize(n)
	a.b2.SetMaxSize(n)
	a.capacity = n
	a.size = resident

	ghostCap := n - resident
	if a.p > ghostCap {
		a.p = ghostCap
	}
	if a.p < 0 {
		a.p = 0
	}
}

// Clear empties all four partitions and resets p to 0.
func (a *ARC[K, V]) Clear() {
	a.t1.Clear()
	a.t2.Clear()
	a.b1.Clear()
	a.b2.Clear()
	a.p = 0
}

// VisitAll invokes f for every resident entry (T1 and T2).
func (a *ARC[K, V]) VisitAll(f func(K, V)) {
	a.t1.VisitAll(f)
	a.t2.VisitAll(f)
}

// VisitT1 invokes f for every entry in the recently-seen-once partition.
func (a *ARC[K, V]) VisitT1(f func(K, V)) { a.t1.VisitAll(f) }

// VisitT2 invokes f for every entry in the seen-multiple partition.
func (a *ARC[K, V]) VisitT2(f func(K, V)) { a.t2.VisitAll(f) }

// VisitB1 invokes f for every ghost key evicted from T1. The value
// argument is unspecified (ghosts carry no value).
func (a *ARC[K, V]) VisitB1(f func(K)) {
	a.b1.VisitAll(func(k K, _ struct{}) { f(k) })
}

// VisitB2 invokes f for every ghost key evicted from T2.
func (a *ARC[K, V]) VisitB2(f func(K)) {
	a.b2.VisitAll(func(k K, _ struct{}) { f(k) })
}

// VisitGhosts invokes f for every key resident in either ghost list.
// Not part of the original interface but a direct generalization of the
// four individual visitors, useful for hosts inspecting ghost occupancy.
func (a *ARC[K, V]) VisitGhosts(f func(K)) {
	a.VisitB1(f)
	a.VisitB2(f)
}
