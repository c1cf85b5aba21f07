// Package slru implements a segmented LRU: new entries land in a
// probation segment, and a repeat touch promotes them into a protected
// segment. Protected overflow demotes its LRU back into probation
// rather than evicting it outright; only probation overflow actually
// evicts. Structurally this is twoq's A1in/Am split (see package
// twoq) generalized to a bidirectional promote/demote pair.
package slru

import (
	"container/list"

	"github.com/cachekit/cachekit/policy"
)

type slru[K comparable, V any] struct {
	h policy.Hooks[K, V]

	capProbation, capProtected int

	probationList *list.List
	probationIdx  map[K]*list.Element

	protectedList *list.List
	protectedIdx  map[K]*list.Element
}

type slruPolicy[K comparable, V any] struct{ capProbation, capProtected int }

// New constructs an SLRU policy factory. Pass per-shard sub-capacities;
// capProbation + capProtected should equal the shard's own capacity.
func New[K comparable, V any](capProbation, capProtected int) policy.Policy[K, V] {
	if capProbation < 1 {
		capProbation = 1
	}
	if capProtected < 1 {
		capProtected = 1
	}
	return slruPolicy[K, V]{capProbation: capProbation, capProtected: capProtected}
}

func (p slruPolicy[K, V]) New(h policy.Hooks[K, V]) policy.ShardPolicy[K, V] {
	return &slru[K, V]{
		h:             h,
		capProbation:  p.capProbation,
		capProtected:  p.capProtected,
		probationList: list.New(), probationIdx: make(map[K]*list.Element),
		protectedList: list.New(), protectedIdx: make(map[K]*list.Element),
	}
}

// OnAdd admits new entries into probation at MRU. If probation
// overflows its soft target, its own LRU is nominated for eviction.
func (q *slru[K, V]) OnAdd(n policy.Node[K, V]) (evict policy.Node[K, V]) {
	q.h.PushFront(n)
	q.probationIdx[n.Key()] = q.probationList.PushFront(n)

	if q.probationList.Len() > q.capProbation {
		if el := q.probationList.Back(); el != nil {
			victim := el.Value.(policy.Node[K, V])
			q.probationList.Remove(el)
			delete(q.probationIdx, victim.Key())
			return victim
		}
	}
	return nil
}

// OnGet promotes a probation hit into protected (demoting protected's
// own overflow back into probation if needed); a protected hit just
// refreshes its position.
func (q *slru[K, V]) OnGet(n policy.Node[K, V]) {
	k := n.Key()
	if el, ok := q.probationIdx[k]; ok {
		q.probationList.Remove(el)
		delete(q.probationIdx, k)
		q.protectedIdx[k] = q.protectedList.PushFront(n)
		q.demoteExcessProtected()
	} else if el, ok := q.protectedIdx[k]; ok {
		q.protectedList.MoveToFront(el)
	}
	q.h.MoveToFront(n)
}

// OnUpdate follows OnGet semantics.
func (q *slru[K, V]) OnUpdate(n policy.Node[K, V]) { q.OnGet(n) }

// OnRemove drops the key from whichever segment tracks it.
func (q *slru[K, V]) OnRemove(n policy.Node[K, V]) {
	k := n.Key()
	if el, ok := q.probationIdx[k]; ok {
		q.probationList.Remove(el)
		delete(q.probationIdx, k)
		return
	}
	if el, ok := q.protectedIdx[k]; ok {
		q.protectedList.Remove(el)
		delete(q.protectedIdx, k)
	}
}

// demoteExcessProtected pushes protected's overflow back to the front
// of probation. Probation may itself end up over its own soft target
// as a result; that's fine, the shard's own capacity enforcement is
// what actually bounds total residency, not this sub-split.
func (q *slru[K, V]) demoteExcessProtected() {
	for q.protectedList.Len() > q.capProtected {
		el := q.protectedList.Back()
		if el == nil {
			break
		}
		n := el.Value.(policy.Node[K, V])
		q.protectedList.Remove(el)
		delete(q.protectedIdx, n.Key())
		q.probationIdx[n.Key()] = q.probationList.PushFront(n)
	}
}
