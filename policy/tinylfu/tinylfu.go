// Package tinylfu is package lfu's sibling, differing only in which
// frequency sketch backs the admission test: it defaults to
// sketch.Caffeine, the aging sketch that gives TinyLFU its name in the
// Caffeine/ristretto literature, instead of lfu's plain counting
// Bloom sketch. The shard-integration shape (link
// first, then decide between evicting the shard's tail or the
// candidate just linked) is identical to package lfu.
package tinylfu

import (
	"github.com/cachekit/cachekit/admission"
	"github.com/cachekit/cachekit/policy"
	"github.com/cachekit/cachekit/sketch"
)

type tinyLFU[K comparable, V any] struct {
	h     policy.Hooks[K, V]
	cap   int
	admit *admission.TinyLFU[K]
}

type tinyLFUPolicy[K comparable, V any] struct {
	cap int
}

// New returns a Policy factory backed by an aging Caffeine sketch sized
// to capacity.
func New[K comparable, V any](capacity int) policy.Policy[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return tinyLFUPolicy[K, V]{cap: capacity}
}

func (p tinyLFUPolicy[K, V]) New(h policy.Hooks[K, V]) policy.ShardPolicy[K, V] {
	s := sketch.NewCaffeine[K](p.cap, nil)
	return &tinyLFU[K, V]{h: h, cap: p.cap, admit: admission.NewTinyLFU[K](s)}
}

// OnAdd follows package lfu's link-then-decide pattern: the candidate
// is always linked into the shard's list first, then either the
// shard's tail or the candidate itself (an immediate self-eviction,
// this architecture's stand-in for outright rejection) is returned as
// the actual eviction target.
func (p *tinyLFU[K, V]) OnAdd(n policy.Node[K, V]) (evict policy.Node[K, V]) {
	k := n.Key()

	var victim policy.Node[K, V]
	if p.h.Len() >= p.cap {
		victim = p.h.Back()
	}

	p.h.PushFront(n)
	p.admit.RecordAccess(k)

	if victim == nil {
		return nil
	}
	if p.admit.Admit(k, victim.Key()) {
		return victim
	}
	return n
}

func (p *tinyLFU[K, V]) OnGet(n policy.Node[K, V]) {
	p.admit.RecordAccess(n.Key())
	p.h.MoveToFront(n)
}

func (p *tinyLFU[K, V]) OnUpdate(n policy.Node[K, V]) { p.OnGet(n) }

func (p *tinyLFU[K, V]) OnRemove(policy.Node[K, V]) {}

// Inspect reports the Caffeine sketch's running sample size, useful
// for observing how close the next aging reset is.
func (p *tinyLFU[K, V]) Inspect() map[string]float64 {
	return map[string]float64{"sketch_size": float64(p.admit.Size())}
}

var _ policy.Inspector = (*tinyLFU[string, int])(nil)
