// Package lfu implements a frequency-gated eviction policy: new entries
// are admitted only if they are estimated to be accessed more often
// than the shard's current recency-tail resident, the same admission
// test package admission's TinyLFU performs, adapted to the shard's
// single intrusive list and policy.ShardPolicy contract.
package lfu

import (
	"github.com/cachekit/cachekit/admission"
	"github.com/cachekit/cachekit/policy"
	"github.com/cachekit/cachekit/sketch"
)

// lfu tracks no resident structure of its own beyond the frequency
// sketch: the shard's single list still orders entries by recency, and
// the shard's own tail (policy.Hooks.Back) stands in for "the resident
// least likely to be a false reject" the way a sampled-victim TinyLFU
// implementation (e.g. ristretto) samples a handful of candidates
// rather than scanning for a true global minimum.
type lfu[K comparable, V any] struct {
	h     policy.Hooks[K, V]
	cap   int
	admit *admission.TinyLFU[K]
}

type lfuPolicy[K comparable, V any] struct {
	cap int
	mk  func() sketch.Sketch[K]
}

// New returns a Policy factory using a plain counting Bloom sketch
// (package sketch's Bloom) as the ranking function, sized to capacity.
// Use NewWithSketch for a doorkeeper-gated or aging variant.
func New[K comparable, V any](capacity int) policy.Policy[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return lfuPolicy[K, V]{
		cap: capacity,
		mk:  func() sketch.Sketch[K] { return sketch.NewBloom[K](capacity, nil) },
	}
}

// NewWithSketch is like New but lets the caller choose the sketch
// implementation (e.g. sketch.NewCaffeine for aging admission).
func NewWithSketch[K comparable, V any](capacity int, mk func() sketch.Sketch[K]) policy.Policy[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return lfuPolicy[K, V]{cap: capacity, mk: mk}
}

func (p lfuPolicy[K, V]) New(h policy.Hooks[K, V]) policy.ShardPolicy[K, V] {
	return &lfu[K, V]{h: h, cap: p.cap, admit: admission.NewTinyLFU[K](p.mk())}
}

// OnAdd always links the new node into the shard's list first (keeping
// the shard's own length/cost bookkeeping consistent), then decides
// whether it or the shard's tail should be the one actually evicted.
// Below capacity, nothing is evicted. At capacity, the new key is
// admitted only if it beats the tail resident's estimated frequency;
// otherwise the node just linked is itself returned for immediate
// eviction, which is this architecture's equivalent of outright
// rejecting the candidate.
func (p *lfu[K, V]) OnAdd(n policy.Node[K, V]) (evict policy.Node[K, V]) {
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

// OnGet records an access and refreshes recency.
func (p *lfu[K, V]) OnGet(n policy.Node[K, V]) {
	p.admit.RecordAccess(n.Key())
	p.h.MoveToFront(n)
}

// OnUpdate follows OnGet semantics.
func (p *lfu[K, V]) OnUpdate(n policy.Node[K, V]) { p.OnGet(n) }

// OnRemove is a no-op: the frequency sketch is probabilistic and
// shared across all keys, so there is no per-key state to clean up.
func (p *lfu[K, V]) OnRemove(policy.Node[K, V]) {}

// Inspect reports the sketch's running sample size.
func (p *lfu[K, V]) Inspect() map[string]float64 {
	return map[string]float64{"sketch_size": float64(p.admit.Size())}
}

var _ policy.Inspector = (*lfu[string, int])(nil)
