// Package wtinylfu adapts the W-TinyLFU window/main split (see the
// standalone, value-carrying admission.WindowTinyLFU) to the shard's
// single intrusive list and policy.ShardPolicy contract, the same way
// package arc adapts the standalone ARC algorithm: it owns its own
// window and main key-tracking lists rather than reusing the shard's
// list for ordering, and nominates eviction candidates from those
// lists instead of from the shard's own Back().
package wtinylfu

import (
	"container/list"

	"github.com/cachekit/cachekit/admission"
	"github.com/cachekit/cachekit/policy"
	"github.com/cachekit/cachekit/sketch"
)

const defaultWindowRatio = 0.01

type wTinyLFU[K comparable, V any] struct {
	h policy.Hooks[K, V]

	windowCap int
	mainCap   int

	admit *admission.TinyLFU[K]

	windowList *list.List
	windowIdx  map[K]*list.Element

	mainList *list.List
	mainIdx  map[K]*list.Element
}

type wTinyLFUPolicy[K comparable, V any] struct {
	windowCap, mainCap int
}

// New returns a Policy factory sized to capacity, reserving
// windowRatio of it (default 1% if <= 0) for the window region ahead
// of the main region.
func New[K comparable, V any](capacity int, windowRatio float64) policy.Policy[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	if windowRatio <= 0 {
		windowRatio = defaultWindowRatio
	}
	windowCap := int(float64(capacity) * windowRatio)
	if windowCap < 1 {
		windowCap = 1
	}
	mainCap := capacity - windowCap
	if mainCap < 1 {
		mainCap = 1
	}
	return wTinyLFUPolicy[K, V]{windowCap: windowCap, mainCap: mainCap}
}

func (p wTinyLFUPolicy[K, V]) New(h policy.Hooks[K, V]) policy.ShardPolicy[K, V] {
	s := sketch.NewCaffeine[K](p.windowCap+p.mainCap, nil)
	return &wTinyLFU[K, V]{
		h:          h,
		windowCap:  p.windowCap,
		mainCap:    p.mainCap,
		admit:      admission.NewTinyLFU[K](s),
		windowList: list.New(), windowIdx: make(map[K]*list.Element),
		mainList: list.New(), mainIdx: make(map[K]*list.Element),
	}
}

// OnAdd always admits a brand-new key into the window; if that
// overflows the window, the window's own LRU departs and contests
// promotion into main via the TinyLFU admission test against main's
// own LRU. The loser of that contest (whichever node it is) is
// returned as the shard's actual eviction target; the winner simply
// changes which tracking list it belongs to; it never leaves the
// shard's own list.
func (p *wTinyLFU[K, V]) OnAdd(n policy.Node[K, V]) (evict policy.Node[K, V]) {
	k := n.Key()
	p.admit.RecordAccess(k)
	p.h.PushFront(n)

	var departed policy.Node[K, V]
	if p.windowList.Len() >= p.windowCap {
		departed = p.evictFrom(p.windowList, p.windowIdx)
	}
	p.windowIdx[k] = p.windowList.PushFront(n)

	if departed == nil {
		return nil
	}
	return p.promote(departed)
}

// promote runs the admission contest for a key leaving the window.
func (p *wTinyLFU[K, V]) promote(candidate policy.Node[K, V]) policy.Node[K, V] {
	if p.mainList.Len() < p.mainCap {
		p.mainIdx[candidate.Key()] = p.mainList.PushFront(candidate)
		return nil
	}
	victim := p.mainList.Back()
	if victim == nil {
		p.mainIdx[candidate.Key()] = p.mainList.PushFront(candidate)
		return nil
	}
	victimNode := victim.Value.(policy.Node[K, V])
	if p.admit.Admit(candidate.Key(), victimNode.Key()) {
		p.mainList.Remove(victim)
		delete(p.mainIdx, victimNode.Key())
		p.mainIdx[candidate.Key()] = p.mainList.PushFront(candidate)
		return victimNode
	}
	return candidate
}

func (p *wTinyLFU[K, V]) evictFrom(l *list.List, idx map[K]*list.Element) policy.Node[K, V] {
	el := l.Back()
	if el == nil {
		return nil
	}
	n := el.Value.(policy.Node[K, V])
	l.Remove(el)
	delete(idx, n.Key())
	return n
}

// OnGet promotes within whichever region currently holds the key.
func (p *wTinyLFU[K, V]) OnGet(n policy.Node[K, V]) {
	k := n.Key()
	p.admit.RecordAccess(k)
	if el, ok := p.windowIdx[k]; ok {
		p.windowList.MoveToFront(el)
	} else if el, ok := p.mainIdx[k]; ok {
		p.mainList.MoveToFront(el)
	}
	p.h.MoveToFront(n)
}

func (p *wTinyLFU[K, V]) OnUpdate(n policy.Node[K, V]) { p.OnGet(n) }

// OnRemove drops the key from whichever region tracks it.
func (p *wTinyLFU[K, V]) OnRemove(n policy.Node[K, V]) {
	k := n.Key()
	if el, ok := p.windowIdx[k]; ok {
		p.windowList.Remove(el)
		delete(p.windowIdx, k)
		return
	}
	if el, ok := p.mainIdx[k]; ok {
		p.mainList.Remove(el)
		delete(p.mainIdx, k)
	}
}

// Inspect reports window/main occupancy and the admission sketch's
// running sample size.
func (p *wTinyLFU[K, V]) Inspect() map[string]float64 {
	return map[string]float64{
		"window":      float64(p.windowList.Len()),
		"main":        float64(p.mainList.Len()),
		"sketch_size": float64(p.admit.Size()),
	}
}

var _ policy.Inspector = (*wTinyLFU[string, int])(nil)
