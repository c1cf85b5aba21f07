package lfu

import (
	"testing"

	"github.com/cachekit/cachekit/policy"
)

type testNode[K comparable, V any] struct {
	k K
	v V
}

func (n *testNode[K, V]) Key() K    { return n.k }
func (n *testNode[K, V]) Value() *V { return &n.v }

// fakeHooks is a minimal shard-list stand-in so OnAdd's capacity and
// tail-sampling logic can be exercised without a real shard.
type fakeHooks[K comparable, V any] struct {
	order []policy.Node[K, V] // front at index 0
}

func (h *fakeHooks[K, V]) PushFront(n policy.Node[K, V]) {
	h.order = append([]policy.Node[K, V]{n}, h.order...)
}

func (h *fakeHooks[K, V]) MoveToFront(n policy.Node[K, V]) {
	h.Remove(n)
	h.PushFront(n)
}

func (h *fakeHooks[K, V]) Remove(n policy.Node[K, V]) {
	for i, e := range h.order {
		if e == n {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}

func (h *fakeHooks[K, V]) Back() policy.Node[K, V] {
	if len(h.order) == 0 {
		return nil
	}
	return h.order[len(h.order)-1]
}

func (h *fakeHooks[K, V]) Len() int { return len(h.order) }

func TestLFU_BelowCapacityNeverEvicts(t *testing.T) {
	t.Parallel()

	h := &fakeHooks[string, int]{}
	p := New[string, int](4).New(h).(*lfu[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	if ev := p.OnAdd(n1); ev != nil {
		t.Fatalf("below capacity must not evict, got %v", ev)
	}
	if h.Len() != 1 {
		t.Fatalf("node must be linked into the shard list, got len %d", h.Len())
	}
}

func TestLFU_ColdCandidateLosesToHotTail(t *testing.T) {
	t.Parallel()

	h := &fakeHooks[string, int]{}
	p := New[string, int](1).New(h).(*lfu[string, int])

	hot := &testNode[string, int]{k: "hot", v: 1}
	p.OnAdd(hot)
	for i := 0; i < 10; i++ {
		p.admit.RecordAccess("hot")
	}

	cold := &testNode[string, int]{k: "cold", v: 2}
	ev := p.OnAdd(cold)

	if ev != cold {
		t.Fatalf("cold candidate must lose and be evicted immediately, got %v", ev)
	}
}

func TestLFU_HotCandidateDisplacesColdTail(t *testing.T) {
	t.Parallel()

	h := &fakeHooks[string, int]{}
	p := New[string, int](1).New(h).(*lfu[string, int])

	cold := &testNode[string, int]{k: "cold", v: 1}
	p.OnAdd(cold)

	hot := &testNode[string, int]{k: "hot", v: 2}
	for i := 0; i < 20; i++ {
		p.admit.RecordAccess("hot")
	}
	ev := p.OnAdd(hot)

	if ev != cold {
		t.Fatalf("hot candidate must displace the cold tail, got %v", ev)
	}
}

func TestLFU_OnGetPromotesAndRecords(t *testing.T) {
	t.Parallel()

	h := &fakeHooks[string, int]{}
	p := New[string, int](4).New(h).(*lfu[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	n2 := &testNode[string, int]{k: "b", v: 2}
	p.OnAdd(n1)
	p.OnAdd(n2)

	p.OnGet(n1)
	if h.Back() != n2 {
		t.Fatalf("Get on a must promote it off the tail, want tail b, got %v", h.Back())
	}
}
