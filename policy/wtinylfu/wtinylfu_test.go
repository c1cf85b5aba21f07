package wtinylfu

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

type mockHooks[K comparable, V any] struct {
	pushFrontCnt   int
	moveToFrontCnt int
}

func (h *mockHooks[K, V]) MoveToFront(policy.Node[K, V]) { h.moveToFrontCnt++ }
func (h *mockHooks[K, V]) PushFront(policy.Node[K, V])   { h.pushFrontCnt++ }
func (h *mockHooks[K, V]) Remove(policy.Node[K, V])      {}
func (h *mockHooks[K, V]) Back() policy.Node[K, V]       { return nil }
func (h *mockHooks[K, V]) Len() int                      { return 0 }

func TestWTinyLFU_NewKeyEntersWindow(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string, int]{}
	p := New[string, int](10, 0.5).New(h).(*wTinyLFU[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	if ev := p.OnAdd(n1); ev != nil {
		t.Fatalf("new key must be admitted into the window without eviction, got %v", ev)
	}
	if _, ok := p.windowIdx["a"]; !ok {
		t.Fatal("a must be tracked in the window")
	}
}

func TestWTinyLFU_WindowOverflowPromotesIntoSpareMain(t *testing.T) {
	t.Parallel()

	// capacity 10, ratio 0.5 -> windowCap=5, mainCap=5.
	h := &mockHooks[string, int]{}
	p := New[string, int](10, 0.5).New(h).(*wTinyLFU[string, int])

	keys := []string{"a", "b", "c", "d", "e", "f"}
	var last policy.Node[string, int]
	for _, k := range keys {
		n := &testNode[string, int]{k: k, v: 1}
		ev := p.OnAdd(n)
		if ev != nil {
			t.Fatalf("main has spare capacity, OnAdd(%s) must not evict, got %v", k, ev)
		}
		last = n
	}
	_ = last
	if _, ok := p.mainIdx["a"]; !ok {
		t.Fatal("a (the first window overflow departure) must have been promoted into main")
	}
}

func TestWTinyLFU_ColdCandidateLosesPromotionToHotMainVictim(t *testing.T) {
	t.Parallel()

	// windowCap=1, mainCap=1: every new key immediately contests
	// promotion against whatever already sits in main.
	h := &mockHooks[string, int]{}
	p := New[string, int](2, 0.5).New(h).(*wTinyLFU[string, int])

	hot := &testNode[string, int]{k: "hot", v: 1}
	p.OnAdd(hot) // enters window unconditionally

	filler := &testNode[string, int]{k: "filler", v: 2}
	p.OnAdd(filler) // evicts hot from window; main has spare capacity, hot promotes

	if _, ok := p.mainIdx["hot"]; !ok {
		t.Fatal("hot must have been promoted into main while main had spare capacity")
	}

	for i := 0; i < 20; i++ {
		p.admit.RecordAccess("hot")
	}

	cold := &testNode[string, int]{k: "cold", v: 3}
	evCold := p.OnAdd(cold) // evicts filler from the window, filler contests hot
	if evCold != filler {
		t.Fatalf("filler must lose its contest against the much hotter main resident, got %v", evCold)
	}
	if _, ok := p.mainIdx["hot"]; !ok {
		t.Fatal("hot must still reside in main")
	}
}

func TestWTinyLFU_OnRemoveDropsFromEitherRegion(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string, int]{}
	p := New[string, int](10, 0.5).New(h).(*wTinyLFU[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnAdd(n1)
	p.OnRemove(n1)

	if _, ok := p.windowIdx["a"]; ok {
		t.Fatal("a must be gone from the window after OnRemove")
	}
}
