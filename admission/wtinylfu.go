package admission

import "github.com/cachekit/cachekit/core"

// defaultWindowRatio is the fraction of total capacity reserved for the
// window region when a caller does not specify one.
const defaultWindowRatio = 0.01

// WindowTinyLFU is the W-TinyLFU front-end: a small recency-ordered
// window region that every new key enters unconditionally, ahead of a
// larger main region that a key only enters by winning the TinyLFU
// admission test against the main region's nominated victim. Structure
// follows the window+main+admission-filter split (grounded on the
// samber-hot wtinylfu package); the victim-sampling idiom of testing a
// single nominated victim per promotion is adapted from the ristretto
// lfuPolicy.Add admission loop to this package's exact-victim-from-
// recency-structure design (the main region's own LRU tail) rather than
// ristretto's random cost-based sampling.
//
// WindowTinyLFU is not safe for concurrent use; callers must serialize
// access the same way core.RecencyMap requires.
type WindowTinyLFU[K comparable, V any] struct {
	window *core.RecencyMap[K, V]
	main   *core.RecencyMap[K, V]
	admit  *TinyLFU[K]
}

// NewWindowTinyLFU builds a window+main split sized to capacity. A
// windowRatio of 0 falls back to defaultWindowRatio (1%); the window
// always gets at least one slot when capacity > 0.
func NewWindowTinyLFU[K comparable, V any](capacity int, admit *TinyLFU[K], windowRatio float64) *WindowTinyLFU[K, V] {
	if windowRatio <= 0 {
		windowRatio = defaultWindowRatio
	}
	windowCap := int(float64(capacity) * windowRatio)
	if windowCap < 1 && capacity > 0 {
		windowCap = 1
	}
	mainCap := capacity - windowCap
	if mainCap < 0 {
		mainCap = 0
	}
	return &WindowTinyLFU[K, V]{
		window: core.New[K, V](windowCap),
		main:   core.New[K, V](mainCap),
		admit:  admit,
	}
}

// GetSize returns the number of entries resident across both regions.
func (w *WindowTinyLFU[K, V]) GetSize() int { return w.window.GetSize() + w.main.GetSize() }

// Get looks up k in the window, then the main region, promoting and
// recording a sketch access on a hit in either.
func (w *WindowTinyLFU[K, V]) Get(k K) *V {
	if v := w.window.Get(k); v != nil {
		w.admit.RecordAccess(k)
		return v
	}
	if v := w.main.Get(k); v != nil {
		w.admit.RecordAccess(k)
		return v
	}
	return nil
}

// Contains reports residency in either region without promoting.
func (w *WindowTinyLFU[K, V]) Contains(k K) bool {
	return w.window.Contains(k) || w.main.Contains(k)
}

// Put inserts or updates k→v. An update to a resident key refreshes it
// in place without disturbing the other region. A new key always enters
// the window; if that overflows the window, the window's LRU victim
// attempts promotion into the main region, subject to the admission
// test against the main region's own LRU victim.
func (w *WindowTinyLFU[K, V]) Put(k K, v V) {
	w.admit.RecordAccess(k)

	if w.window.Contains(k) {
		w.window.Put(k, v)
		return
	}
	if w.main.Contains(k) {
		w.main.Put(k, v)
		return
	}

	var evictedKey K
	var evictedVal V
	hadEviction := false
	if w.window.MaxSize() > 0 && w.window.GetSize() >= w.window.MaxSize() {
		evictedKey = *w.window.GetLeastUsedKey()
		evictedVal = *w.window.GetLeastUsedValue()
		hadEviction = true
		w.window.Erase(evictedKey)
	}
	w.window.Put(k, v)

	if hadEviction {
		w.promote(evictedKey, evictedVal)
	}
}

// promote runs the admission test for a key leaving the window. It is
// inserted directly if the main region has spare capacity; otherwise it
// only displaces the main region's LRU victim if the admission filter
// says the candidate is estimated to be accessed more often than the
// victim. A losing candidate is simply dropped, matching TinyLFU's
// "skip insertion" outcome rather than forcing a swap.
func (w *WindowTinyLFU[K, V]) promote(candidateKey K, candidateVal V) {
	if w.main.GetSize() < w.main.MaxSize() {
		w.main.Put(candidateKey, candidateVal)
		return
	}
	victim := w.main.GetLeastUsedKey()
	if victim == nil {
		w.main.Put(candidateKey, candidateVal)
		return
	}
	if w.admit.Admit(candidateKey, *victim) {
		w.main.Erase(*victim)
		w.main.Put(candidateKey, candidateVal)
	}
}

// Erase removes k from whichever region holds it. Idempotent.
func (w *WindowTinyLFU[K, V]) Erase(k K) {
	w.window.Erase(k)
	w.main.Erase(k)
}

// Clear empties both regions.
func (w *WindowTinyLFU[K, V]) Clear() {
	w.window.Clear()
	w.main.Clear()
}

// VisitAll invokes f(k, v) for every resident entry, window first.
func (w *WindowTinyLFU[K, V]) VisitAll(f func(K, V)) {
	w.window.VisitAll(f)
	w.main.VisitAll(f)
}
