// Package admission implements the TinyLFU admission test and the
// W-TinyLFU window front-end built on top of it. Both consult a
// sketch.Sketch for frequency estimates and core.RecencyMap for the
// underlying recency structures; neither is safe for concurrent use
// without an external lock.
package admission

import "github.com/cachekit/cachekit/sketch"

// TinyLFU is the admission decision: admit a candidate over a nominated
// victim iff the candidate's estimated frequency exceeds the victim's.
type TinyLFU[T comparable] struct {
	sketch sketch.Sketch[T]
}

// NewTinyLFU wraps an existing sketch as an admission filter.
func NewTinyLFU[T comparable](s sketch.Sketch[T]) *TinyLFU[T] {
	return &TinyLFU[T]{sketch: s}
}

// RecordAccess feeds an observed access into the underlying sketch.
func (t *TinyLFU[T]) RecordAccess(item T) { t.sketch.RecordAccess(item) }

// Admit reports whether candidate should displace victim.
func (t *TinyLFU[T]) Admit(candidate, victim T) bool {
	return t.sketch.GetFrequency(candidate) > t.sketch.GetFrequency(victim)
}

// Frequency exposes the underlying sketch's estimate, for callers (e.g.
// policy/lfu) that want a ranking function rather than a pairwise test.
func (t *TinyLFU[T]) Frequency(item T) int { return t.sketch.GetFrequency(item) }

// Size exposes the underlying sketch's running sample tally, for
// callers that want to report it as a metrics gauge.
func (t *TinyLFU[T]) Size() int { return t.sketch.Size() }
