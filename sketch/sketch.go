// Package sketch implements the frequency-sketch family that feeds
// Tiny/W-TinyLFU admission: a plain 4-bit counting Bloom filter, a
// doorkeeper-gated variant, and a Caffeine-style variant with periodic
// aging. All three share the Sketch interface.
//
// None of the sketches are safe for concurrent use without an external
// lock — see the cache package for how the shard layer provides one.
package sketch

// Sketch is the common contract for every frequency-sketch variant.
type Sketch[T comparable] interface {
	// RecordAccess increments the estimate for item, saturating at 15.
	RecordAccess(item T)
	// GetFrequency returns a conservative (minimum-over-probes) estimate
	// of item's access count, in [0, 15] for Bloom/Caffeine and
	// [0, 16] for DoorkeeperBloom.
	GetFrequency(item T) int
	// Size reports the number of non-saturated increments recorded
	// since the last reset.
	Size() int
	// Clear zeroes every counter.
	Clear()
}
