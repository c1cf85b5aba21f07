package util

import "github.com/dolthub/maphash"

// GenericHasher wraps dolthub/maphash.Hasher so callers (KeyHasher, and
// through it the sketch constructors) get a decent hash for arbitrary comparable key types without
// writing a type switch themselves.
type GenericHasher[K comparable] struct {
	h maphash.Hasher[K]
}

// NewGenericHasher builds a GenericHasher for K. Construction is cheap
// but not free (it seeds an internal maphash.Hash); reuse the returned
// value rather than constructing one per call.
func NewGenericHasher[K comparable]() GenericHasher[K] {
	return GenericHasher[K]{h: maphash.NewHasher[K]()}
}

// Hash returns a 64-bit hash of k.
func (g GenericHasher[K]) Hash(k K) uint64 { return g.h.Hash(k) }

// KeyHasher resolves a reasonable default hash function for K: xxhash for
// string/[]byte keys (the common case for cache keys), falling back to a
// maphash-backed generic hasher for everything else.
func KeyHasher[K comparable]() func(K) uint64 {
	var zero K
	switch any(zero).(type) {
	case string:
		return func(k K) uint64 { return XXHash64String(any(k).(string)) }
	case []byte:
		return func(k K) uint64 { return XXHash64Bytes(any(k).([]byte)) }
	default:
		h := NewGenericHasher[K]()
		return func(k K) uint64 { return h.Hash(k) }
	}
}
