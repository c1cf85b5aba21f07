package sketch

import "github.com/cachekit/cachekit/internal/util"

// bloomSeeds are the four hash-mixing constants used by Bloom's probes;
// Caffeine reuses them. Doorkeeper has its own doorkeeperSeeds.
var bloomSeeds = [4]uint64{
	0xc3a5c85c97cb3127,
	0xb492b66fbe98f273,
	0x9ae16a3b2f90404f,
	0xcbf29ce484222325,
}

const (
	bloomNumHashes   = 4
	bloomCounterBits = 4
	bloomResetMask   = 0x7777777777777777
)

// Bloom is a plain 4-bit counting Bloom filter: a table of 64-bit words
// each packing 16 saturating 4-bit counters, probed at four positions
// per item. Reset halves every counter (aging) but is caller-driven —
// Bloom never invokes it internally.
type Bloom[T comparable] struct {
	table []uint64
	hash  func(T) uint64
	size  int
}

// NewBloom constructs a Bloom sketch sized to capacity. A nil hash uses
// util.KeyHasher[T]'s default resolution.
func NewBloom[T comparable](capacity int, hash func(T) uint64) *Bloom[T] {
	if hash == nil {
		hash = util.KeyHasher[T]()
	}
	tableLen := int(util.NextPow2(uint64(capacity))) >> 2
	if tableLen < 1 {
		tableLen = 1
	}
	return &Bloom[T]{table: make([]uint64, tableLen), hash: hash}
}

func (b *Bloom[T]) getHash(item T, step int) uint32 {
	h := bloomSeeds[step] * b.hash(item)
	h += h >> 32
	return uint32(h)
}

func (b *Bloom[T]) getIndex(h uint32) int {
	return int(h) & (len(b.table) - 1)
}

func (b *Bloom[T]) getOffset(h uint32, step int) uint {
	return uint((((int(h) & 3) << 2) + step) << 2)
}

func (b *Bloom[T]) getCount(item T, step int) int {
	h := b.getHash(item, step)
	idx := b.getIndex(h)
	off := b.getOffset(h, step)
	return int((b.table[idx] >> off) & 0xF)
}

func (b *Bloom[T]) tryIncrement(item T, step int) bool {
	h := b.getHash(item, step)
	idx := b.getIndex(h)
	off := b.getOffset(h, step)
	if (b.table[idx]>>off)&0xF == 0xF {
		return false
	}
	b.table[idx] += 1 << off
	return true
}

// GetFrequency returns the minimum counter value over the four probes.
func (b *Bloom[T]) GetFrequency(item T) int {
	freq := 1<<bloomCounterBits + 1
	for i := 0; i < bloomNumHashes; i++ {
		if c := b.getCount(item, i); c < freq {
			freq = c
		}
	}
	return freq
}

// RecordAccess increments every probe counter that isn't already
// saturated at 15, bumping Size once if at least one counter moved.
func (b *Bloom[T]) RecordAccess(item T) {
	added := false
	for i := 0; i < bloomNumHashes; i++ {
		if b.tryIncrement(item, i) {
			added = true
		}
	}
	if added {
		b.size++
	}
}

// Size returns the running count of non-saturated increments: zeroed by
// Clear and halved by Reset.
func (b *Bloom[T]) Size() int { return b.size }

// Reset halves every counter in parallel (the standard 4-bit aging
// trick: shift right one bit under a mask that keeps each nibble's low
// bit from bleeding into its neighbor) and halves the running tally.
// Bloom never calls Reset itself; callers that want periodic aging
// (e.g. an admission front-end) must drive it.
func (b *Bloom[T]) Reset() {
	for i := range b.table {
		b.table[i] = (b.table[i] >> 1) & bloomResetMask
	}
	b.size >>= 1
}

// Clear zeroes every counter and the running tally.
func (b *Bloom[T]) Clear() {
	for i := range b.table {
		b.table[i] = 0
	}
	b.size = 0
}

var _ Sketch[int] = (*Bloom[int])(nil)
