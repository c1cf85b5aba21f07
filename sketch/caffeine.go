package sketch

import (
	"math"
	"math/bits"

	"github.com/cachekit/cachekit/internal/util"
)

// caffeineSeeds reuse the same four mixing constants as Bloom; the
// Caffeine layout only differs in its table sizing and aging schedule.
var caffeineSeeds = bloomSeeds

const (
	caffeineResetMask = 0x7777777777777777
	caffeineOneMask   = 0x1111111111111111
)

// Caffeine is the Caffeine-style frequency sketch: a power-of-two table
// with 16 4-bit counters per 64-bit word, four probes per item via a
// 32-bit avalanche mix (Spread) plus a multiplicative IndexOf, and
// periodic aging triggered once the running tally hits sampleSize
// (10x capacity, with capacity first capped at MaxInt32/2).
type Caffeine[T comparable] struct {
	table      []uint64
	hash       func(T) uint64
	size       int64
	tableMask  int32
	sampleSize int64
}

// NewCaffeine constructs a Caffeine sketch sized to capacity. A nil
// hash uses util.KeyHasher[T]'s default resolution.
func NewCaffeine[T comparable](capacity int, hash func(T) uint64) *Caffeine[T] {
	if hash == nil {
		hash = util.KeyHasher[T]()
	}
	if capacity < 1 {
		capacity = 1
	}
	tableLen := int(util.NextPow2(uint64(capacity)))

	maximum := capacity
	if maximum > math.MaxInt32>>1 {
		maximum = math.MaxInt32 >> 1
	}

	return &Caffeine[T]{
		table:      make([]uint64, tableLen),
		hash:       hash,
		tableMask:  int32(tableLen - 1),
		sampleSize: int64(10 * maximum),
	}
}

// spread re-mixes a 32-bit hash for better avalanche behavior before
// it is split into four probe indices (Caffeine's own finalizer, not a
// generic murmur variant).
func spread(x uint32) int32 {
	x = (x>>16 ^ x) * 0x45d9f3b
	x = (x>>16 ^ x) * 0x45d9f3b
	return int32((x >> 16) ^ x)
}

func (c *Caffeine[T]) indexOf(h int32, i int32) int32 {
	seed := int64(caffeineSeeds[i])
	v := (int64(h) + seed) * seed
	v += v >> 32
	return int32(v) & c.tableMask
}

func (c *Caffeine[T]) incrementAt(i, j int32) bool {
	offset := uint(j) << 2
	mask := uint64(0xF) << offset
	if c.table[i]&mask == mask {
		return false
	}
	c.table[i] += 1 << offset
	return true
}

// GetFrequency returns the minimum counter value over the four probes.
func (c *Caffeine[T]) GetFrequency(item T) int {
	h := spread(uint32(c.hash(item)))
	start := (h & 3) << 2
	freq := 1<<bloomCounterBits + 1
	for i := int32(0); i < 4; i++ {
		idx := c.indexOf(h, i)
		count := int((c.table[idx] >> uint((start+i)<<2)) & 0xF)
		if count < freq {
			freq = count
		}
	}
	return freq
}

// RecordAccess increments all four probes (saturating at 15). Once the
// running tally reaches sampleSize, every counter is halved.
func (c *Caffeine[T]) RecordAccess(item T) {
	h := spread(uint32(c.hash(item)))
	start := (h & 3) << 2

	var idx [4]int32
	for i := int32(0); i < 4; i++ {
		idx[i] = c.indexOf(h, i)
	}

	added := c.incrementAt(idx[0], start)
	for i := int32(1); i < 4; i++ {
		if c.incrementAt(idx[i], start+i) {
			added = true
		}
	}

	if added {
		c.size++
		if c.size == c.sampleSize {
			c.reset()
		}
	}
}

// reset halves every counter, compensating the running tally for the
// "lost" bits the way Caffeine's own reset does: count the number of
// odd (about-to-be-truncated) counters via their low bit, then fold
// that into the post-halving size.
func (c *Caffeine[T]) reset() {
	var lost int64
	for i := range c.table {
		lost += int64(bits.OnesCount64(c.table[i] & caffeineOneMask))
		c.table[i] = (c.table[i] >> 1) & caffeineResetMask
	}
	c.size = (c.size - (lost >> 2)) >> 1
}

// Size returns the running tally; each aging reset halves it rather
// than zeroing it.
func (c *Caffeine[T]) Size() int { return int(c.size) }

// Clear zeroes every counter and the running tally.
func (c *Caffeine[T]) Clear() {
	for i := range c.table {
		c.table[i] = 0
	}
	c.size = 0
}

var _ Sketch[int] = (*Caffeine[int])(nil)
