package sketch

import "github.com/cachekit/cachekit/internal/util"

// doorkeeperSeeds mix the item hash before folding it into the bit
// array; same finalizer shape as a murmur3 64-bit mix.
var doorkeeperSeeds = [4]uint64{
	0x9e3779b97f4a7c15,
	0xbf58476d1ce4e5b9,
	0x94d049bb133111eb,
	0xff51afd7ed558ccd,
}

// Doorkeeper is a plain Bloom filter (one bit per slot, no counters)
// used to gate first-time admission into a counting sketch: one-hit
// wonders never touch the expensive counters behind it.
type Doorkeeper[T comparable] struct {
	bits []uint64
	mask uint64
	hash func(T) uint64
}

// NewDoorkeeper constructs a Doorkeeper sized to capacity (rounded up to
// a power-of-two bit count, minimum 64 bits). A nil hash uses
// util.KeyHasher[T]'s default resolution.
func NewDoorkeeper[T comparable](capacity int, hash func(T) uint64) *Doorkeeper[T] {
	if hash == nil {
		hash = util.KeyHasher[T]()
	}
	nbits := util.NextPow2(uint64(capacity))
	if nbits < 64 {
		nbits = 64
	}
	return &Doorkeeper[T]{
		bits: make([]uint64, nbits/64),
		mask: nbits - 1,
		hash: hash,
	}
}

func (d *Doorkeeper[T]) positions(item T) [4]uint64 {
	h := d.hash(item)
	var p [4]uint64
	for i, seed := range doorkeeperSeeds {
		x := h ^ seed
		x ^= x >> 33
		x *= 0xff51afd7ed558ccd
		x ^= x >> 33
		x *= 0xc4ceb9fe1a85ec53
		x ^= x >> 33
		p[i] = x & d.mask
	}
	return p
}

// Put records item as observed.
func (d *Doorkeeper[T]) Put(item T) {
	for _, pos := range d.positions(item) {
		d.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Contains reports whether item has been Put before (subject to the
// filter's false-positive rate; never a false negative).
func (d *Doorkeeper[T]) Contains(item T) bool {
	for _, pos := range d.positions(item) {
		if d.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// Clear unsets every bit. There is no deletion primitive.
func (d *Doorkeeper[T]) Clear() {
	for i := range d.bits {
		d.bits[i] = 0
	}
}
