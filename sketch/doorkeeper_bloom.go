package sketch

// DoorkeeperBloom composes a Doorkeeper with a plain Bloom sketch: the
// first access to an item only sets its doorkeeper bit; only a second
// access records into the expensive counting sketch. GetFrequency adds
// one when the doorkeeper bit is set, so a one-hit item still reads as
// frequency 1 instead of 0.
type DoorkeeperBloom[T comparable] struct {
	door *Doorkeeper[T]
	main *Bloom[T]
}

// NewDoorkeeperBloom constructs a gated sketch sized to capacity. A nil
// hash uses util.KeyHasher[T]'s default resolution for both the
// doorkeeper and the main sketch.
func NewDoorkeeperBloom[T comparable](capacity int, hash func(T) uint64) *DoorkeeperBloom[T] {
	return &DoorkeeperBloom[T]{
		door: NewDoorkeeper[T](capacity, hash),
		main: NewBloom[T](capacity, hash),
	}
}

// GetFrequency returns the main sketch's estimate plus one if item has
// passed the doorkeeper.
func (d *DoorkeeperBloom[T]) GetFrequency(item T) int {
	f := d.main.GetFrequency(item)
	if d.door.Contains(item) {
		f++
	}
	return f
}

// RecordAccess sets item's doorkeeper bit on first sight; only a
// repeat access reaches the main sketch.
func (d *DoorkeeperBloom[T]) RecordAccess(item T) {
	if !d.door.Contains(item) {
		d.door.Put(item)
		return
	}
	d.main.RecordAccess(item)
}

// Size reports the main sketch's tally (the doorkeeper has no tally).
func (d *DoorkeeperBloom[T]) Size() int { return d.main.Size() }

// Clear resets both the doorkeeper and the main sketch.
func (d *DoorkeeperBloom[T]) Clear() {
	d.door.Clear()
	d.main.Clear()
}

var _ Sketch[int] = (*DoorkeeperBloom[int])(nil)
