package sketch

import "testing"

// With capacity 1, sample_size is 10; after 10 successful RecordAccess
// calls the internal Reset fires and halves every counter.
func TestCaffeine_AgesAtSampleSize(t *testing.T) {
	t.Parallel()

	c := NewCaffeine[string](1, nil)
	if c.sampleSize != 10 {
		t.Fatalf("sampleSize want 10 for capacity 1, got %d", c.sampleSize)
	}

	for i := 0; i < 9; i++ {
		c.RecordAccess("x")
	}
	freqBeforeReset := c.GetFrequency("x")

	c.RecordAccess("x") // the 10th access triggers Reset
	freqAfterReset := c.GetFrequency("x")

	if freqAfterReset > freqBeforeReset {
		t.Fatalf("frequency must not increase across an aging reset: before=%d after=%d", freqBeforeReset, freqAfterReset)
	}
	if c.Size() < 0 {
		t.Fatalf("Size must never go negative, got %d", c.Size())
	}
}

func TestCaffeine_FrequencyInRange(t *testing.T) {
	t.Parallel()

	c := NewCaffeine[int](4096, nil)
	for i := 0; i < 5000; i++ {
		c.RecordAccess(i % 500)
	}
	for k := 0; k < 500; k++ {
		f := c.GetFrequency(k)
		if f < 0 || f > 15 {
			t.Fatalf("GetFrequency(%d) = %d out of [0,15]", k, f)
		}
	}
}

func TestCaffeine_ClearIdempotent(t *testing.T) {
	t.Parallel()

	c := NewCaffeine[string](64, nil)
	c.RecordAccess("x")
	c.Clear()
	c.Clear()
	if f := c.GetFrequency("x"); f != 0 {
		t.Fatalf("GetFrequency want 0 after Clear, got %d", f)
	}
	if c.Size() != 0 {
		t.Fatalf("Size want 0 after Clear, got %d", c.Size())
	}
}

func TestCaffeine_DistinctKeysDistinctHashFn(t *testing.T) {
	t.Parallel()

	c := NewCaffeine[int](1024, func(i int) uint64 { return uint64(i) })
	c.RecordAccess(42)
	c.RecordAccess(42)
	if f := c.GetFrequency(42); f != 2 {
		t.Fatalf("GetFrequency(42) want 2, got %d", f)
	}
	if f := c.GetFrequency(43); f != 0 {
		t.Fatalf("GetFrequency(43) want 0 (untouched key), got %d", f)
	}
}
