package engine

import (
	"math"
	"math/bits"
	"math/rand"
)

// countingSource counts draws from the underlying source so the exact
// stream position can be restored later.
type countingSource struct {
	src   rand.Source
	draws int64
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.draws = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts source draws, enabling save/restore.
type RNG struct {
	seed int64
	cs   *countingSource
	src  *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		cs:   cs,
		src:  rand.New(cs),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Range returns a uniformly random integer in [lo, hi]. lo must not exceed hi.
// A degenerate range returns lo without consuming randomness.
func (r *RNG) Range(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	span := uint64(hi) - uint64(lo)
	if span < math.MaxInt64 {
		return lo + int(r.src.Int63n(int64(span)+1))
	}
	// span+1 does not fit Int63n; at least half of all draws land in range.
	for {
		if v := r.src.Uint64(); v <= span {
			return lo + int(v)
		}
	}
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values. The cumulative walk
// goes in order, so the earlier entry wins at a boundary. Totals past the
// int range are summed and drawn in 128 bits.
func (r *RNG) WeightedSelect(weights []int) int {
	var hi, lo uint64
	for _, w := range weights {
		var carry uint64
		lo, carry = bits.Add64(lo, uint64(w), 0)
		hi += carry
	}

	var rollHi, rollLo uint64
	if hi == 0 && lo <= math.MaxInt {
		rollLo = uint64(r.src.Intn(int(lo)))
	} else {
		rollHi, rollLo = r.below128(hi, lo)
	}

	var cumHi, cumLo uint64
	for i, w := range weights {
		var carry uint64
		cumLo, carry = bits.Add64(cumLo, uint64(w), 0)
		cumHi += carry
		if rollHi < cumHi || (rollHi == cumHi && rollLo < cumLo) {
			return i
		}
	}
	return len(weights) - 1
}

// below128 draws uniformly from [0, hi:lo) by rejection.
func (r *RNG) below128(hi, lo uint64) (uint64, uint64) {
	if hi == 0 {
		for {
			if v := r.src.Uint64(); v < lo {
				return 0, v
			}
		}
	}
	mask := uint64(1)<<bits.Len64(hi) - 1
	for {
		h, l := r.src.Uint64()&mask, r.src.Uint64()
		if h < hi || (h == hi && l < lo) {
			return h, l
		}
	}
}

// Position returns the number of source draws made since creation.
func (r *RNG) Position() int64 {
	return r.cs.draws
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.cs.Int63()
	}
	return rng
}
