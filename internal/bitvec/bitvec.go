// Package bitvec provides the bit-vector primitives used by the flip and
// plus engines to enforce size limits on rank-1 components.
package bitvec

import "math/bits"

// Count returns the number of set bits in v.
func Count(v uint64) int {
	return bits.OnesCount64(v)
}

// Below reports whether v has fewer than limit set bits.
//
// It clears the lowest set bit at most limit times, so the cost is bounded
// by limit rather than by the population count of v. The samplers call this
// with small limits on every candidate, which is why the early exit matters.
func Below(v uint64, limit int) bool {
	m := limit
	n := v
	for n != 0 && m != 0 {
		m--
		n &= n - 1
	}
	return m != 0
}

// Weight returns the product of the set-bit counts of the three components
// of a rank-1 term. It is the size measure used by the positive maxsize
// sampling mode.
func Weight(a, b, c uint64) int {
	return Count(a) * Count(b) * Count(c)
}
