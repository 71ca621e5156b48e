package search

import "github.com/bits-and-blooms/bitset"

// Partition holds the read-only triple structure of a decomposition: the
// partner maps linking the three positions of each rank-1 term and the
// permit matrix forbidding flips inside a symmetry orbit. It is built once
// and never mutated.
type Partition struct {
	n    int
	symm int

	me []int32
	mf []int32

	// permit[i] has bit j set iff slots i and j live in different orbits.
	permit []*bitset.BitSet
}

// NewPartition builds the partner maps and permit matrix for n slots under
// the given symmetry (3 or 6).
func NewPartition(n, symm int) *Partition {
	p := &Partition{
		n:      n,
		symm:   symm,
		me:     make([]int32, n),
		mf:     make([]int32, n),
		permit: make([]*bitset.BitSet, n),
	}
	for i := 0; i < n; i += 3 {
		p.me[i] = int32(i + 2)
		p.mf[i] = int32(i + 1)
		p.me[i+1] = int32(i)
		p.mf[i+1] = int32(i + 2)
		p.me[i+2] = int32(i + 1)
		p.mf[i+2] = int32(i)
	}
	for i := 0; i < n; i++ {
		row := bitset.New(uint(n))
		for j := 0; j < n; j++ {
			if i/symm != j/symm {
				row.Set(uint(j))
			}
		}
		p.permit[i] = row
	}
	return p
}

// E returns the first partner of slot i within its triple.
func (p *Partition) E(i int) int { return int(p.me[i]) }

// F returns the second partner of slot i within its triple.
func (p *Partition) F(i int) int { return int(p.mf[i]) }

// Permitted reports whether a flip between slots i and j is allowed,
// i.e. the slots belong to different orbits.
func (p *Partition) Permitted(i, j int) bool {
	return p.permit[i].Test(uint(j))
}

// Orbit returns the symmetry orbit of slot i.
func (p *Partition) Orbit(i int) int { return i / p.symm }

// Half returns the paired slot of i in the opposite half of its sextuple.
// Only meaningful when symm is 6.
func (p *Partition) Half(i int) int {
	if i%6 < 3 {
		return i + 3
	}
	return i - 3
}
