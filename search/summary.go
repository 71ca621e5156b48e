package search

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/flipgraph/multimap"
	"github.com/hupe1980/flipgraph/state"
)

// Summary describes a decomposition at rest, without constructing the
// engine around it.
type Summary struct {
	Achieved  int
	Distinct  int
	Colliding int
	LiveTerms *roaring.Bitmap
}

// Summarize indexes a snapshot's components and reports its rank and
// collision census.
func Summarize(snap *state.Snapshot) Summary {
	mm := multimap.New(snap.NoMuls)
	sum := Summary{LiveTerms: roaring.New()}
	for i, m := range snap.Muls {
		if m == 0 {
			continue
		}
		mm.Add(m, i)
		sum.Achieved++
		sum.LiveTerms.Add(uint32(i / snap.Symm))
	}
	sum.Distinct = mm.Keys()
	sum.Colliding = mm.Collisions()
	return sum
}
