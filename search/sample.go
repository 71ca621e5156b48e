package search

import "github.com/hupe1980/flipgraph/internal/bitvec"

// drawPair draws one ordered pair of slots sharing a value: a colliding
// value uniformly at random, then an ordered pair of distinct positions
// within its slot row. The bias toward values with low multiplicity is
// deliberate and part of the walk's behavior.
//
// One 32-bit word feeds all three decisions: the low bits pick the value,
// bit 16 orients a two-slot row, and the high half indexes the pair table
// for longer rows.
func (s *Search) drawPair() (p, q int) {
	w := s.rng.Uint32()
	cs := s.mm.Colliding()
	row := s.mm.Slots(cs[w%uint32(len(cs))])
	if len(row) == 2 {
		if w&(1<<16) != 0 {
			return int(row[0]), int(row[1])
		}
		return int(row[1]), int(row[0])
	}
	x := (w >> 16) % uint32(combs[len(row)])
	return int(row[pairPs[x]]), int(row[pairQs[x]])
}

// sample picks the colliding pair for the next flip, honoring the permit
// matrix and the active size mode. With maxsize zero it retries until a
// permitted pair appears; the two size-constrained modes give up after
// sampleAttempts draws and report failure, in which case the walk ends
// with CodeSizeLimit and the failed step mutates nothing.
func (s *Search) sample() (p, q int, ok bool) {
	switch {
	case s.maxsize == 0:
		for {
			p, q = s.drawPair()
			if s.part.Permitted(p, q) {
				return p, q, true
			}
		}
	case s.maxsize > 0:
		// Both rewritten terms must stay within the multiplicative
		// weight budget.
		for k := 0; k < sampleAttempts; k++ {
			p, q = s.drawPair()
			mpe := s.muls[s.part.E(p)]
			mpf := s.muls[s.part.F(p)]
			mqe := s.muls[s.part.E(q)]
			mqf := s.muls[s.part.F(q)]
			psize := bitvec.Weight(s.muls[p], mqe^mpe, mpf)
			qsize := bitvec.Weight(s.muls[q], mqe, mqf^mpf)
			if s.part.Permitted(p, q) && psize <= s.maxsize && qsize <= s.maxsize {
				return p, q, true
			}
		}
		return 0, 0, false
	default:
		// Negative maxsize bounds the popcount of the two fresh values.
		for k := 0; k < sampleAttempts; k++ {
			p, q = s.drawPair()
			mpen := s.muls[s.part.E(q)] ^ s.muls[s.part.E(p)]
			mqfn := s.muls[s.part.F(q)] ^ s.muls[s.part.F(p)]
			if s.part.Permitted(p, q) && bitvec.Below(mpen, s.exceed) && bitvec.Below(mqfn, s.exceed) {
				return p, q, true
			}
		}
		return 0, 0, false
	}
}
