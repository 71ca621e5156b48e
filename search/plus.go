package search

import "github.com/hupe1980/flipgraph/internal/bitvec"

// plusOK filters a plus-move candidate: both terms live, the three position
// pairs carrying pairwise-distinct values, the orbits distinct, and the
// rewritten terms inside the active size budget.
func (s *Search) plusOK(p, q int, mpd, mpe, mpf, mqd, mqe, mqf, mpen, mqfn, mrdn uint64) bool {
	if mpd == 0 || mqd == 0 {
		return false
	}
	if mpd == mqd || mpe == mqe || mpf == mqf {
		return false
	}
	if !s.part.Permitted(p, q) {
		return false
	}
	switch {
	case s.maxsize > 0:
		if bitvec.Weight(mpd, mpen, mpf) > s.maxsize ||
			bitvec.Weight(mpd, mqe, mqfn) > s.maxsize ||
			bitvec.Weight(mrdn, mqe, mqf) > s.maxsize {
			return false
		}
	case s.maxsize < 0:
		if !bitvec.Below(mpen, s.exceed) || !bitvec.Below(mqfn, s.exceed) || !bitvec.Below(mrdn, s.exceed) {
			return false
		}
	}
	return true
}

// plus3 rewrites two live terms into three, reviving the lowest dead
// term. The expansion injects fresh collisions so the walk can leave a
// plateau; rank rises by three.
func (s *Search) plus3() {
	r := s.firstZero()

	var (
		p, q             int
		mpd, mpe, mpf    uint64
		mqd, mqe, mqf    uint64
		mpen, mqfn, mrdn uint64
	)
	for {
		p = s.rng.Mod(s.nomuls)
		q = s.rng.Mod(s.nomuls)
		mpd, mpe, mpf = s.muls[p], s.muls[s.part.E(p)], s.muls[s.part.F(p)]
		mqd, mqe, mqf = s.muls[q], s.muls[s.part.E(q)], s.muls[s.part.F(q)]
		mpen = mpe ^ mqe
		mqfn = mpf ^ mqf
		mrdn = mpd ^ mqd
		if s.plusOK(p, q, mpd, mpe, mpf, mqd, mqe, mqf, mpen, mqfn, mrdn) {
			break
		}
	}

	s.replace(s.part.E(p), mpe, mpen)
	s.replace(q, mqd, mpd)
	s.replace(s.part.F(q), mqf, mqfn)
	s.place(r, mrdn)
	s.place(s.part.E(r), mqe)
	s.place(s.part.F(r), mqf)

	s.plusMoves += 3
	s.achieved += 3
	s.schedulePlus()
	s.metrics.RecordPlus(s.achieved)
}

// plus6 is the paired expansion: the rewrite of plus3 applied to the
// sampled slots and to their opposite halves, reviving a whole dead
// sextuple. The size budget is checked on the first half, the liveness
// and distinctness conditions on both.
func (s *Search) plus6() {
	r := s.firstZero()
	rr := r + 3

	var (
		p, q, pp, qq        int
		mpd, mpe, mpf       uint64
		mqd, mqe, mqf       uint64
		mppd, mppe, mppf    uint64
		mqqd, mqqe, mqqf    uint64
		mpen, mqfn, mrdn    uint64
		mppen, mqqfn, mrrdn uint64
	)
	for {
		p = s.rng.Mod(s.nomuls)
		q = s.rng.Mod(s.nomuls)
		pp, qq = s.part.Half(p), s.part.Half(q)
		mpd, mpe, mpf = s.muls[p], s.muls[s.part.E(p)], s.muls[s.part.F(p)]
		mqd, mqe, mqf = s.muls[q], s.muls[s.part.E(q)], s.muls[s.part.F(q)]
		mppd, mppe, mppf = s.muls[pp], s.muls[s.part.E(pp)], s.muls[s.part.F(pp)]
		mqqd, mqqe, mqqf = s.muls[qq], s.muls[s.part.E(qq)], s.muls[s.part.F(qq)]
		mpen = mpe ^ mqe
		mqfn = mpf ^ mqf
		mrdn = mpd ^ mqd
		mppen = mppe ^ mqqe
		mqqfn = mppf ^ mqqf
		mrrdn = mppd ^ mqqd
		if !s.plusOK(p, q, mpd, mpe, mpf, mqd, mqe, mqf, mpen, mqfn, mrdn) {
			continue
		}
		if mppd == 0 || mqqd == 0 {
			continue
		}
		if mppd == mqqd || mppe == mqqe || mppf == mqqf {
			continue
		}
		break
	}

	s.replace(s.part.E(p), mpe, mpen)
	s.replace(q, mqd, mpd)
	s.replace(s.part.F(q), mqf, mqfn)
	s.place(r, mrdn)
	s.place(s.part.E(r), mqe)
	s.place(s.part.F(r), mqf)

	s.replace(s.part.E(pp), mppe, mppen)
	s.replace(qq, mqqd, mppd)
	s.replace(s.part.F(qq), mqqf, mqqfn)
	s.place(rr, mrrdn)
	s.place(s.part.E(rr), mqqe)
	s.place(s.part.F(rr), mqqf)

	s.plusMoves += 6
	s.achieved += 6
	s.schedulePlus()
	s.metrics.RecordPlus(s.achieved)
}
