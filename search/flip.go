package search

import "context"

// run3 is the symm=3 walk: one flip per iteration, each consuming three
// flip-budget units.
func (s *Search) run3(ctx context.Context) {
	for {
		if s.mm.Collisions() == 0 {
			s.rcode = CodeExhausted
			return
		}
		s.flips += 3

		p, q, ok := s.sample()
		if !ok {
			s.rcode = CodeSizeLimit
			return
		}
		if s.step3(p, q) {
			return
		}
		if s.tick(ctx) {
			return
		}
	}
}

// step3 applies one flip to the sampled pair and handles the cascade.
// It reports whether the walk ends.
func (s *Search) step3(p, q int) (stop bool) {
	ep, fp := s.part.E(p), s.part.F(p)
	eq, fq := s.part.E(q), s.part.F(q)
	mpe, mpf := s.muls[ep], s.muls[fp]
	mqe, mqf := s.muls[eq], s.muls[fq]
	mpen := mqe ^ mpe
	mqfn := mqf ^ mpf

	s.replace(ep, mpe, mpen)
	s.replace(fq, mqf, mqfn)

	if mpen == 0 {
		s.mm.Remove(s.muls[p], p)
		s.mm.Remove(mpf, fp)
		s.muls[p] = 0
		s.muls[fp] = 0
		if s.afterCollapse() {
			return true
		}
	}
	if mqfn == 0 {
		s.mm.Remove(s.muls[q], q)
		s.mm.Remove(mqe, eq)
		s.muls[q] = 0
		s.muls[eq] = 0
		if s.afterCollapse() {
			return true
		}
	}
	return false
}

// run6 is the symm=6 walk. Every flip is applied twice, to the sampled
// pair and to the paired slots in the opposite halves of their sextuples.
func (s *Search) run6(ctx context.Context) {
	for {
		if s.mm.Collisions() == 0 {
			s.rcode = CodeExhausted
			return
		}
		s.flips += 6

		p, q, ok := s.sample()
		if !ok {
			s.rcode = CodeSizeLimit
			return
		}
		if s.step6(p, q) {
			return
		}
		if s.tick(ctx) {
			return
		}
	}
}

// step6 applies the paired flip: both halves commit before the cascade
// checks. A sextuple collapses when its fresh value is zero or when its
// two halves now coincide componentwise.
func (s *Search) step6(p, q int) (stop bool) {
	pp, qq := s.part.Half(p), s.part.Half(q)
	ep, fp := s.part.E(p), s.part.F(p)
	eq, fq := s.part.E(q), s.part.F(q)
	epp, fpp := s.part.E(pp), s.part.F(pp)
	eqq, fqq := s.part.E(qq), s.part.F(qq)

	mpd, mpe, mpf := s.muls[p], s.muls[ep], s.muls[fp]
	mqd, mqe, mqf := s.muls[q], s.muls[eq], s.muls[fq]
	mppd, mppe, mppf := s.muls[pp], s.muls[epp], s.muls[fpp]
	mqqd, mqqe, mqqf := s.muls[qq], s.muls[eqq], s.muls[fqq]

	mpen := mqe ^ mpe
	mqfn := mqf ^ mpf
	mppen := mqqe ^ mppe
	mqqfn := mqqf ^ mppf

	s.replace(ep, mpe, mpen)
	s.replace(epp, mppe, mppen)
	s.replace(fq, mqf, mqfn)
	s.replace(fqq, mqqf, mqqfn)

	if mpen == 0 || (mpd == mppd && mpen == mppen && mpf == mppf) {
		s.collapseFirst6(p, pp, mpd, mpen, mpf, mppd, mppen, mppf)
		if s.afterCollapse() {
			return true
		}
	}
	if mqfn == 0 || (mqd == mqqd && mqe == mqqe && mqfn == mqqfn) {
		s.collapseSecond6(q, qq, mqd, mqe, mqfn, mqqd, mqqe, mqqfn)
		if s.afterCollapse() {
			return true
		}
	}
	return false
}

// collapseFirst6 deletes the sextuple containing p after its E-side flip.
// The E slots hold fresh nonzero values exactly when the collapse came
// from the halves coinciding; only then do they need explicit zeroing.
func (s *Search) collapseFirst6(p, pp int, mpd, mpen, mpf, mppd, mppen, mppf uint64) {
	ep, fp := s.part.E(p), s.part.F(p)
	epp, fpp := s.part.E(pp), s.part.F(pp)

	s.mm.Remove(mpd, p)
	if mpen != 0 {
		s.mm.Remove(mpen, ep)
	}
	s.mm.Remove(mpf, fp)
	s.muls[p] = 0
	s.muls[fp] = 0

	s.mm.Remove(mppd, pp)
	if mppen != 0 {
		s.mm.Remove(mppen, epp)
	}
	s.mm.Remove(mppf, fpp)
	s.muls[pp] = 0
	s.muls[fpp] = 0

	if mpen != 0 {
		s.muls[ep] = 0
		s.muls[epp] = 0
	}
}

// collapseSecond6 deletes the sextuple containing q after its F-side flip.
func (s *Search) collapseSecond6(q, qq int, mqd, mqe, mqfn, mqqd, mqqe, mqqfn uint64) {
	eq, fq := s.part.E(q), s.part.F(q)
	eqq, fqq := s.part.E(qq), s.part.F(qq)

	s.mm.Remove(mqd, q)
	s.mm.Remove(mqe, eq)
	if mqfn != 0 {
		s.mm.Remove(mqfn, fq)
	}
	s.muls[q] = 0
	s.muls[eq] = 0

	s.mm.Remove(mqqd, qq)
	s.mm.Remove(mqqe, eqq)
	if mqqfn != 0 {
		s.mm.Remove(mqqfn, fqq)
	}
	s.muls[qq] = 0
	s.muls[eqq] = 0

	if mqfn != 0 {
		s.muls[fq] = 0
		s.muls[fqq] = 0
	}
}
