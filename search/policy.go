package search

// Termination codes reported through the state file's rcode field.
const (
	// CodeRunning is the initial code. A run that reaches its target rank
	// ends with this code unchanged.
	CodeRunning = 0

	// CodeExhausted means no colliding values remain to flip.
	CodeExhausted = -1

	// CodeFlipLimit means the global flip budget was spent.
	CodeFlipLimit = 1

	// CodeSplitLimit means the per-minimum deadline passed before the
	// global budget; recovery snapshots also carry it so an interrupted
	// run resumes cleanly.
	CodeSplitLimit = 2

	// CodeSizeLimit means the sampler failed the size predicate on 1000
	// consecutive draws.
	CodeSizeLimit = 6
)

// sampleAttempts bounds the size-constrained sampling modes before the
// engine gives up with CodeSizeLimit.
const sampleAttempts = 1000

// updateLimit recomputes the flip deadline after the rank reaches a new
// minimum. All arithmetic is unsigned with integer division; callers
// guarantee achieved exceeds target by at least one orbit.
//
// termination 0 keeps the global budget as the deadline, 1 spreads the
// remaining budget evenly over the ranks still to shed, 2 effectively
// disables the deadline, and t >= 3 spreads a split fraction of the budget
// until rank t is reached, then reverts to mode 1.
func updateLimit(flips uint64, termination, split, achieved, target, symm int, flimit uint64) uint64 {
	switch termination {
	case 0:
		return flimit
	case 1:
		steps := uint64((achieved - target) / symm)
		return flips + (flimit-flips)/steps
	case 2:
		return flips + flimit
	default:
		slimit := uint64(split) * flimit / 100
		if achieved > termination {
			steps := uint64((achieved - termination) / symm)
			return flips + (slimit-flips)/steps
		}
		steps := uint64((achieved - target) / symm)
		return flips + (flimit-flips)/steps
	}
}

// schedulePlus recomputes the step at which the next plus move fires.
// At or above maxplus the schedule is pushed effectively past the end of
// the run; a negative plus limit draws a uniform gap in
// [symm, symm + 2*|plimit| - 1].
func (s *Search) schedulePlus() {
	switch {
	case s.achieved >= s.maxplus:
		s.plusby = s.flimit * 1007
	case s.plimit < 0:
		s.plusby = s.flips + uint64(s.symm) + uint64(s.rng.Uint32())%uint64(-2*s.plimit)
	default:
		s.plusby = s.flips + uint64(s.plimit)
	}
}
