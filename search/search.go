// Package search implements the flip-graph walk: the decomposition state,
// the flip and plus engines, and the outer driver loop.
//
// A search owns every structure it touches (the component array, the
// multimap index, the partition and the random generator) and runs
// single-threaded to completion. Given the same starting snapshot and seed
// it replays the same walk. Cancellation mid-run is not supported; the
// context handed to Run only covers snapshot persistence.
package search

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/hupe1980/flipgraph/multimap"
	"github.com/hupe1980/flipgraph/state"
	"github.com/hupe1980/flipgraph/util"
)

// defaultCheckpointInterval is the flip cadence of recovery snapshots.
const defaultCheckpointInterval = 5_000_000_000

// Checkpointer persists a mid-run recovery snapshot. The snapshot's
// component slice is only valid for the duration of the call.
type Checkpointer interface {
	Checkpoint(ctx context.Context, snap *state.Snapshot) error
}

// Search is the full mutable state of one flip-graph walk.
type Search struct {
	part *Partition
	mm   *multimap.Multimap
	rng  *util.RNG

	muls    []uint64
	best    []uint64
	scratch []uint64 // reused for recovery snapshots

	nomuls      int
	symm        int
	target      int
	maxplus     int
	split       int
	termination int
	maxsize     int
	exceed      int // bit budget for negative maxsize: 1 - maxsize
	flimit      uint64
	plimit      int64
	seed        int64

	flips     uint64
	limit     uint64
	plusby    uint64
	plusMoves uint64
	recovery  uint64
	interval  uint64
	achieved  int
	minmuls   int
	rcode     int

	log        *slog.Logger
	metrics    MetricsCollector
	checkpoint Checkpointer
	progress   *rate.Limiter

	// plusFn is bound once at construction so the loop does not allocate
	// a method value per step.
	plusFn func()
}

// Option configures a Search.
type Option func(*Search)

// WithLogger sets the structured logger. The hot loop never logs; only
// rank improvements, snapshots and termination do.
func WithLogger(l *slog.Logger) Option {
	return func(s *Search) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m MetricsCollector) Option {
	return func(s *Search) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithCheckpointer sets the sink for recovery snapshots. Without one,
// snapshots are skipped.
func WithCheckpointer(c Checkpointer) Option {
	return func(s *Search) { s.checkpoint = c }
}

// WithCheckpointInterval overrides the recovery snapshot cadence,
// measured in flips.
func WithCheckpointInterval(interval uint64) Option {
	return func(s *Search) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithProgressLimit bounds the rate of rank-improvement log lines.
func WithProgressLimit(limit rate.Limit) Option {
	return func(s *Search) { s.progress = rate.NewLimiter(limit, 1) }
}

// New builds a Search from an input snapshot. All allocation happens here;
// the walk itself allocates nothing.
func New(snap *state.Snapshot, opts ...Option) *Search {
	s := &Search{
		part:        NewPartition(snap.NoMuls, snap.Symm),
		mm:          multimap.New(snap.NoMuls),
		rng:         util.NewRNG(snap.Seed),
		muls:        make([]uint64, snap.NoMuls),
		best:        make([]uint64, snap.NoMuls),
		scratch:     make([]uint64, snap.NoMuls),
		nomuls:      snap.NoMuls,
		symm:        snap.Symm,
		target:      snap.Target,
		maxplus:     snap.MaxPlus,
		split:       snap.Split,
		termination: snap.Termination,
		maxsize:     snap.MaxSize,
		exceed:      1 - snap.MaxSize,
		flimit:      snap.FlipLimit,
		plimit:      snap.PlusLimit,
		seed:        snap.Seed,
		flips:       snap.Flips,
		interval:    defaultCheckpointInterval,
		log:         slog.New(slog.DiscardHandler),
		metrics:     NoopMetricsCollector{},
		progress:    rate.NewLimiter(rate.Limit(4), 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	copy(s.muls, snap.Muls)
	copy(s.best, snap.Muls)
	for i, m := range s.muls {
		if m != 0 {
			s.mm.Add(m, i)
			s.achieved++
		}
	}

	s.plusFn = s.plus3
	if s.symm == 6 {
		s.plusFn = s.plus6
	}

	s.minmuls = s.achieved
	s.recovery = s.interval
	s.schedulePlus()
	s.limit = updateLimit(s.flips, s.termination, s.split, s.achieved, s.target, s.symm, s.flimit)
	return s
}

// Run walks the flip graph until a termination condition fires and returns
// the final snapshot. The component list is the best decomposition seen if
// a new minimum was reached mid-run, otherwise the current one.
func (s *Search) Run(ctx context.Context) *state.Snapshot {
	s.log.Info("search started",
		"slots", s.nomuls,
		"symm", s.symm,
		"achieved", s.achieved,
		"target", s.target,
		"seed", s.seed,
	)

	if s.symm == 6 {
		s.run6(ctx)
	} else {
		s.run3(ctx)
	}

	s.metrics.RecordRun(s.rcode, s.flips, s.minmuls)
	s.log.Info("search finished",
		"rcode", s.rcode,
		"flips", s.flips,
		"achieved", s.achieved,
		"minmuls", s.minmuls,
		"plus", s.plusMoves,
	)

	muls := s.muls
	if s.minmuls < s.achieved {
		muls = s.best
	}
	return s.snapshot(s.rcode, muls)
}

// snapshot assembles a state snapshot around the given component list.
func (s *Search) snapshot(rcode int, muls []uint64) *state.Snapshot {
	return &state.Snapshot{
		NoMuls:      s.nomuls,
		Flips:       s.flips,
		RCode:       rcode,
		Target:      s.target,
		FlipLimit:   s.flimit,
		PlusLimit:   s.plimit,
		Termination: s.termination,
		Seed:        s.seed,
		Symm:        s.symm,
		MaxPlus:     s.maxplus,
		Split:       s.split,
		MinMuls:     s.minmuls,
		MaxSize:     s.maxsize,
		Achieved:    s.achieved,
		Plus:        s.plusMoves,
		Muls:        muls,
	}
}

// maybeCheckpoint persists a recovery snapshot when the cadence is due.
// The snapshot carries CodeSplitLimit so a crash mid-run leaves the file
// resumable, and failures are reported but never stop the walk.
func (s *Search) maybeCheckpoint(ctx context.Context) {
	if s.flips < s.recovery {
		return
	}
	s.recovery += s.interval
	if s.checkpoint == nil {
		return
	}
	copy(s.scratch, s.muls)
	err := s.checkpoint.Checkpoint(ctx, s.snapshot(CodeSplitLimit, s.scratch))
	s.metrics.RecordSnapshot(err)
	if err != nil {
		s.log.Error("recovery snapshot failed", "flips", s.flips, "error", err)
	} else {
		s.log.Info("recovery snapshot written", "flips", s.flips, "achieved", s.achieved)
	}
}

// afterCollapse performs the shared bookkeeping once a term has been
// deleted: minimum tracking, best capture, deadline and plus-schedule
// refresh, and the stop conditions. It reports whether the walk ends.
func (s *Search) afterCollapse() (stop bool) {
	s.achieved -= s.symm
	if s.achieved < s.minmuls {
		s.minmuls = s.achieved
		if s.achieved > s.target {
			s.limit = updateLimit(s.flips, s.termination, s.split, s.achieved, s.target, s.symm, s.flimit)
		}
	}
	if s.achieved <= s.minmuls {
		copy(s.best, s.muls)
		if s.progress.Allow() {
			s.log.Info("rank reduced", "achieved", s.achieved, "flips", s.flips)
		}
	}
	s.schedulePlus()
	s.metrics.RecordCollapse(s.achieved)

	if s.mm.Collisions() == 0 {
		s.rcode = CodeExhausted
		return true
	}
	if s.achieved <= s.target {
		return true
	}
	if s.trigger() {
		s.plusby = s.flips
	}
	return false
}

// trigger reports whether every colliding value is confined to a single
// orbit, in which case flips alone cannot make progress and a plus move
// is forced.
func (s *Search) trigger() bool {
	for _, v := range s.mm.Colliding() {
		row := s.mm.Slots(v)
		orbit := int(row[0]) / s.symm
		for _, slot := range row[1:] {
			if int(slot)/s.symm != orbit {
				return false
			}
		}
	}
	return true
}

// tick runs the end-of-step budget checks shared by both symmetries:
// a due plus move (with its recovery snapshot) and the flip deadline.
func (s *Search) tick(ctx context.Context) (stop bool) {
	if s.flips >= s.plusby {
		s.maybeCheckpoint(ctx)
		s.plusFn()
	}
	if s.flips >= s.limit {
		if s.flips >= s.flimit {
			s.rcode = CodeFlipLimit
		} else {
			s.rcode = CodeSplitLimit
		}
		return true
	}
	return false
}

// replace rewrites one slot: the old value leaves the multimap, the new
// value enters it unless the slot went dead.
func (s *Search) replace(slot int, old, val uint64) {
	s.mm.Remove(old, slot)
	if val != 0 {
		s.mm.Add(val, slot)
	}
	s.muls[slot] = val
}

// place writes a value into a currently dead slot.
func (s *Search) place(slot int, val uint64) {
	s.mm.Add(val, slot)
	s.muls[slot] = val
}

// firstZero returns the lowest dead slot, which by the collapse invariant
// starts a dead term.
func (s *Search) firstZero() int {
	r := 0
	for s.muls[r] != 0 {
		r++
	}
	return r
}
