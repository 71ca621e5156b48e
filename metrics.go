package flipgraph

import (
	"sync/atomic"

	"github.com/hupe1980/flipgraph/search"
)

// MetricsCollector is the interface searches report into. Implement it to
// integrate with monitoring systems like Prometheus; callbacks fire on
// rank changes, snapshots and run completion, never per flip.
type MetricsCollector = search.MetricsCollector

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector = search.NoopMetricsCollector

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
// Safe for concurrent use by parallel runs.
type BasicMetricsCollector struct {
	Collapses      atomic.Int64
	PlusMoves      atomic.Int64
	Snapshots      atomic.Int64
	SnapshotErrors atomic.Int64
	Runs           atomic.Int64
	BestAchieved   atomic.Int64
}

// RecordCollapse implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCollapse(achieved int) {
	b.Collapses.Add(1)
	for {
		best := b.BestAchieved.Load()
		if best != 0 && best <= int64(achieved) {
			return
		}
		if b.BestAchieved.CompareAndSwap(best, int64(achieved)) {
			return
		}
	}
}

// RecordPlus implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPlus(int) {
	b.PlusMoves.Add(1)
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(err error) {
	b.Snapshots.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(int, uint64, int) {
	b.Runs.Add(1)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Collapses      int64
	PlusMoves      int64
	Snapshots      int64
	SnapshotErrors int64
	Runs           int64
	BestAchieved   int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Collapses:      b.Collapses.Load(),
		PlusMoves:      b.PlusMoves.Load(),
		Snapshots:      b.Snapshots.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		Runs:           b.Runs.Load(),
		BestAchieved:   b.BestAchieved.Load(),
	}
}
