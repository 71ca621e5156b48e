package flipgraph

import (
	"golang.org/x/time/rate"

	"github.com/hupe1980/flipgraph/checkpoint"
)

type options struct {
	logger             *Logger
	metrics            MetricsCollector
	sink               checkpoint.Sink
	checkpointInterval uint64
	progressLimit      rate.Limit
}

// Option configures a Runner.
type Option func(*options)

// WithLogger sets the structured logger for all runs.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector for all runs.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithCheckpointSink mirrors recovery snapshots (and the final result) to
// the given sink in addition to rewriting the state file.
func WithCheckpointSink(s checkpoint.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithCheckpointInterval overrides the recovery snapshot cadence,
// measured in flips.
func WithCheckpointInterval(interval uint64) Option {
	return func(o *options) {
		if interval > 0 {
			o.checkpointInterval = interval
		}
	}
}

// WithProgressLimit bounds the rate of rank-improvement log lines emitted
// by a run.
func WithProgressLimit(limit rate.Limit) Option {
	return func(o *options) {
		if limit > 0 {
			o.progressLimit = limit
		}
	}
}
