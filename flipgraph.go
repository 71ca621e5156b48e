package flipgraph

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hupe1980/flipgraph/checkpoint"
	"github.com/hupe1980/flipgraph/search"
	"github.com/hupe1980/flipgraph/state"
)

// Runner executes flip searches over state files. A Runner is immutable
// after New and may drive several runs, sequentially or in parallel; each
// run owns its own state and random generator.
type Runner struct {
	opts options
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	o := options{
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
		progressLimit: rate.Limit(4),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner{opts: o}
}

// Run reads the state file at path, walks the flip graph to termination
// and overwrites the file with the result. The returned snapshot is what
// was written. The termination reason lands in the snapshot's RCode; Run
// returns an error only for I/O and parse failures.
func (r *Runner) Run(ctx context.Context, path string) (*state.Snapshot, error) {
	snap, err := state.ReadFile(path)
	if err != nil {
		return nil, err
	}

	log := r.opts.logger.WithRun(uuid.NewString()).WithFile(path)

	sopts := []search.Option{
		search.WithLogger(log.Logger),
		search.WithMetrics(r.opts.metrics),
		search.WithCheckpointer(&fileCheckpointer{
			path: path,
			name: filepath.Base(path),
			sink: r.opts.sink,
		}),
	}
	if r.opts.checkpointInterval > 0 {
		sopts = append(sopts, search.WithCheckpointInterval(r.opts.checkpointInterval))
	}
	if r.opts.progressLimit > 0 {
		sopts = append(sopts, search.WithProgressLimit(r.opts.progressLimit))
	}

	out := search.New(snap, sopts...).Run(ctx)

	if err := out.WriteFile(path); err != nil {
		return nil, fmt.Errorf("flipgraph: write result: %w", err)
	}
	if r.opts.sink != nil {
		data, err := out.Bytes()
		if err == nil {
			err = r.opts.sink.Put(ctx, filepath.Base(path), data)
		}
		if err != nil {
			// The local file already holds the result; a missing remote
			// mirror is an operational nuisance, not a failed run.
			log.Error("final snapshot mirror failed", "error", err)
		}
	}
	return out, nil
}

// fileCheckpointer persists recovery snapshots: the state file is
// rewritten in place and, with a sink configured, the same bytes are
// mirrored remotely.
type fileCheckpointer struct {
	path string
	name string
	sink checkpoint.Sink
}

func (c *fileCheckpointer) Checkpoint(ctx context.Context, snap *state.Snapshot) error {
	if err := snap.WriteFile(c.path); err != nil {
		return err
	}
	if c.sink == nil {
		return nil
	}
	data, err := snap.Bytes()
	if err != nil {
		return err
	}
	return c.sink.Put(ctx, c.name, data)
}
