// Package flipgraph searches for shorter bilinear algorithms by walking
// the flip graph of a decomposition over GF(2).
//
// A decomposition is a list of rank-1 terms, each a triple of 64-bit
// bit-vectors. A flip is a local rewrite between two terms sharing a
// component value; when a rewrite drives a component to zero the whole
// term collapses and the rank drops. The walk alternates flips with
// occasional plus moves that temporarily expand the decomposition to
// escape plateaus, chasing the lowest rank ever observed.
//
// # Quick Start
//
//	ctx := context.Background()
//	runner := flipgraph.New(
//		flipgraph.WithLogger(flipgraph.NewTextLogger(slog.LevelInfo)),
//	)
//	snap, err := runner.Run(ctx, "search.state")
//
// The state file is both input and output: it is overwritten with the
// result on termination and with the current decomposition on every
// recovery snapshot. With
// a checkpoint sink configured, snapshots are additionally mirrored to
// durable storage:
//
//	store := s3.NewStore(client, "my-bucket", "flipgraph/")
//	runner := flipgraph.New(flipgraph.WithCheckpointSink(store))
//
// Runs are deterministic: the seed recorded in the state file fully
// determines the walk.
package flipgraph
