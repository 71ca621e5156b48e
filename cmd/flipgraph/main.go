// Command flipgraph drives flip-graph searches over run-state files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/flipgraph"
	"github.com/hupe1980/flipgraph/checkpoint"
	miniostore "github.com/hupe1980/flipgraph/checkpoint/minio"
	s3store "github.com/hupe1980/flipgraph/checkpoint/s3"
	"github.com/hupe1980/flipgraph/search"
	"github.com/hupe1980/flipgraph/state"
)

var (
	flagCheckpoint string
	flagDDBTable   string
	flagInterval   uint64
	flagParallel   int
	flagJSON       bool
	flagVerbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "flipgraph",
		Short:         "Search for shorter bilinear algorithms on the flip graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Walk the flip graph of each state file to termination",
		Long: `Run walks the flip graph of each state file until its budgets are spent
or its target rank is reached, then overwrites the file with the result.
Several files run concurrently, one independent deterministic search each.

The search termination reason is recorded in the file's rcode field; the
process exits nonzero only on I/O or parse failures.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearches,
	}
	runCmd.Flags().StringVar(&flagCheckpoint, "checkpoint", "", "mirror snapshots to a directory, s3://bucket/prefix or minio://host/bucket/prefix")
	runCmd.Flags().StringVar(&flagDDBTable, "ddb-table", "", "DynamoDB table for the latest-snapshot pointer (with s3:// checkpoints)")
	runCmd.Flags().Uint64Var(&flagInterval, "checkpoint-interval", 0, "recovery snapshot cadence in flips (default 5e9)")
	runCmd.Flags().IntVar(&flagParallel, "parallel", 0, "max concurrent searches (default: all files at once)")
	runCmd.Flags().BoolVar(&flagJSON, "json-logs", false, "emit JSON logs")
	runCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "debug logging")

	statsCmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Summarize a state file without running",
		Args:  cobra.ExactArgs(1),
		RunE:  showStats,
	}

	root.AddCommand(runCmd, statsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "flipgraph:", err)
		os.Exit(1)
	}
}

func newLogger() *flipgraph.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	if flagJSON {
		return flipgraph.NewJSONLogger(level)
	}
	return flipgraph.NewTextLogger(level)
}

// buildSink turns the --checkpoint flag into a snapshot sink.
func buildSink(ctx context.Context, uri string) (checkpoint.Sink, error) {
	switch {
	case uri == "":
		return nil, nil
	case strings.HasPrefix(uri, "s3://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
		if bucket == "" {
			return nil, flipgraph.NewErrBadCheckpointURI(uri, "missing bucket", nil)
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		var opts []s3store.Option
		if flagDDBTable != "" {
			opts = append(opts, s3store.WithCommitTable(dynamodb.NewFromConfig(cfg), flagDDBTable))
		}
		return s3store.NewStore(awss3.NewFromConfig(cfg), bucket, prefix, opts...), nil
	case strings.HasPrefix(uri, "minio://"):
		rest := strings.TrimPrefix(uri, "minio://")
		parts := strings.SplitN(rest, "/", 3)
		if len(parts) < 2 {
			return nil, flipgraph.NewErrBadCheckpointURI(uri, "want minio://host/bucket[/prefix]", nil)
		}
		endpoint, bucket := parts[0], parts[1]
		prefix := ""
		if len(parts) == 3 {
			prefix = parts[2]
		}
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_INSECURE") == "",
		})
		if err != nil {
			return nil, flipgraph.NewErrBadCheckpointURI(uri, "minio client rejected endpoint", err)
		}
		return miniostore.NewStore(client, bucket, prefix), nil
	default:
		return checkpoint.NewLocalStore(uri)
	}
}

func runSearches(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sink, err := buildSink(ctx, flagCheckpoint)
	if err != nil {
		return err
	}

	metrics := &flipgraph.BasicMetricsCollector{}
	ropts := []flipgraph.Option{
		flipgraph.WithLogger(newLogger()),
		flipgraph.WithMetrics(metrics),
		flipgraph.WithCheckpointSink(sink),
	}
	if flagInterval > 0 {
		ropts = append(ropts, flipgraph.WithCheckpointInterval(flagInterval))
	}
	runner := flipgraph.New(ropts...)

	results := make([]*state.Snapshot, len(args))
	g, ctx := errgroup.WithContext(ctx)
	if flagParallel > 0 {
		g.SetLimit(flagParallel)
	}
	for i, path := range args {
		g.Go(func() error {
			snap, err := runner.Run(ctx, path)
			if err != nil {
				return err
			}
			results[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, snap := range results {
		fmt.Printf("%s: rcode=%d achieved=%d minmuls=%d flips=%d plus=%d\n",
			args[i], snap.RCode, snap.Achieved, snap.MinMuls, snap.Flips, snap.Plus)
	}
	return nil
}

func showStats(_ *cobra.Command, args []string) error {
	snap, err := state.ReadFile(args[0])
	if err != nil {
		return err
	}

	sum := search.Summarize(snap)
	fmt.Printf("slots:       %d (symm %d)\n", snap.NoMuls, snap.Symm)
	fmt.Printf("rank:        %d live slots, %d live terms\n", sum.Achieved, sum.LiveTerms.GetCardinality())
	fmt.Printf("values:      %d distinct, %d colliding\n", sum.Distinct, sum.Colliding)
	fmt.Printf("target:      %d\n", snap.Target)
	fmt.Printf("flips spent: %d of %d\n", snap.Flips, snap.FlipLimit)
	fmt.Printf("last rcode:  %d\n", snap.RCode)
	return nil
}
