package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/deinterleave/pkg/config"
	"github.com/ccollicutt/deinterleave/pkg/output"
	"github.com/ccollicutt/deinterleave/pkg/splitter"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ErrUsage marks errors caused by wrong command-line arguments.
var ErrUsage = errors.New("usage error")

// SplitOptions holds command-line options for the split command.
type SplitOptions struct {
	ConfigFile string
	OutputFile string
	Strict     bool
	Verbose    bool
}

const splitLong = `Regroup interleaved thread-pool output in a log file by worker thread.

Main-thread output is copied through unchanged. Each region that starts with
"Dry run with N threads" and ends at the next [main] line is rewritten as one
block per ForkJoinPool worker, in the order the workers first appeared.

The result is written to deinterleaved-log.txt next to the input file.

Exit codes:
  0 - Log de-interleaved
  1 - Lines without a worker were skipped (--strict only)
  2 - Usage, configuration or runtime error`

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <log-file>",
		Short: "De-interleave a log file by worker thread",
		Long:  splitLong,
	}
	AttachSplit(cmd)
	return cmd
}

// AttachSplit installs the split arguments, flags and run function on cmd.
// The root command uses it so "deinterleave <log-file>" works without a subcommand.
func AttachSplit(cmd *cobra.Command) {
	opts := &SplitOptions{}

	cmd.Args = logFileArg
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runSplit(cmd, args, opts)
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVar(&opts.OutputFile, "out", "", "Write the result to this path instead of next to the input")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit 1 if any line could not be attributed to a worker")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print a region summary after splitting")
}

// logFileArg requires exactly one log file argument.
func logFileArg(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%w: missing <log-file> argument", ErrUsage)
	default:
		return fmt.Errorf("%w: expected one <log-file>, got %d arguments", ErrUsage, len(args))
	}
}

func runSplit(cmd *cobra.Command, args []string, opts *SplitOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := LoggerFrom(ctx)

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	started := time.Now()
	result, err := splitter.SplitFile(ctx, logFile,
		splitter.WithConfig(cfg),
		splitter.WithOutputPath(opts.OutputFile),
		splitter.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("splitting %s: %w", logFile, err)
	}

	logger.Info("split complete",
		zap.String("input", logFile),
		zap.String("output", result.OutputPath),
		zap.Int("regions", len(result.Regions)),
		zap.Duration("elapsed", time.Since(started)))

	if opts.Verbose {
		report := output.NewReport(result, logFile, started)
		formatter := output.NewTextFormatter(output.FormatOptions{Verbose: true})
		if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	if result.HasUnattributed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %d line(s) with no preceding worker marker\n",
			len(result.Unattributed))
		if opts.Strict {
			ExitCode = 1
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "De-interleaved log written to: %s\n", result.OutputPath)
	return nil
}
