package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/deinterleave/pkg/config"
	"github.com/ccollicutt/deinterleave/pkg/output"
	"github.com/ccollicutt/deinterleave/pkg/parser"
	"github.com/ccollicutt/deinterleave/pkg/splitter"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	ConfigFile string
	Output     string
	Verbose    bool
	Quiet      bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <log-file>",
		Short: "Report the regions and workers of a log file without writing output",
		Long: `Scan a log file the same way split does and report what was found:
main-thread and threaded regions with their line ranges, the workers
of each threaded region, and any lines that could not be attributed
to a worker. Nothing is written to disk.

Exit codes:
  0 - Every threaded line was attributed to a worker
  1 - Some lines had no preceding worker marker
  2 - Usage, configuration or runtime error`,
		Args: logFileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-worker line counts")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	src, err := parser.OpenFile(logFile)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", logFile, err)
	}
	defer src.Close()

	// Inspection reports every anomaly, so it never aborts on one.
	s := splitter.New(
		splitter.WithConfig(cfg),
		splitter.WithPolicy(config.UnattributedSkip),
		splitter.WithLogger(LoggerFrom(ctx)),
	)

	started := time.Now()
	result, err := s.Split(ctx, src, splitter.Discard)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", logFile, err)
	}
	result.InputPath = logFile

	report := output.NewReport(result, logFile, started)
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasIssues() {
		ExitCode = 1
	}
	return nil
}
