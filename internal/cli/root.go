// Package cli provides the command-line interface for deinterleave.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/deinterleave/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stderr)
}

func run(rootCmd *cobra.Command, args []string, stderr io.Writer) int {
	commands.ExitCode = 0
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, commands.ErrUsage) && cmd != nil {
			_, _ = fmt.Fprint(stderr, cmd.UsageString())
		}
		return 2
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel string
	var logger *zap.Logger

	rootCmd := &cobra.Command{
		Use:   "deinterleave <log-file>",
		Short: "Regroup multi-threaded log output by worker thread",
		Long: `deinterleave post-processes minimizer run logs whose thread-pool output
is interleaved line by line.

Main-thread output is copied through unchanged. Every region between a
"Dry run with N threads" line and the next [main] line is regrouped so each
ForkJoinPool worker's lines appear together under a "Logs for <id>:" header.

Running "deinterleave <log-file>" is the same as "deinterleave split <log-file>".
The result is written to deinterleaved-log.txt next to the input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = commands.NewLogger(logLevel)
			if err != nil {
				return fmt.Errorf("%w: %v", commands.ErrUsage, err)
			}
			cmd.SetContext(commands.ContextWithLogger(cmd.Context(), logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", commands.DefaultLogLevel,
		"Log level (debug|info|warn|error)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", commands.ErrUsage, err)
	})

	commands.AttachSplit(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(commands.NewSplitCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
