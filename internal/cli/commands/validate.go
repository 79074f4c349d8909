package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/deinterleave/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a deinterleave configuration file without processing a log.

Checks:
  - YAML syntax
  - output_name is a bare file name
  - header_format has exactly one %s
  - unattributed policy is skip or abort`,
		Args: configFileArg,
		RunE: runValidate,
	}
}

// configFileArg requires exactly one config file argument.
func configFileArg(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%w: missing <config-file> argument", ErrUsage)
	default:
		return fmt.Errorf("%w: expected one <config-file>, got %d arguments", ErrUsage, len(args))
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Output name:   %s\n", cfg.OutputName)
	fmt.Fprintf(out, "  Header format: %q\n", cfg.HeaderFormat)
	fmt.Fprintf(out, "  Prefix lines:  %t\n", cfg.PrefixLines)
	fmt.Fprintf(out, "  Unattributed:  %s\n", cfg.Unattributed)

	return nil
}
