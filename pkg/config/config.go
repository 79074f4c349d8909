package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it is non-empty, otherwise returns the
// defaults with environment overrides applied and validated.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	cfg := DefaultConfig()
	cfg.ApplyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if err := validateOutputName(cfg.OutputName); err != nil {
		return fmt.Errorf("output_name: %w", err)
	}

	if err := validateHeaderFormat(cfg.HeaderFormat); err != nil {
		return fmt.Errorf("header_format: %w", err)
	}

	switch cfg.Unattributed {
	case UnattributedSkip, UnattributedAbort:
	case "":
		cfg.Unattributed = UnattributedSkip
	default:
		return fmt.Errorf("unattributed: invalid policy %q (must be skip or abort)", cfg.Unattributed)
	}

	return nil
}

func validateOutputName(name string) error {
	if name == "" {
		return errors.New("is required")
	}
	if name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q must be a bare file name", name)
	}
	return nil
}

func validateHeaderFormat(format string) error {
	if format == "" {
		return errors.New("is required")
	}
	// %% is a literal percent sign and does not count as a verb.
	verbs := strings.ReplaceAll(format, "%%", "")
	if strings.Count(verbs, "%s") != 1 {
		return fmt.Errorf("%q must contain exactly one %%s for the thread id", format)
	}
	if strings.Count(verbs, "%") != 1 {
		return fmt.Errorf("%q may not contain format verbs other than %%s", format)
	}
	return nil
}
