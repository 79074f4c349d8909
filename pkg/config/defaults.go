package config

import (
	"os"
)

// Default values for configuration.
const (
	DefaultOutputName   = "deinterleaved-log.txt"
	DefaultHeaderFormat = "Logs for %s:"
)

// Environment variable names.
const (
	EnvOutputName   = "DEINTERLEAVE_OUTPUT_NAME"
	EnvUnattributed = "DEINTERLEAVE_UNATTRIBUTED"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputName:   DefaultOutputName,
		HeaderFormat: DefaultHeaderFormat,
		Unattributed: UnattributedSkip,
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvironmentOverrides() {
	if name := os.Getenv(EnvOutputName); name != "" {
		c.OutputName = name
	}
	if policy := os.Getenv(EnvUnattributed); policy != "" {
		c.Unattributed = UnattributedPolicy(policy)
	}
}
