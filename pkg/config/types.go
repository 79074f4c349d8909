// Package config provides configuration loading and validation for deinterleave.
package config

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// OutputName is the file name created next to the input log.
	OutputName string `yaml:"output_name"`

	// HeaderFormat is the thread block header; it must contain exactly one %s,
	// replaced by the thread id.
	HeaderFormat string `yaml:"header_format"`

	// PrefixLines writes each thread line as "<id>: <line>".
	PrefixLines bool `yaml:"prefix_lines,omitempty"`

	// Unattributed selects how continuation lines seen before any worker
	// marker are handled.
	Unattributed UnattributedPolicy `yaml:"unattributed"`
}

// UnattributedPolicy determines what happens to a threaded-region line that
// has no worker to be attributed to.
type UnattributedPolicy string

const (
	// UnattributedSkip reports the line and leaves it out of the output (default).
	UnattributedSkip UnattributedPolicy = "skip"
	// UnattributedAbort stops the run with an error.
	UnattributedAbort UnattributedPolicy = "abort"
)
