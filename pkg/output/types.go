// Package output provides formatting of split run reports.
package output

import (
	"time"

	"github.com/ccollicutt/deinterleave/pkg/splitter"
)

// Report is the complete summary of a split run.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Regions lists the main-thread and threaded regions in input order.
	Regions []splitter.Region `json:"regions"`

	// Unattributed lists threaded-region lines that had no worker.
	Unattributed []splitter.UnattributedLine `json:"unattributed"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	LinesRead         int `json:"lines_read"`
	MainLines         int `json:"main_lines"`
	ThreadLines       int `json:"thread_lines"`
	BlankLines        int `json:"blank_lines"`
	Regions           int `json:"regions"`
	ThreadedRegions   int `json:"threaded_regions"`
	Threads           int `json:"threads"` // distinct worker ids over the whole run
	UnattributedLines int `json:"unattributed_lines"`
}

// Metadata provides context about the run.
type Metadata struct {
	// InputFile is the log that was read.
	InputFile string `json:"input_file"`

	// OutputFile is where the de-interleaved log was written; empty for inspect.
	OutputFile string `json:"output_file,omitempty"`

	// AnalyzedAt is when the run finished.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"-"`
}

// NewReport creates a Report from a split result. started is when the run began.
func NewReport(result *splitter.Result, inputFile string, started time.Time) *Report {
	now := time.Now()
	report := &Report{
		Regions:      result.Regions,
		Unattributed: result.Unattributed,
		Metadata: Metadata{
			InputFile:  inputFile,
			OutputFile: result.OutputPath,
			AnalyzedAt: now,
			Duration:   now.Sub(started),
		},
		Summary: Summary{
			LinesRead:         result.LinesRead(),
			MainLines:         result.MainLines,
			ThreadLines:       result.ThreadLines,
			BlankLines:        result.BlankLines,
			Regions:           len(result.Regions),
			ThreadedRegions:   result.ThreadedRegions(),
			Threads:           distinctThreads(result.Regions),
			UnattributedLines: len(result.Unattributed),
		},
	}
	return report
}

// HasIssues returns true if any line could not be attributed to a worker.
func (r *Report) HasIssues() bool {
	return r.Summary.UnattributedLines > 0
}

func distinctThreads(regions []splitter.Region) int {
	seen := make(map[splitter.ThreadID]bool)
	for _, region := range regions {
		for _, t := range region.Threads {
			seen[t.ID] = true
		}
	}
	return len(seen)
}
