package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/deinterleave/pkg/splitter"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// jsonMetadata is Metadata with the duration in milliseconds.
type jsonMetadata struct {
	Metadata
	DurationMS int64 `json:"duration_ms"`
}

type jsonReport struct {
	*Report
	Metadata jsonMetadata `json:"metadata"`
}

// Format renders the report as JSON. Quiet mode emits only the summary.
// Per-worker line counts are kept only in verbose mode.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(report.Summary)
	}

	doc := jsonReport{
		Report: report,
		Metadata: jsonMetadata{
			Metadata:   report.Metadata,
			DurationMS: report.Metadata.Duration.Milliseconds(),
		},
	}
	if !f.opts.Verbose {
		doc.Report = withoutThreadStats(report)
	}
	return encoder.Encode(doc)
}

// withoutThreadStats returns a shallow copy of report whose regions carry no
// per-worker breakdown.
func withoutThreadStats(report *Report) *Report {
	trimmed := *report
	trimmed.Regions = make([]splitter.Region, len(report.Regions))
	for i, region := range report.Regions {
		region.Threads = nil
		trimmed.Regions[i] = region
	}
	return &trimmed
}
