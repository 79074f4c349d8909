package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/deinterleave/pkg/splitter"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "deinterleave: %d lines, %d regions (%d threaded), %d unattributed\n",
		report.Summary.LinesRead,
		report.Summary.Regions,
		report.Summary.ThreadedRegions,
		report.Summary.UnattributedLines)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Deinterleave Report ===")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Input:  %s\n", report.Metadata.InputFile)
	if report.Metadata.OutputFile != "" {
		fmt.Fprintf(w, "Output: %s\n", report.Metadata.OutputFile)
	}
	fmt.Fprintln(w)

	for i := range report.Regions {
		f.formatRegion(&report.Regions[i], w)
	}

	if len(report.Unattributed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Unattributed lines: %d\n", len(report.Unattributed))
		for _, u := range report.Unattributed {
			fmt.Fprintf(w, "  - %s:%d: %s\n", u.Source, u.LineNum, u.Content)
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d lines read, %d regions (%d threaded), %d threads, %d unattributed\n",
		report.Summary.LinesRead,
		report.Summary.Regions,
		report.Summary.ThreadedRegions,
		report.Summary.Threads,
		report.Summary.UnattributedLines)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Main lines: %d, thread lines: %d, blank lines: %d\n",
			report.Summary.MainLines, report.Summary.ThreadLines, report.Summary.BlankLines)
		_, err := fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
		return err
	}

	return nil
}

func (f *TextFormatter) formatRegion(region *splitter.Region, w io.Writer) {
	kind := strings.ToUpper(string(region.Kind))
	fmt.Fprintf(w, "[%s] lines %d-%d: %d line(s)", kind, region.StartLine, region.EndLine, region.Lines)

	if region.Kind == splitter.RegionThreaded {
		fmt.Fprintf(w, ", %d thread(s)", len(region.Threads))
		if region.Unattributed > 0 {
			fmt.Fprintf(w, ", %d unattributed", region.Unattributed)
		}
		if region.Blank > 0 {
			fmt.Fprintf(w, ", %d blank", region.Blank)
		}
	}
	fmt.Fprintln(w)

	if f.opts.Verbose {
		for _, t := range region.Threads {
			fmt.Fprintf(w, "  worker-%s: %d line(s)\n", t.ID, t.Lines)
		}
	}
}
