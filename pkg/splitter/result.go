package splitter

import (
	"errors"
	"fmt"
)

// ErrUnattributedLine is matched by errors returned under the abort policy.
var ErrUnattributedLine = errors.New("continuation line before any worker marker")

// UnattributedLineError reports the line that stopped a run under the abort policy.
type UnattributedLineError struct {
	Line UnattributedLine
}

func (e *UnattributedLineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Line.Source, e.Line.LineNum, ErrUnattributedLine)
}

func (e *UnattributedLineError) Unwrap() error {
	return ErrUnattributedLine
}

// RegionKind distinguishes main-thread regions from threaded regions.
type RegionKind string

const (
	RegionMain     RegionKind = "main"
	RegionThreaded RegionKind = "threaded"
)

// Region summarizes one contiguous span of the input.
type Region struct {
	// Index is the 0-based position of the region in the input.
	Index int `json:"index"`

	Kind RegionKind `json:"kind"`

	// StartLine and EndLine are the first and last 1-based input line numbers.
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`

	// Lines is the number of lines written to the output for this region.
	Lines int `json:"lines"`

	// Threads lists the workers of a threaded region in first-seen order.
	Threads []ThreadStat `json:"threads,omitempty"`

	// Unattributed counts lines of a threaded region that had no worker.
	Unattributed int `json:"unattributed,omitempty"`

	// Blank counts whitespace-only lines of a threaded region. They are not
	// written, since an empty line closes a thread block.
	Blank int `json:"blank,omitempty"`
}

// ThreadStat is the number of lines attributed to one worker in a region.
type ThreadStat struct {
	ID    ThreadID `json:"id"`
	Lines int      `json:"lines"`
}

// UnattributedLine is a threaded-region line seen before any worker marker.
type UnattributedLine struct {
	Source  string `json:"source"`
	LineNum int    `json:"line"`
	Content string `json:"content"`
}

// Result describes a completed (or aborted) split run.
type Result struct {
	InputPath  string
	OutputPath string

	// Regions in input order.
	Regions []Region

	MainLines    int
	ThreadLines  int
	BlankLines   int
	Unattributed []UnattributedLine
}

// LinesRead returns the number of input lines consumed.
func (r *Result) LinesRead() int {
	return r.MainLines + r.ThreadLines + r.BlankLines + len(r.Unattributed)
}

// ThreadedRegions returns the number of threaded regions.
func (r *Result) ThreadedRegions() int {
	n := 0
	for _, region := range r.Regions {
		if region.Kind == RegionThreaded {
			n++
		}
	}
	return n
}

// HasUnattributed returns true if any line could not be attributed to a worker.
func (r *Result) HasUnattributed() bool {
	return len(r.Unattributed) > 0
}

func (r *Result) addRegion(region Region) {
	if region.StartLine == 0 {
		return
	}
	region.Index = len(r.Regions)
	r.Regions = append(r.Regions, region)
}

func (r *Region) observe(lineNum int) {
	if r.StartLine == 0 {
		r.StartLine = lineNum
	}
	r.EndLine = lineNum
}
