package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/deinterleave/pkg/splitter"
)

func createTestResult() *splitter.Result {
	return &splitter.Result{
		OutputPath: "/logs/deinterleaved-log.txt",
		Regions: []splitter.Region{
			{Index: 0, Kind: splitter.RegionMain, StartLine: 1, EndLine: 1, Lines: 1},
			{
				Index:        1,
				Kind:         splitter.RegionThreaded,
				StartLine:    2,
				EndLine:      6,
				Lines:        4,
				Unattributed: 1,
				Threads:      []splitter.ThreadStat{{ID: "3", Lines: 3}, {ID: "5", Lines: 1}},
			},
			{Index: 2, Kind: splitter.RegionMain, StartLine: 7, EndLine: 7, Lines: 1},
			{
				Index:     3,
				Kind:      splitter.RegionThreaded,
				StartLine: 8,
				EndLine:   8,
				Lines:     1,
				Threads:   []splitter.ThreadStat{{ID: "3", Lines: 1}},
			},
		},
		MainLines:   2,
		ThreadLines: 5,
		Unattributed: []splitter.UnattributedLine{
			{Source: "/logs/run.log", LineNum: 2, Content: "orphan"},
		},
	}
}

func TestNewReport(t *testing.T) {
	started := time.Now().Add(-time.Second)
	report := NewReport(createTestResult(), "/logs/run.log", started)

	assert.Equal(t, Summary{
		LinesRead:         8,
		MainLines:         2,
		ThreadLines:       5,
		Regions:           4,
		ThreadedRegions:   2,
		Threads:           2,
		UnattributedLines: 1,
	}, report.Summary)
	assert.Equal(t, "/logs/run.log", report.Metadata.InputFile)
	assert.Equal(t, "/logs/deinterleaved-log.txt", report.Metadata.OutputFile)
	assert.GreaterOrEqual(t, report.Metadata.Duration, time.Second)
	assert.True(t, report.HasIssues())
}

func TestReport_NoIssues(t *testing.T) {
	report := NewReport(&splitter.Result{}, "empty.log", time.Now())
	assert.False(t, report.HasIssues())
	assert.Equal(t, 0, report.Summary.Regions)
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := NewFormatter(name, FormatOptions{})
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}

	_, err := NewFormatter("xml", FormatOptions{})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestTextFormatter_Full(t *testing.T) {
	report := NewReport(createTestResult(), "/logs/run.log", time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{}).Format(context.Background(), report, &buf))
	out := buf.String()

	assert.Contains(t, out, "=== Deinterleave Report ===")
	assert.Contains(t, out, "Input:  /logs/run.log")
	assert.Contains(t, out, "Output: /logs/deinterleaved-log.txt")
	assert.Contains(t, out, "[MAIN] lines 1-1: 1 line(s)\n")
	assert.Contains(t, out, "[THREADED] lines 2-6: 4 line(s), 2 thread(s), 1 unattributed\n")
	assert.Contains(t, out, "  - /logs/run.log:2: orphan\n")
	assert.Contains(t, out, "Summary: 8 lines read, 4 regions (2 threaded), 2 threads, 1 unattributed")
	assert.NotContains(t, out, "worker-3")
	assert.NotContains(t, out, "Duration")
}

func TestTextFormatter_Verbose(t *testing.T) {
	report := NewReport(createTestResult(), "/logs/run.log", time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{Verbose: true}).Format(context.Background(), report, &buf))
	out := buf.String()

	assert.Contains(t, out, "  worker-3: 3 line(s)\n")
	assert.Contains(t, out, "  worker-5: 1 line(s)\n")
	assert.Contains(t, out, "Main lines: 2, thread lines: 5")
	assert.Contains(t, out, "Duration:")
}

func TestTextFormatter_Quiet(t *testing.T) {
	report := NewReport(createTestResult(), "/logs/run.log", time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{Quiet: true}).Format(context.Background(), report, &buf))

	assert.Equal(t, "deinterleave: 8 lines, 4 regions (2 threaded), 1 unattributed\n", buf.String())
}

func TestTextFormatter_NoOutputFile(t *testing.T) {
	result := createTestResult()
	result.OutputPath = ""
	report := NewReport(result, "/logs/run.log", time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{}).Format(context.Background(), report, &buf))
	assert.NotContains(t, buf.String(), "Output:")
}

func TestJSONFormatter_Full(t *testing.T) {
	report := NewReport(createTestResult(), "/logs/run.log", time.Now().Add(-1500*time.Millisecond))

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatOptions{}).Format(context.Background(), report, &buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.Summary, decoded.Summary)
	assert.Equal(t, "/logs/run.log", decoded.Metadata.InputFile)
	require.Len(t, decoded.Regions, 4)
	assert.Equal(t, splitter.RegionThreaded, decoded.Regions[1].Kind)
	assert.Equal(t, 2, decoded.Regions[1].StartLine)
	assert.Empty(t, decoded.Regions[1].Threads)
	require.Len(t, decoded.Unattributed, 1)
	assert.Equal(t, 2, decoded.Unattributed[0].LineNum)

	var raw struct {
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.GreaterOrEqual(t, raw.Metadata["duration_ms"], float64(1500))
	assert.NotContains(t, raw.Metadata, "Duration")

	// The report passed in is not modified.
	assert.Len(t, report.Regions[1].Threads, 2)
}

func TestJSONFormatter_VerboseKeepsThreads(t *testing.T) {
	report := NewReport(createTestResult(), "/logs/run.log", time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatOptions{Verbose: true}).Format(context.Background(), report, &buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Regions, 4)
	assert.Equal(t, []splitter.ThreadStat{{ID: "3", Lines: 3}, {ID: "5", Lines: 1}}, decoded.Regions[1].Threads)
	assert.Contains(t, buf.String(), `"start_line": 2`)
	assert.Contains(t, buf.String(), `"id": "3"`)
}

func TestJSONFormatter_Quiet(t *testing.T) {
	report := NewReport(createTestResult(), "/logs/run.log", time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatOptions{Quiet: true}).Format(context.Background(), report, &buf))

	var summary map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, float64(8), summary["lines_read"])
	assert.Equal(t, float64(2), summary["threaded_regions"])
	assert.NotContains(t, summary, "metadata")
}

func TestTextFormatter_BlankLines(t *testing.T) {
	result := createTestResult()
	result.Regions[1].Blank = 2
	result.BlankLines = 2
	report := NewReport(result, "/logs/run.log", time.Now())
	assert.Equal(t, 10, report.Summary.LinesRead)

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{Verbose: true}).Format(context.Background(), report, &buf))
	assert.Contains(t, buf.String(), "[THREADED] lines 2-6: 4 line(s), 2 thread(s), 1 unattributed, 2 blank")
	assert.Contains(t, buf.String(), "blank lines: 2")
}
