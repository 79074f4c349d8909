// Package splitter regroups interleaved thread-pool log output by worker.
//
// A log alternates between main-thread regions, copied through verbatim, and
// threaded regions that start after a "Dry run with N threads" line and end at
// the next [main] line. Lines of a threaded region are grouped per worker and
// each worker's lines are written as one contiguous block.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ccollicutt/deinterleave/pkg/config"
	"github.com/ccollicutt/deinterleave/pkg/parser"
)

type phase int

const (
	phaseMain phase = iota
	phaseThreaded
)

func (p phase) String() string {
	switch p {
	case phaseMain:
		return "main"
	case phaseThreaded:
		return "threaded"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Splitter runs the main/threaded state machine over a LineSource.
type Splitter struct {
	logger     *zap.Logger
	policy     config.UnattributedPolicy
	format     TextFormat
	outputName string
	outputPath string
}

// Option configures the Splitter.
type Option func(*Splitter)

// WithLogger sets the logger used for warnings and phase transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Splitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPolicy sets how unattributed continuation lines are handled.
func WithPolicy(policy config.UnattributedPolicy) Option {
	return func(s *Splitter) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// WithOutputName sets the file name created next to the input by SplitFile.
func WithOutputName(name string) Option {
	return func(s *Splitter) {
		if name != "" {
			s.outputName = name
		}
	}
}

// WithOutputPath overrides the output location used by SplitFile.
func WithOutputPath(path string) Option {
	return func(s *Splitter) {
		s.outputPath = path
	}
}

// WithHeaderFormat sets the thread block header format.
func WithHeaderFormat(format string) Option {
	return func(s *Splitter) {
		if format != "" {
			s.format.HeaderFormat = format
		}
	}
}

// WithLinePrefix enables the "<id>: <line>" thread line format.
func WithLinePrefix(prefix bool) Option {
	return func(s *Splitter) {
		s.format.PrefixLines = prefix
	}
}

// WithConfig applies every setting of a validated configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Splitter) {
		if cfg == nil {
			return
		}
		WithOutputName(cfg.OutputName)(s)
		WithHeaderFormat(cfg.HeaderFormat)(s)
		WithLinePrefix(cfg.PrefixLines)(s)
		WithPolicy(cfg.Unattributed)(s)
	}
}

// New creates a Splitter with default settings.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		logger:     zap.NewNop(),
		policy:     config.UnattributedSkip,
		format:     DefaultTextFormat(),
		outputName: config.DefaultOutputName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SplitFile de-interleaves the log at inputPath with a Splitter built from opts.
func SplitFile(ctx context.Context, inputPath string, opts ...Option) (*Result, error) {
	return New(opts...).SplitFile(ctx, inputPath)
}

// OutputPathFor returns where SplitFile writes the result for inputPath.
func (s *Splitter) OutputPathFor(inputPath string) string {
	if s.outputPath != "" {
		return s.outputPath
	}
	return filepath.Join(filepath.Dir(inputPath), s.outputName)
}

// SplitFile reads inputPath and writes the de-interleaved document, by
// default to deinterleaved-log.txt in the same directory. The output file is
// truncated once and only appended to afterwards.
func (s *Splitter) SplitFile(ctx context.Context, inputPath string) (*Result, error) {
	outputPath := s.OutputPathFor(inputPath)

	src, err := parser.OpenFile(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if sameFile(inputPath, outputPath) {
		return nil, fmt.Errorf("output file %s would overwrite the input", outputPath)
	}

	sink, err := CreateFileSink(outputPath, s.format)
	if err != nil {
		return nil, err
	}

	result, splitErr := s.Split(ctx, src, sink)
	closeErr := sink.Close()

	result.InputPath = inputPath
	result.OutputPath = outputPath

	if splitErr != nil {
		return result, splitErr
	}
	if closeErr != nil {
		return result, closeErr
	}
	return result, nil
}

// Split consumes src and writes every region to sink in input order.
// The returned Result is non-nil even when an error is returned.
func (s *Splitter) Split(ctx context.Context, src parser.LineSource, sink Sink) (*Result, error) {
	result := &Result{}
	current := phaseMain

	for {
		s.logger.Debug("entering phase", zap.Stringer("phase", current))

		switch current {
		case phaseMain:
			more, err := s.splitMain(ctx, src, sink, result)
			if err != nil {
				return result, err
			}
			if !more {
				return result, nil
			}
			current = phaseThreaded

		case phaseThreaded:
			if err := s.splitThreaded(ctx, src, sink, result); err != nil {
				return result, err
			}
			current = phaseMain
		}
	}
}

// splitMain copies lines up to and including the next run-start marker.
// It reports whether a threaded region follows.
func (s *Splitter) splitMain(ctx context.Context, src parser.LineSource, sink Sink, result *Result) (bool, error) {
	region := Region{Kind: RegionMain}
	var lines []string

	flush := func() error {
		if len(lines) == 0 {
			return nil
		}
		if err := sink.WriteMain(lines); err != nil {
			return fmt.Errorf("writing main-thread region: %w", err)
		}
		region.Lines = len(lines)
		result.MainLines += len(lines)
		result.addRegion(region)
		return nil
	}

	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return false, flush()
		}
		if err != nil {
			return false, err
		}

		region.observe(line.LineNum)
		lines = append(lines, line.Raw)

		if IsRunStart(line.Content) {
			return true, flush()
		}
	}
}

// splitThreaded groups lines by worker until a [main] line or EOF. The [main]
// line is pushed back for the following main-thread region.
func (s *Splitter) splitThreaded(ctx context.Context, src parser.LineSource, sink Sink, result *Result) error {
	region := Region{Kind: RegionThreaded}
	buf := newThreadBuffer()

	var current ThreadID
	haveCurrent := false

	var stop error
	for stop == nil {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if id, ok := WorkerID(line.Content); ok {
			current, haveCurrent = id, true
			region.observe(line.LineNum)
			buf.add(id, strings.TrimSpace(line.Content))
			continue
		}

		if IsMainMarker(line.Content) {
			src.Unread(line)
			break
		}

		region.observe(line.LineNum)
		content := strings.TrimSpace(line.Content)
		if content == "" {
			region.Blank++
			continue
		}
		if !haveCurrent {
			stop = s.unattributed(line, &region, result)
			continue
		}
		buf.add(current, content)
	}

	for _, id := range buf.order {
		lines := buf.lines[id]
		if err := sink.WriteThread(id, lines); err != nil {
			return fmt.Errorf("writing thread %s: %w", id, err)
		}
		region.Threads = append(region.Threads, ThreadStat{ID: id, Lines: len(lines)})
		region.Lines += len(lines)
	}
	result.ThreadLines += region.Lines
	result.BlankLines += region.Blank
	result.addRegion(region)

	return stop
}

// unattributed records a continuation line that has no worker. Under the
// abort policy it returns the error that ends the run.
func (s *Splitter) unattributed(line *parser.LogLine, region *Region, result *Result) error {
	u := UnattributedLine{
		Source:  line.Source,
		LineNum: line.LineNum,
		Content: line.Content,
	}

	if s.policy == config.UnattributedAbort {
		return &UnattributedLineError{Line: u}
	}

	s.logger.Warn("skipping continuation line with no preceding worker marker",
		zap.String("source", u.Source),
		zap.Int("line", u.LineNum),
		zap.String("content", u.Content))

	region.Unattributed++
	result.Unattributed = append(result.Unattributed, u)
	return nil
}

// threadBuffer keeps per-worker lines in first-seen worker order.
type threadBuffer struct {
	order []ThreadID
	lines map[ThreadID][]string
}

func newThreadBuffer() *threadBuffer {
	return &threadBuffer{lines: make(map[ThreadID][]string)}
}

func (b *threadBuffer) add(id ThreadID, line string) {
	if _, ok := b.lines[id]; !ok {
		b.order = append(b.order, id)
	}
	b.lines[id] = append(b.lines[id], line)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
