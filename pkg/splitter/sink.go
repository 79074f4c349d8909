package splitter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccollicutt/deinterleave/pkg/config"
)

// Sink receives the regrouped regions in input order.
type Sink interface {
	// WriteMain receives the raw lines of one main-thread region.
	WriteMain(lines []string) error

	// WriteThread receives the trimmed lines of one worker in a threaded region.
	WriteThread(id ThreadID, lines []string) error
}

// TextFormat controls how TextSink renders thread blocks.
type TextFormat struct {
	// HeaderFormat is a fmt format with a single %s for the thread id.
	HeaderFormat string

	// PrefixLines writes each thread line as "<id>: <line>".
	PrefixLines bool
}

// DefaultTextFormat returns the format used when no configuration is given.
func DefaultTextFormat() TextFormat {
	return TextFormat{HeaderFormat: config.DefaultHeaderFormat}
}

// TextSink writes the de-interleaved document to an io.Writer.
// Thread blocks are terminated like the main-thread line written before them,
// so CRLF logs stay CRLF.
type TextSink struct {
	w      io.Writer
	format TextFormat
	eol    string
}

// NewTextSink creates a TextSink writing to w.
func NewTextSink(w io.Writer, format TextFormat) *TextSink {
	if format.HeaderFormat == "" {
		format.HeaderFormat = config.DefaultHeaderFormat
	}
	return &TextSink{w: w, format: format, eol: "\n"}
}

// WriteMain copies main-thread lines through unchanged, terminators included.
// Only the last line of the input can lack a terminator, and nothing is
// written after it.
func (s *TextSink) WriteMain(lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(s.w, line); err != nil {
			return err
		}
		if eol := lineEnding(line); eol != "" {
			s.eol = eol
		}
	}
	return nil
}

// WriteThread writes a header, the thread's lines and a blank separator.
func (s *TextSink) WriteThread(id ThreadID, lines []string) error {
	if _, err := fmt.Fprintf(s.w, s.format.HeaderFormat+s.eol, id); err != nil {
		return err
	}
	for _, line := range lines {
		if s.format.PrefixLines {
			line = string(id) + ": " + line
		}
		if _, err := io.WriteString(s.w, line+s.eol); err != nil {
			return err
		}
	}
	_, err := io.WriteString(s.w, s.eol)
	return err
}

func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}

// FileSink is a TextSink over a file that is truncated once on creation.
type FileSink struct {
	*TextSink
	file *os.File
	buf  *bufio.Writer
}

// CreateFileSink creates or truncates path and returns a sink appending to it.
func CreateFileSink(path string, format TextFormat) (*FileSink, error) {
	f, err := os.Create(path) // #nosec G304 -- output path derived from user input
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	return &FileSink{
		TextSink: NewTextSink(buf, format),
		file:     f,
		buf:      buf,
	}, nil
}

// Close flushes buffered output and closes the file.
func (s *FileSink) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	s.file = nil
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// discardSink drops everything; used to inspect a log without writing.
type discardSink struct{}

func (discardSink) WriteMain([]string) error             { return nil }
func (discardSink) WriteThread(ThreadID, []string) error { return nil }

// Discard is a Sink that writes nothing.
var Discard Sink = discardSink{}
