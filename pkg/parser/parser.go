package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileSource implements LineSource over a single file or reader.
// Lines of any length are accepted.
type FileSource struct {
	reader  *bufio.Reader
	closer  io.Closer
	source  string
	line    int
	done    bool
	pending *LogLine
}

// OpenFile opens path for reading and returns a source positioned at its first line.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	s := NewReaderSource(f, path)
	s.closer = f
	return s, nil
}

// NewReaderSource creates a LineSource reading from r. The name is reported
// as the Source of each line. Close does not close r.
func NewReaderSource(r io.Reader, name string) *FileSource {
	return &FileSource{
		reader: bufio.NewReaderSize(r, 64*1024),
		source: name,
	}
}

// Next returns the next line, or a previously unread one.
// Returns io.EOF when the input is exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.pending != nil {
		line := s.pending
		s.pending = nil
		return line, nil
	}

	if s.done {
		return nil, io.EOF
	}

	// raw keeps its terminator so main-thread lines can be written back byte for byte.
	raw, err := s.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", s.source, err)
		}
		s.done = true
		if raw == "" {
			return nil, io.EOF
		}
	}

	s.line++
	return &LogLine{
		Raw:     raw,
		Content: trimEOL(raw),
		Source:  s.source,
		LineNum: s.line,
	}, nil
}

// Unread pushes line back onto the source.
func (s *FileSource) Unread(line *LogLine) {
	s.pending = line
}

// Close releases the underlying file, if the source owns one.
func (s *FileSource) Close() error {
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
