package parser

import (
	"context"
)

// LineSource provides a sequential iterator over log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next log line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Unread pushes a line back so the following Next returns it again.
	// Only one line can be pending; a second Unread replaces the first.
	Unread(line *LogLine)

	// Close releases any resources held by the source.
	Close() error
}
