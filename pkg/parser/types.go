// Package parser provides sequential line reading for log files.
package parser

// LogLine is a single line read from a log source.
type LogLine struct {
	// Raw is the line exactly as read, including its line terminator if any.
	Raw string

	// Content is Raw with the trailing "\n" or "\r\n" removed. Used for matching.
	Content string

	// Source is the file path (or name) this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}
