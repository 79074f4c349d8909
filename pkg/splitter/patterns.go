package splitter

import "regexp"

// Log markers emitted by the minimizer's thread pool.
//
//	13:40:26.262 [main] Dry run with 8 threads
//	13:40:26.262 [ForkJoinPool-1-worker-9] Minimizing source file...
var (
	runStartPattern = regexp.MustCompile(`Dry run with \d+ threads`)
	workerPattern   = regexp.MustCompile(`\[ForkJoinPool-\d+-worker-(\d+)\]`)
	mainPattern     = regexp.MustCompile(`\[main\]`)
)

// ThreadID identifies a pool worker by the trailing digits of its name.
type ThreadID string

// IsRunStart reports whether line opens a threaded region.
func IsRunStart(line string) bool {
	return runStartPattern.MatchString(line)
}

// IsMainMarker reports whether line was logged by the main thread.
func IsMainMarker(line string) bool {
	return mainPattern.MatchString(line)
}

// WorkerID extracts the worker id from line, if it carries a worker marker.
// The pool number is ignored.
func WorkerID(line string) (ThreadID, bool) {
	m := workerPattern.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", false
	}
	return ThreadID(m[1]), true
}
