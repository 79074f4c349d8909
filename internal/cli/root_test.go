package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	root := NewRootCommand()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	code := run(root, args, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_MissingArgumentPrintsUsage(t *testing.T) {
	code, _, stderr := runRoot(t)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Error: usage error: missing <log-file> argument")
	assert.Contains(t, stderr, "Usage:")
	assert.Contains(t, stderr, "deinterleave <log-file>")
}

func TestRoot_SplitShortcut(t *testing.T) {
	logPath := writeLog(t, "Dry run with 1 threads\n[ForkJoinPool-1-worker-1] x\n")

	code, stdout, stderr := runRoot(t, logPath)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	outPath := filepath.Join(filepath.Dir(logPath), "deinterleaved-log.txt")
	assert.Equal(t, "De-interleaved log written to: "+outPath+"\n", stdout)
	assert.FileExists(t, outPath)
}

func TestRoot_SplitSubcommand(t *testing.T) {
	logPath := writeLog(t, "plain\n")

	code, stdout, _ := runRoot(t, "split", logPath)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "De-interleaved log written to:")
}

func TestRoot_StrictExitCode(t *testing.T) {
	logPath := writeLog(t, "Dry run with 1 threads\norphan\n")

	code, _, stderr := runRoot(t, "split", "--strict", logPath)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "skipped 1 line(s)")
}

func TestRoot_MissingFile(t *testing.T) {
	code, _, stderr := runRoot(t, "/nonexistent/run.log")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Error: splitting /nonexistent/run.log")
	assert.NotContains(t, stderr, "Usage:")
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	logPath := writeLog(t, "plain\n")

	code, _, stderr := runRoot(t, "--log-level", "loud", logPath)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid log level")
}

func TestRoot_UnknownFlag(t *testing.T) {
	code, _, stderr := runRoot(t, "split", "--bogus", "x.log")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown flag: --bogus")
	assert.Contains(t, stderr, "Usage:")
}

func TestRoot_ValidateWithoutArgumentPrintsUsage(t *testing.T) {
	code, _, stderr := runRoot(t, "validate")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Error: usage error: missing <config-file> argument")
	assert.Contains(t, stderr, "Usage:")
	assert.Contains(t, stderr, "validate <config-file>")
}

func TestRoot_InspectMissingFile(t *testing.T) {
	code, stdout, stderr := runRoot(t, "inspect", "/nonexistent/run.log")

	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: inspecting /nonexistent/run.log: opening log file")
	assert.NotContains(t, stderr, "Usage:")
}

func TestRoot_Subcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"split", "inspect", "validate", "version"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestRoot_Version(t *testing.T) {
	code, stdout, _ := runRoot(t, "version")

	assert.Equal(t, 0, code)
	assert.Equal(t, "deinterleave dev\n", stdout)
}
