// The cmd/ package holds CLI integration tests. Each test builds the real
// binary once and runs it against a temporary project with HOME pointed at
// a temporary directory, so global config and the audit log never touch
// the developer's machine.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the beamtime binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "beamtime-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "beamtime"
		if os.PathSeparator == '\\' {
			binaryName = "beamtime.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/
		projectRoot := filepath.Dir(mustGetwd())

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
	env    []string
}

// newBareEnv creates a project directory without running init.
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		binary: buildBinary(t),
	}
	e.env = append(os.Environ(),
		"HOME="+e.home,
		"USERPROFILE="+e.home,
		"USER=tester",
		"BEAMTIME_DB=",
		"BEAMTIME_DIR=",
		"BEAMLINE=",
		"DEFAULT_PATH=",
		"BEAMTIME_DB_DRIVER=",
		"BEAMTIME_DB_DSN=",
	)
	return e
}

// newTestEnv creates a temporary project with an initialised catalog.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := newBareEnv(t)
	e.run("init")
	return e
}

// run executes beamtime with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	require.NoError(e.t, err, "beamtime %v\noutput: %s", args, out)
	return out
}

// runErr executes beamtime and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	return e.runStdinErr("", args...)
}

// runStdin executes beamtime with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	require.NoError(e.t, err, "beamtime %v\noutput: %s", args, out)
	return out
}

// runStdinErr executes beamtime with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = e.env
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// stdout executes beamtime and returns stdout only, for JSON output that
// must not be mixed with progress on stderr.
func (e *testEnv) stdout(args ...string) string {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = e.env
	out, err := cmd.Output()
	require.NoError(e.t, err, "beamtime %v", args)
	return string(out)
}

// write creates a file in the project directory and returns its path.
func (e *testEnv) write(name, content string) string {
	e.t.Helper()
	p := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// testReference is a small reference data set: two runs on one beamline,
// one station/technique pair with a data path template.
const testReference = `
info:
  - key: version
    value: "1"
    modify_time: 2025-03-14T09:26:53Z
    create_time: 2025-01-01T00:00:00Z
    display_order: 1
runs:
  - {id: 1, name: "2025-1"}
  - {id: 2, name: "2025-2"}
beamlines:
  - {id: 10, name: "13-BM-C"}
stations:
  - {id: 3, name: "13-BM-C"}
techniques:
  - {id: 4, name: "XRD"}
process_statuses:
  - {id: 1, name: "Processed"}
acknowledgments:
  - {id: 1, title: "NSF", text: "Supported by NSF"}
experiments:
  - {id: 100, run_id: 1, beamline_id: 10, proposal_id: 5001, title: "Powder | XRD", process_status_id: 1}
  - {id: 101, run_id: 2, beamline_id: 10}
data_paths:
  - {id: 1, path_template: "/cars5/Data/{YEAR}/{MONTH}", station_id: 3, technique_id: 4}
`

// seeded returns an initialised environment loaded with testReference.
func seeded(t *testing.T) *testEnv {
	t.Helper()
	e := newTestEnv(t)
	e.run("seed", e.write("reference.yaml", testReference))
	return e
}
