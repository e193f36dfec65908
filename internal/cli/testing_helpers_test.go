package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harun/sesh/internal/config"
	"github.com/stretchr/testify/require"
)

// testEnv is an isolated home with a config file, a session directory and a
// working directory
type testEnv struct {
	home        string
	configPath  string
	sessionsDir string
	workdir     string
	stdin       string
}

func newTestEnv(t *testing.T, mutators ...func(*config.Config)) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	env := &testEnv{
		home:        home,
		configPath:  filepath.Join(home, ".sesh", "sesh.json"),
		sessionsDir: filepath.Join(home, ".sesh", "sessions"),
		workdir:     filepath.Join(home, "project"),
	}
	require.NoError(t, os.MkdirAll(env.sessionsDir, 0755))
	require.NoError(t, os.MkdirAll(env.workdir, 0755))

	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(home, ".sesh")
	cfg.Sessions.Directory = env.sessionsDir
	cfg.Workspace.StateFile = filepath.Join(home, ".sesh", "workspace.json")
	cfg.Logging.File = filepath.Join(home, ".sesh", "sesh.log")
	cfg.Logging.Console = false
	for _, mutate := range mutators {
		mutate(cfg)
	}
	require.NoError(t, config.NewLoader(env.configPath).Save(cfg))

	return env
}

// run executes sesh with the environment's config and working directory
func (e *testEnv) run(args ...string) (string, string, error) {
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--config", e.configPath, "--workdir", e.workdir}, args...))

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(e.stdin))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun fails the test if the command returns an error
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := e.run(args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return stdout
}

// touch sets a file's modification time
func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

// openDoc opens a document through the CLI and returns its ID
func (e *testEnv) openDoc(t *testing.T, path string) string {
	t.Helper()
	stdout := e.mustRun(t, "docs", "open", path)
	fields := strings.Split(strings.TrimSpace(stdout), "\t")
	require.Len(t, fields, 2, "unexpected docs open output: %q", stdout)
	return fields[0]
}
