package workspace

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	testStateFile = "/home/user/.sesh/workspace.json"
	testCwd       = "/work/project"
)

func newTestWorkspace(t *testing.T, fs afero.Fs) *Workspace {
	t.Helper()

	ws, err := New(fs, Config{
		StateFile: testStateFile,
		Getwd:     func() (string, error) { return testCwd, nil },
	})
	require.NoError(t, err)
	return ws
}
