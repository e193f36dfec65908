package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	testGlobalDir = "/home/user/.sesh/sessions"
	testCwd       = "/work/project"
	testLocalName = ".sesh.json"
)

// fakeHost records every call the service makes to its collaborators
type fakeHost struct {
	fs        afero.Fs
	docs      []Document
	current   string
	written   []string
	overwrite []bool
	loaded    []string
	discarded int
	reports   []string
	writeErr  error
	loadErr   error

	setCurrentErr error
}

func (h *fakeHost) WriteSnapshot(path string, overwrite bool) error {
	if h.writeErr != nil {
		return h.writeErr
	}
	h.written = append(h.written, path)
	h.overwrite = append(h.overwrite, overwrite)
	if err := h.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := afero.WriteFile(h.fs, path, []byte(`{"version":1}`), 0644); err != nil {
		return err
	}
	h.current = path
	return nil
}

func (h *fakeHost) LoadSnapshot(path string) error {
	if h.loadErr != nil {
		return h.loadErr
	}
	h.loaded = append(h.loaded, path)
	h.current = path
	return nil
}

func (h *fakeHost) ListOpen() ([]Document, error) {
	return h.docs, nil
}

func (h *fakeHost) DiscardAll() error {
	h.discarded++
	h.docs = nil
	return nil
}

func (h *fakeHost) CurrentSessionPath() string {
	return h.current
}

func (h *fakeHost) SetCurrentSessionPath(path string) error {
	if h.setCurrentErr != nil {
		return h.setCurrentErr
	}
	h.current = path
	return nil
}

func (h *fakeHost) Report(message string) {
	h.reports = append(h.reports, message)
}

// failingRemoveFs refuses every Remove call
type failingRemoveFs struct {
	afero.Fs
}

func (failingRemoveFs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: errors.New("permission denied")}
}

func testConfig() Config {
	return Config{
		Directory:     testGlobalDir,
		LocalFileName: testLocalName,
		Verbose:       ActionFlags{Read: true, Write: true, Delete: true},
	}
}

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testGlobalDir, 0755))
	require.NoError(t, fs.MkdirAll(testCwd, 0755))
	return fs
}

// writeSessionFile creates a session file with a fixed modification time
func writeSessionFile(t *testing.T, fs afero.Fs, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(`{"version":1}`), 0644))
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
}

func setupTestService(t *testing.T, fs afero.Fs, cfg Config) (*Service, *fakeHost) {
	t.Helper()

	host := &fakeHost{fs: fs}
	logger := zerolog.Nop()
	svc, err := NewService(ServiceOptions{
		Config:    cfg,
		Fs:        fs,
		Getwd:     func() (string, error) { return testCwd, nil },
		Snapshots: host,
		Documents: host,
		Current:   host,
		Reporter:  host,
		Logger:    &logger,
	})
	require.NoError(t, err)
	return svc, host
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
