package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harun/sesh/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for one writer goroutine and a polling test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// startWatch runs `sesh watch` until the returned stop function is called
func startWatch(t *testing.T, env *testEnv) (*syncBuffer, func() error) {
	t.Helper()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--config", env.configPath, "--workdir", env.workdir, "watch"})

	stdout := &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&syncBuffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "Watching sessions")
	}, 5*time.Second, 20*time.Millisecond)

	return stdout, func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return context.DeadlineExceeded
		}
	}
}

func TestWatchCommand(t *testing.T) {
	t.Run("rescans on change", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.Watch.DebounceMs = 20
		})

		stdout, stop := startWatch(t, env)
		assert.Contains(t, stdout.String(), "Watching sessions (0 known)")

		require.NoError(t, os.WriteFile(filepath.Join(env.sessionsDir, "work"), []byte("{}"), 0644))

		require.Eventually(t, func() bool {
			return strings.Contains(stdout.String(), "Sessions changed: work (1 known)")
		}, 5*time.Second, 20*time.Millisecond)

		require.NoError(t, stop())
		assert.Contains(t, stdout.String(), "Stopped watching")
	})

	t.Run("creates a missing session directory", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.RemoveAll(env.sessionsDir))

		stdout, stop := startWatch(t, env)
		assert.DirExists(t, env.sessionsDir)

		require.NoError(t, stop())
		assert.Contains(t, stdout.String(), "Stopped watching")
	})

	t.Run("local session file", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.Watch.DebounceMs = 20
		})

		stdout, stop := startWatch(t, env)
		defer stop()

		require.NoError(t, os.WriteFile(filepath.Join(env.workdir, ".sesh.json"), []byte("{}"), 0644))

		require.Eventually(t, func() bool {
			return strings.Contains(stdout.String(), "Sessions changed: .sesh.json (1 known)")
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("autosave writes the current session", func(t *testing.T) {
		env := newTestEnv(t, withAutoWrite, func(cfg *config.Config) {
			cfg.Watch.Autosave = "@every 1s"
		})
		env.openDoc(t, "main.go")
		env.mustRun(t, "write", "work")
		env.openDoc(t, "later.go")

		_, stop := startWatch(t, env)
		defer stop()

		require.Eventually(t, func() bool {
			data, err := os.ReadFile(filepath.Join(env.sessionsDir, "work"))
			return err == nil && strings.Contains(string(data), "later.go")
		}, 5*time.Second, 50*time.Millisecond)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.Watch.DebounceMs = -1
		})

		_, _, err := env.run("watch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}
