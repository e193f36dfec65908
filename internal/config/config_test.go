package config

import (
	"testing"

	"github.com/harun/sesh/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.DataDir = "/home/user/.sesh"
	cfg.Sessions.Directory = "/home/user/.sesh/sessions"
	cfg.Workspace.StateFile = "/home/user/.sesh/workspace.json"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ".sesh.json", cfg.Sessions.LocalFileName)
	assert.False(t, cfg.Sessions.AutoRead)
	assert.False(t, cfg.Sessions.AutoWrite)
	assert.Equal(t, session.ActionFlags{}, cfg.Sessions.Force)
	assert.Equal(t, session.ActionFlags{Read: true, Write: true, Delete: true}, cfg.Sessions.Verbose)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 200, cfg.Watch.DebounceMs)
	assert.Empty(t, cfg.Watch.Autosave)
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing data dir", func(t *testing.T) {
		cfg := validConfig()
		cfg.DataDir = ""
		assert.ErrorContains(t, cfg.Validate(), "data_dir")
	})

	t.Run("relative session directory", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sessions.Directory = "sessions"
		assert.ErrorIs(t, cfg.Validate(), session.ErrConfigInvalid)
	})

	t.Run("missing state file", func(t *testing.T) {
		cfg := validConfig()
		cfg.Workspace.StateFile = ""
		assert.ErrorContains(t, cfg.Validate(), "state_file")
	})

	t.Run("negative debounce", func(t *testing.T) {
		cfg := validConfig()
		cfg.Watch.DebounceMs = -1
		assert.ErrorContains(t, cfg.Validate(), "debounce_ms")
	})
}

func TestConfigString(t *testing.T) {
	out := validConfig().String()
	assert.Contains(t, out, `"local_file_name": ".sesh.json"`)
	assert.Contains(t, out, `"data_dir": "/home/user/.sesh"`)
}

func TestConfigDisabledNamespaces(t *testing.T) {
	cfg := validConfig()
	cfg.Sessions.Directory = ""
	cfg.Sessions.LocalFileName = ""
	require.NoError(t, cfg.Validate())
}
