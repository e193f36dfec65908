package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/sesh.json")
	assert.NotNil(t, loader)
	assert.Equal(t, "/path/to/sesh.json", loader.GetConfigPath())
}

func TestLoaderLoad(t *testing.T) {
	t.Run("defaults when file doesn't exist", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		cfg, err := NewLoader(filepath.Join(home, "missing.json")).Load()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(home, ".sesh"), cfg.DataDir)
		assert.Equal(t, filepath.Join(home, ".sesh", "sessions"), cfg.Sessions.Directory)
		assert.Equal(t, filepath.Join(home, ".sesh", "workspace.json"), cfg.Workspace.StateFile)
		assert.Equal(t, filepath.Join(home, ".sesh", "sesh.log"), cfg.Logging.File)
		assert.Equal(t, ".sesh.json", cfg.Sessions.LocalFileName)
		assert.True(t, cfg.Sessions.Verbose.Read)
	})

	t.Run("load config from file", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "sesh.json")

		content := `{
			"data_dir": "` + dir + `",
			"sessions": {
				"directory": "/srv/sessions",
				"local_file_name": "Session.json",
				"auto_write": true,
				"force": {"delete": true}
			},
			"watch": {"autosave": "@every 5m"}
		}`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		cfg, err := NewLoader(configPath).Load()
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.DataDir)
		assert.Equal(t, "/srv/sessions", cfg.Sessions.Directory)
		assert.Equal(t, "Session.json", cfg.Sessions.LocalFileName)
		assert.True(t, cfg.Sessions.AutoWrite)
		assert.True(t, cfg.Sessions.Force.Delete)
		assert.False(t, cfg.Sessions.Force.Read)
		assert.Equal(t, "@every 5m", cfg.Watch.Autosave)
		assert.Equal(t, 200, cfg.Watch.DebounceMs)
	})

	t.Run("explicit empty directory disables global sessions", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "sesh.json")
		content := `{"data_dir": "` + dir + `", "sessions": {"directory": ""}}`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		cfg, err := NewLoader(configPath).Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.Sessions.Directory)
	})

	t.Run("environment overrides", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("SESH_DATA_DIR", dir)
		t.Setenv("SESH_SESSIONS_DIRECTORY", "/env/sessions")
		t.Setenv("SESH_SESSIONS_AUTO_READ", "true")
		t.Setenv("SESH_LOGGING_LEVEL", "debug")

		cfg, err := NewLoader(filepath.Join(dir, "missing.json")).Load()
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.DataDir)
		assert.Equal(t, "/env/sessions", cfg.Sessions.Directory)
		assert.True(t, cfg.Sessions.AutoRead)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.json")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid json"), 0644))

		_, err := NewLoader(configPath).Load()
		assert.Error(t, err)
	})
}

func TestLoaderSave(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nested", "sesh.json")

	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.Sessions.Directory = "/srv/sessions"
	cfg.Sessions.AutoRead = true
	cfg.Watch.MetricsAddr = "127.0.0.1:9090"

	loader := NewLoader(configPath)
	require.NoError(t, loader.Save(cfg))

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Sessions, loaded.Sessions)
	assert.Equal(t, "127.0.0.1:9090", loaded.Watch.MetricsAddr)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Empty(t, NewValidator().ValidateSchema(data))
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "sessions"), expandHome("~/sessions"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
