package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envKeys are the settings that can be overridden with SESH_* variables,
// e.g. SESH_SESSIONS_DIRECTORY or SESH_LOGGING_LEVEL.
var envKeys = []string{
	"sessions.directory",
	"sessions.local_file_name",
	"sessions.auto_read",
	"sessions.auto_write",
	"sessions.force.read",
	"sessions.force.write",
	"sessions.force.delete",
	"sessions.verbose.read",
	"sessions.verbose.write",
	"sessions.verbose.delete",
	"workspace.state_file",
	"logging.level",
	"logging.file",
	"logging.console",
	"logging.max_size",
	"logging.max_age",
	"logging.compress",
	"watch.debounce_ms",
	"watch.metrics_addr",
	"watch.autosave",
	"data_dir",
}

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load reads the config file, applies environment overrides and fills in
// derived paths. A missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	configPath, err := l.resolvePath()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetEnvPrefix("SESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".sesh")
	}
	cfg.DataDir = expandHome(cfg.DataDir)

	// An explicit empty directory disables global sessions.
	if !v.IsSet("sessions.directory") {
		cfg.Sessions.Directory = filepath.Join(cfg.DataDir, "sessions")
	}
	cfg.Sessions.Directory = expandHome(cfg.Sessions.Directory)

	if cfg.Workspace.StateFile == "" {
		cfg.Workspace.StateFile = filepath.Join(cfg.DataDir, "workspace.json")
	}
	cfg.Workspace.StateFile = expandHome(cfg.Workspace.StateFile)

	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(cfg.DataDir, "sesh.log")
	}
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return cfg, nil
}

// Save saves the configuration to file
func (l *Loader) Save(cfg *Config) error {
	configPath, err := l.resolvePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.Set("sessions", cfg.Sessions)
	v.Set("workspace", cfg.Workspace)
	v.Set("logging", cfg.Logging)
	v.Set("watch", cfg.Watch)
	v.Set("data_dir", cfg.DataDir)

	if err := v.WriteConfig(); err != nil {
		if os.IsNotExist(err) {
			if err := v.SafeWriteConfig(); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
		} else {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	path, err := l.resolvePath()
	if err != nil {
		return ""
	}
	return path
}

func (l *Loader) resolvePath() (string, error) {
	if l.configPath != "" {
		return expandHome(l.configPath), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sesh", "sesh.json"), nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	loader := NewLoader(configPath)
	return loader.Load()
}
