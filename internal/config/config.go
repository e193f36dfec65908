package config

import (
	"encoding/json"
	"fmt"

	"github.com/harun/sesh/pkg/session"
)

// Config represents the sesh configuration file
type Config struct {
	// Session namespaces and per-action defaults
	Sessions session.Config `json:"sessions" mapstructure:"sessions"`

	// Workspace host
	Workspace WorkspaceConfig `json:"workspace" mapstructure:"workspace"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Watch mode
	Watch WatchConfig `json:"watch" mapstructure:"watch"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// WorkspaceConfig holds workspace host configuration
type WorkspaceConfig struct {
	StateFile string `json:"state_file" mapstructure:"state_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `json:"level" mapstructure:"level"`
	File     string `json:"file" mapstructure:"file"`
	Console  bool   `json:"console" mapstructure:"console"`
	MaxSize  int    `json:"max_size" mapstructure:"max_size"` // MB
	MaxAge   int    `json:"max_age" mapstructure:"max_age"`   // days
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// WatchConfig holds configuration for `sesh watch`
type WatchConfig struct {
	DebounceMs  int    `json:"debounce_ms" mapstructure:"debounce_ms"`
	MetricsAddr string `json:"metrics_addr" mapstructure:"metrics_addr"` // empty disables /metrics
	Autosave    string `json:"autosave" mapstructure:"autosave"`         // cron expression or @every, empty disables
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Sessions: session.Config{
			LocalFileName: ".sesh.json",
			Verbose: session.ActionFlags{
				Read:   true,
				Write:  true,
				Delete: true,
			},
		},
		Logging: LoggingConfig{
			Level:    "warn",
			Console:  false,
			MaxSize:  10,
			MaxAge:   7,
			Compress: true,
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if err := c.Sessions.Validate(); err != nil {
		return err
	}

	if c.Workspace.StateFile == "" {
		return fmt.Errorf("workspace.state_file is required")
	}

	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0")
	}

	return nil
}
