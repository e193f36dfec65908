package session

import (
	"path/filepath"
	"strings"
)

// Action identifies one of the user-facing session operations
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// ActionFlags holds one boolean per action
type ActionFlags struct {
	Read   bool `json:"read" mapstructure:"read"`
	Write  bool `json:"write" mapstructure:"write"`
	Delete bool `json:"delete" mapstructure:"delete"`
}

// For returns the flag value for an action
func (f ActionFlags) For(action Action) bool {
	switch action {
	case ActionRead:
		return f.Read
	case ActionWrite:
		return f.Write
	case ActionDelete:
		return f.Delete
	default:
		return false
	}
}

// Config holds session configuration. It is validated once when a Service is
// built and treated as immutable afterwards.
type Config struct {
	// Directory is the absolute path of the global session directory.
	// Empty disables global sessions.
	Directory string `json:"directory" mapstructure:"directory"`

	// LocalFileName is the base name of the local session file in the
	// working directory. Empty disables local sessions.
	LocalFileName string `json:"local_file_name" mapstructure:"local_file_name"`

	AutoRead  bool `json:"auto_read" mapstructure:"auto_read"`
	AutoWrite bool `json:"auto_write" mapstructure:"auto_write"`

	Force   ActionFlags `json:"force" mapstructure:"force"`
	Verbose ActionFlags `json:"verbose" mapstructure:"verbose"`
}

// Options controls a single read, write or delete call
type Options struct {
	Force   bool
	Verbose bool
}

// Defaults returns the configured options for an action
func (c Config) Defaults(action Action) Options {
	return Options{
		Force:   c.Force.For(action),
		Verbose: c.Verbose.For(action),
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.Directory != "" && !filepath.IsAbs(c.Directory) {
		return &ConfigError{Field: "directory", Reason: "must be an absolute path"}
	}

	if c.LocalFileName != "" {
		switch {
		case c.LocalFileName == "." || c.LocalFileName == "..":
			return &ConfigError{Field: "local_file_name", Reason: "must be a file name"}
		case strings.ContainsAny(c.LocalFileName, "/\\"):
			return &ConfigError{Field: "local_file_name", Reason: "cannot contain path separators"}
		case strings.Contains(c.LocalFileName, "\x00"):
			return &ConfigError{Field: "local_file_name", Reason: "cannot contain null bytes"}
		}
	}

	return nil
}

// ShouldAutoRead reports whether the host should read the default session at
// startup. Nothing is loaded over content the user is already looking at.
func ShouldAutoRead(hasShownContent bool, cfg Config) bool {
	return cfg.AutoRead && !hasShownContent
}

// ShouldAutoWrite reports whether the host should write the current session
// on exit.
func ShouldAutoWrite(hasCurrentSession bool, cfg Config) bool {
	return cfg.AutoWrite && hasCurrentSession
}
