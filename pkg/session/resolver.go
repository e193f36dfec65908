package session

import (
	"path/filepath"
	"strings"
)

// Target selects a session by name or, when no name is given, falls back to
// the action's default (the current session for write and delete, the local
// or latest session for read).
type Target struct {
	name string
	set  bool
}

// Named targets the session with the given file name. An empty name is kept
// distinct from Default and rejected by the actions.
func Named(name string) Target {
	return Target{name: name, set: true}
}

// Default targets whatever the action falls back to
func Default() Target {
	return Target{}
}

// Name returns the supplied name and whether one was supplied
func (t Target) Name() (string, bool) {
	return t.name, t.set
}

func (t Target) String() string {
	if !t.set {
		return "<default>"
	}
	return t.name
}

// Resolver turns session names into absolute file paths
type Resolver struct {
	cfg Config
}

// NewResolver creates a resolver for a validated configuration
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns the absolute path for target. Without a name it returns the
// current session path. The configured local file name resolves against cwd;
// every other name resolves against the global directory.
func (r *Resolver) Resolve(target Target, currentSessionPath, cwd string) (string, error) {
	name, ok := target.Name()
	if !ok {
		if currentSessionPath == "" {
			return "", ErrNoActiveSession
		}
		return absolute(currentSessionPath, cwd), nil
	}

	if err := validateName(name); err != nil {
		return "", err
	}

	if r.cfg.LocalFileName != "" && name == r.cfg.LocalFileName {
		return absolute(name, cwd), nil
	}

	if r.cfg.Directory == "" {
		return "", &ConfigError{Field: "directory", Reason: "global sessions are disabled"}
	}
	return absolute(filepath.Join(r.cfg.Directory, name), cwd), nil
}

// validateName checks that a supplied name is a plain file name
func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\") {
		return ErrInvalidName
	}
	if strings.Contains(name, "\x00") {
		return ErrInvalidName
	}
	return nil
}

func absolute(path, cwd string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}
