package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyRegistry is returned when an action needs at least one known session
	ErrEmptyRegistry = errors.New("no sessions have been detected")

	// ErrNoSessions is returned when no default read target can be chosen
	ErrNoSessions = errors.New("no session available to read")

	// ErrUnknownSession is returned when a name is not in the registry
	ErrUnknownSession = errors.New("unknown session")

	// ErrNoActiveSession is returned when no name is given and there is no current session
	ErrNoActiveSession = errors.New("no active session")

	// ErrEmptyName is returned when an explicitly supplied session name is empty
	ErrEmptyName = errors.New("session name cannot be empty")

	// ErrInvalidName is returned when a session name is not path-safe
	ErrInvalidName = errors.New("invalid session name")

	// ErrUnsavedChanges is returned when open documents have unsaved changes
	ErrUnsavedChanges = errors.New("open documents have unsaved changes")

	// ErrSessionExists is returned when a write would overwrite an existing file
	ErrSessionExists = errors.New("session file already exists")

	// ErrCannotDeleteCurrent is returned when deleting the current session without force
	ErrCannotDeleteCurrent = errors.New("cannot delete the current session")

	// ErrDeleteFailed is returned when the session file could not be removed
	ErrDeleteFailed = errors.New("failed to delete session file")

	// ErrConfigInvalid is returned for malformed configuration
	ErrConfigInvalid = errors.New("invalid session configuration")
)

// UnknownSessionError names the session that was not found.
type UnknownSessionError struct {
	Name string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("unknown session: %q", e.Name)
}

func (e *UnknownSessionError) Is(target error) bool {
	return target == ErrUnknownSession
}

// UnsavedChangesError lists the dirty documents that blocked an action.
type UnsavedChangesError struct {
	IDs []string
}

func (e *UnsavedChangesError) Error() string {
	return fmt.Sprintf("open documents have unsaved changes: %s", strings.Join(e.IDs, ", "))
}

func (e *UnsavedChangesError) Is(target error) bool {
	return target == ErrUnsavedChanges
}

// SessionExistsError is returned by Write when the target file is present.
type SessionExistsError struct {
	Path string
}

func (e *SessionExistsError) Error() string {
	return fmt.Sprintf("session file already exists: %s", e.Path)
}

func (e *SessionExistsError) Is(target error) bool {
	return target == ErrSessionExists
}

// CannotDeleteCurrentError is returned by Delete for the current session.
type CannotDeleteCurrentError struct {
	Path string
}

func (e *CannotDeleteCurrentError) Error() string {
	return fmt.Sprintf("cannot delete the current session: %s", e.Path)
}

func (e *CannotDeleteCurrentError) Is(target error) bool {
	return target == ErrCannotDeleteCurrent
}

// DeleteFailedError wraps the filesystem error from a failed delete.
type DeleteFailedError struct {
	Path string
	Err  error
}

func (e *DeleteFailedError) Error() string {
	return fmt.Sprintf("failed to delete session file %s: %v", e.Path, e.Err)
}

func (e *DeleteFailedError) Is(target error) bool {
	return target == ErrDeleteFailed
}

func (e *DeleteFailedError) Unwrap() error {
	return e.Err
}

// ConfigError describes one malformed configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid session configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid session configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfigInvalid
}

// ScanWarning is a non-fatal problem found while detecting sessions. The
// affected namespace contributes no records.
type ScanWarning struct {
	Path   string
	Reason string
}

func (w *ScanWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Reason)
}
