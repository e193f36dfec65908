package workspace

import (
	"errors"
	"time"
)

// SnapshotVersion is the format version written into every snapshot
const SnapshotVersion = 1

var (
	// ErrDocumentNotFound is returned when no open document has the given ID
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentDirty is returned when closing a dirty document without force
	ErrDocumentDirty = errors.New("document has unsaved changes")

	// ErrSnapshotExists is returned when a snapshot would replace an existing file
	ErrSnapshotExists = errors.New("snapshot file already exists")

	// ErrInvalidSnapshot is returned when a snapshot fails schema validation
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Document is one open document in the workspace
type Document struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Dirty    bool      `json:"dirty"`
	OpenedAt time.Time `json:"opened_at"`
}

// State is the persisted workspace: open documents and the current session
type State struct {
	Documents      []Document `json:"documents"`
	CurrentSession string     `json:"current_session,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SnapshotDocument is a document entry inside a session file
type SnapshotDocument struct {
	Path  string `json:"path"`
	Dirty bool   `json:"dirty"`
}

// Snapshot is the content of a session file
type Snapshot struct {
	Version   int                `json:"version"`
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Cwd       string             `json:"cwd"`
	Documents []SnapshotDocument `json:"documents"`
}

// Config holds configuration for a Workspace
type Config struct {
	StateFile string                 // Path to the workspace state file
	Getwd     func() (string, error) // Optional: defaults to os.Getwd
}
