// Package workspace is the editor host behind sesh. It keeps the set of open
// documents and the current session path in a JSON state file, and turns that
// state into session snapshots and back.
//
// A Workspace satisfies the session.Snapshotter, session.Documents and
// session.CurrentSession interfaces, so it can be handed straight to
// session.NewService:
//
//	ws, err := workspace.New(afero.NewOsFs(), workspace.Config{
//		StateFile: "~/.sesh/workspace.json",
//	})
//	if err != nil {
//		log.Fatal().Err(err).Msg("Failed to open workspace")
//	}
//
//	svc, err := session.NewService(session.ServiceOptions{
//		Config:    cfg.Sessions,
//		Snapshots: ws,
//		Documents: ws,
//		Current:   ws,
//	})
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harun/sesh/pkg/session"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Workspace tracks open documents and the current session
type Workspace struct {
	fs        afero.Fs
	store     *Store
	validator *SnapshotValidator
	getwd     func() (string, error)
	logger    zerolog.Logger

	mu    sync.RWMutex
	state State
}

// New loads the workspace state from cfg.StateFile
func New(fs afero.Fs, cfg Config) (*Workspace, error) {
	if cfg.StateFile == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	if cfg.Getwd == nil {
		cfg.Getwd = os.Getwd
	}

	store := NewStore(fs, cfg.StateFile)
	state, err := store.Load()
	if err != nil {
		return nil, err
	}

	return &Workspace{
		fs:        fs,
		store:     store,
		validator: NewSnapshotValidator(),
		getwd:     cfg.Getwd,
		logger:    log.Logger.With().Str("component", "workspace").Logger(),
		state:     *state,
	}, nil
}

// Open adds a document to the workspace. Opening a path twice returns the
// existing document.
func (w *Workspace) Open(path string) (Document, error) {
	abs, err := w.absolute(path)
	if err != nil {
		return Document{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, doc := range w.state.Documents {
		if doc.Path == abs {
			return doc, nil
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return Document{}, fmt.Errorf("failed to generate document id: %w", err)
	}

	doc := Document{
		ID:       id,
		Path:     abs,
		OpenedAt: time.Now().UTC(),
	}

	next := w.cloneState()
	next.Documents = append(next.Documents, doc)
	if err := w.commit(next); err != nil {
		return Document{}, err
	}

	w.logger.Debug().Str("id", id).Str("path", abs).Msg("Document opened")
	return doc, nil
}

// SetDirty marks a document as modified or saved
func (w *Workspace) SetDirty(id string, dirty bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cloneState()
	i := indexOf(next.Documents, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	next.Documents[i].Dirty = dirty

	return w.commit(next)
}

// Close removes a document. Dirty documents need force.
func (w *Workspace) Close(id string, force bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cloneState()
	i := indexOf(next.Documents, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if next.Documents[i].Dirty && !force {
		return fmt.Errorf("%w: %s", ErrDocumentDirty, id)
	}
	next.Documents = append(next.Documents[:i], next.Documents[i+1:]...)

	return w.commit(next)
}

// Documents returns a copy of the open documents in opening order
func (w *Workspace) Documents() []Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]Document, len(w.state.Documents))
	copy(docs, w.state.Documents)
	return docs
}

// ListOpen implements session.Documents
func (w *Workspace) ListOpen() ([]session.Document, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]session.Document, 0, len(w.state.Documents))
	for _, doc := range w.state.Documents {
		docs = append(docs, session.Document{ID: doc.ID, Dirty: doc.Dirty})
	}
	return docs, nil
}

// DiscardAll implements session.Documents
func (w *Workspace) DiscardAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cloneState()
	next.Documents = []Document{}
	return w.commit(next)
}

// CurrentSessionPath implements session.CurrentSession
func (w *Workspace) CurrentSessionPath() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.CurrentSession
}

// SetCurrentSessionPath implements session.CurrentSession
func (w *Workspace) SetCurrentSessionPath(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cloneState()
	next.CurrentSession = path
	return w.commit(next)
}

// WriteSnapshot serializes the open documents to path and makes it the
// current session.
func (w *Workspace) WriteSnapshot(path string, overwrite bool) error {
	if !overwrite {
		exists, err := afero.Exists(w.fs, path)
		if err != nil {
			return fmt.Errorf("failed to check snapshot file: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrSnapshotExists, path)
		}
	}

	cwd, err := w.getwd()
	if err != nil {
		cwd = ""
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	snapshot := Snapshot{
		Version:   SnapshotVersion,
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Cwd:       cwd,
		Documents: make([]SnapshotDocument, 0, len(w.state.Documents)),
	}
	for _, doc := range w.state.Documents {
		snapshot.Documents = append(snapshot.Documents, SnapshotDocument{
			Path:  doc.Path,
			Dirty: doc.Dirty,
		})
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := writeFileAtomic(w.fs, path, data); err != nil {
		return err
	}

	next := w.cloneState()
	next.CurrentSession = path
	if err := w.commit(next); err != nil {
		return err
	}

	w.logger.Debug().
		Str("path", path).
		Str("snapshot_id", snapshot.ID).
		Int("documents", len(snapshot.Documents)).
		Msg("Snapshot written")

	return nil
}

// LoadSnapshot replaces the open documents with those recorded at path and
// makes it the current session. Loaded documents get fresh IDs and start
// clean.
func (w *Workspace) LoadSnapshot(path string) error {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := w.validator.Validate(data); err != nil {
		return err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	now := time.Now().UTC()
	docs := make([]Document, 0, len(snapshot.Documents))
	for _, sd := range snapshot.Documents {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate document id: %w", err)
		}
		docs = append(docs, Document{ID: id, Path: sd.Path, OpenedAt: now})
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cloneState()
	next.Documents = docs
	next.CurrentSession = path
	if err := w.commit(next); err != nil {
		return err
	}

	w.logger.Debug().
		Str("path", path).
		Str("snapshot_id", snapshot.ID).
		Int("documents", len(docs)).
		Msg("Snapshot loaded")

	return nil
}

// cloneState copies the state so a failed save leaves it untouched.
// Callers hold w.mu.
func (w *Workspace) cloneState() State {
	next := w.state
	next.Documents = make([]Document, len(w.state.Documents))
	copy(next.Documents, w.state.Documents)
	return next
}

// commit persists next and makes it the live state. Callers hold w.mu.
func (w *Workspace) commit(next State) error {
	if err := w.store.Save(&next); err != nil {
		return err
	}
	w.state = next
	return nil
}

func (w *Workspace) absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	cwd, err := w.getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, path), nil
}

func indexOf(docs []Document, id string) int {
	for i, doc := range docs {
		if doc.ID == id {
			return i
		}
	}
	return -1
}
