package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Store persists workspace state as a JSON file
type Store struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the file at path
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{
		fs:   fs,
		path: path,
	}
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields an empty state.
func (s *Store) Load() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", s.path).Msg("Workspace state does not exist, starting fresh")
		return &State{Documents: []Document{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse workspace state: %w", err)
	}
	if state.Documents == nil {
		state.Documents = []Document{}
	}

	return &state, nil
}

// Save writes the state atomically
func (s *Store) Save(state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace state: %w", err)
	}

	if err := writeFileAtomic(s.fs, s.path, data); err != nil {
		return err
	}

	log.Debug().
		Str("path", s.path).
		Int("documents", len(state.Documents)).
		Msg("Workspace state saved")

	return nil
}

// writeFileAtomic writes to a temporary sibling and renames it into place
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := afero.WriteFile(fs, tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := fs.Rename(tempPath, path); err != nil {
		_ = fs.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
