package session

import (
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Kind is the namespace a session record came from
type Kind int

const (
	KindGlobal Kind = iota
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Record is one discovered session file
type Record struct {
	Name       string    `json:"name"`        // Base name including extension, unique in the registry
	Path       string    `json:"path"`        // Absolute path on disk
	Kind       Kind      `json:"kind"`        // Namespace that produced the record
	ModifiedAt time.Time `json:"modified_at"` // File modification time, used for ordering only
}

// newRecord builds a record for a file whose namespace is known
func newRecord(path string, kind Kind, modifiedAt time.Time) Record {
	return Record{
		Name:       filepath.Base(path),
		Path:       path,
		Kind:       kind,
		ModifiedAt: modifiedAt,
	}
}

// inferKind decides the namespace of a record built outside detection by
// comparing its directory with the global directory.
func inferKind(path string, cfg Config) Kind {
	if cfg.Directory != "" && filepath.Clean(filepath.Dir(path)) == filepath.Clean(cfg.Directory) {
		return KindGlobal
	}
	return KindLocal
}

// readableFile stats path and reports whether it is a regular file that can
// be opened for reading.
func readableFile(fs afero.Fs, path string) (afero.File, bool) {
	info, err := fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, false
	}
	return f, true
}

// isReadableRegularFile reports whether path is a readable regular file
func isReadableRegularFile(fs afero.Fs, path string) bool {
	f, ok := readableFile(fs, path)
	if ok {
		f.Close()
	}
	return ok
}

// statRecord builds a record from the file currently at path
func statRecord(fs afero.Fs, path string, kind Kind) (Record, bool) {
	if !isReadableRegularFile(fs, path) {
		return Record{}, false
	}

	info, err := fs.Stat(path)
	if err != nil {
		return Record{}, false
	}
	return newRecord(path, kind, info.ModTime()), true
}
