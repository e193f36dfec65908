package session

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Registry is the in-memory catalog of known sessions, keyed by name.
// Iteration follows insertion order; replacing a record keeps its position.
// A Registry is not safe for concurrent use.
type Registry struct {
	records map[string]Record
	order   []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]Record),
	}
}

// Detect scans both namespaces and replaces the registry contents with what
// was found. Problems with a namespace degrade it to empty and are returned as
// warnings.
func (r *Registry) Detect(fs afero.Fs, cwd string, cfg Config) []*ScanWarning {
	var warnings []*ScanWarning

	global, warning := scanGlobal(fs, cfg)
	if warning != nil {
		warnings = append(warnings, warning)
	}

	local, warning := scanLocal(fs, cwd, cfg)
	if warning != nil {
		warnings = append(warnings, warning)
	}

	next := NewRegistry()
	for _, rec := range global {
		next.Put(rec)
	}
	for _, rec := range local {
		next.Put(rec)
	}

	r.records = next.records
	r.order = next.order

	return warnings
}

// scanGlobal lists the readable regular files directly inside the global directory
func scanGlobal(fs afero.Fs, cfg Config) ([]Record, *ScanWarning) {
	if cfg.Directory == "" {
		return nil, nil
	}

	isDir, err := afero.IsDir(fs, cfg.Directory)
	if err != nil || !isDir {
		return nil, &ScanWarning{Path: cfg.Directory, Reason: "session directory is not a directory"}
	}

	entries, err := afero.ReadDir(fs, cfg.Directory)
	if err != nil {
		return nil, &ScanWarning{Path: cfg.Directory, Reason: "failed to list session directory: " + err.Error()}
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(cfg.Directory, entry.Name())
		if rec, ok := statRecord(fs, path, KindGlobal); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// scanLocal looks for the local session file in the working directory
func scanLocal(fs afero.Fs, cwd string, cfg Config) ([]Record, *ScanWarning) {
	if cfg.LocalFileName == "" {
		return nil, nil
	}
	if cwd == "" {
		return nil, &ScanWarning{Path: cfg.LocalFileName, Reason: "working directory is unknown"}
	}

	rec, ok := statRecord(fs, filepath.Join(cwd, cfg.LocalFileName), KindLocal)
	if !ok {
		return nil, nil
	}
	return []Record{rec}, nil
}

// Latest returns the name of the most recently modified session. On equal
// modification times the record seen first wins.
func (r *Registry) Latest() (string, bool) {
	var latest *Record
	for _, name := range r.order {
		rec := r.records[name]
		if latest == nil || rec.ModifiedAt.After(latest.ModifiedAt) {
			latest = &rec
		}
	}
	if latest == nil {
		return "", false
	}
	return latest.Name, true
}

// DefaultReadTarget prefers the local session and falls back to the latest one
func (r *Registry) DefaultReadTarget(cfg Config) (string, bool) {
	if cfg.LocalFileName != "" && r.Contains(cfg.LocalFileName) {
		return cfg.LocalFileName, true
	}
	return r.Latest()
}

// Contains reports whether a session with the given name is known
func (r *Registry) Contains(name string) bool {
	_, ok := r.records[name]
	return ok
}

// Get returns the record for name
func (r *Registry) Get(name string) (Record, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

// Put adds or replaces a record
func (r *Registry) Put(rec Record) {
	if _, exists := r.records[rec.Name]; !exists {
		r.order = append(r.order, rec.Name)
	}
	r.records[rec.Name] = rec
}

// Remove deletes the record for name
func (r *Registry) Remove(name string) bool {
	if _, ok := r.records[name]; !ok {
		return false
	}
	delete(r.records, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of known sessions
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns the known sessions in registry order
func (r *Registry) Records() []Record {
	result := make([]Record, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.records[name])
	}
	return result
}
