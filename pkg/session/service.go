package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ServiceOptions wires a Service to its host
type ServiceOptions struct {
	Config    Config
	Registry  *Registry              // Optional: defaults to an empty registry
	Fs        afero.Fs               // Optional: defaults to the OS filesystem
	Getwd     func() (string, error) // Optional: defaults to os.Getwd
	Snapshots Snapshotter
	Documents Documents
	Current   CurrentSession
	Reporter  Reporter        // Optional
	Observer  Observer        // Optional
	Logger    *zerolog.Logger // Optional: defaults to the global logger
}

// Service implements detect, read, write and delete on top of a Registry.
// Calls must not run concurrently.
type Service struct {
	cfg       Config
	registry  *Registry
	resolver  *Resolver
	fs        afero.Fs
	getwd     func() (string, error)
	snapshots Snapshotter
	documents Documents
	current   CurrentSession
	reporter  Reporter
	observer  Observer
	logger    zerolog.Logger
}

// NewService validates the configuration and builds a Service
func NewService(opts ServiceOptions) (*Service, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Snapshots == nil {
		return nil, fmt.Errorf("snapshotter is required")
	}
	if opts.Documents == nil {
		return nil, fmt.Errorf("documents provider is required")
	}
	if opts.Current == nil {
		return nil, fmt.Errorf("current session tracker is required")
	}

	svc := &Service{
		cfg:       opts.Config,
		registry:  opts.Registry,
		resolver:  NewResolver(opts.Config),
		fs:        opts.Fs,
		getwd:     opts.Getwd,
		snapshots: opts.Snapshots,
		documents: opts.Documents,
		current:   opts.Current,
		reporter:  opts.Reporter,
		observer:  opts.Observer,
	}
	if svc.registry == nil {
		svc.registry = NewRegistry()
	}
	if svc.fs == nil {
		svc.fs = afero.NewOsFs()
	}
	if svc.getwd == nil {
		svc.getwd = os.Getwd
	}
	if svc.reporter == nil {
		svc.reporter = nopReporter{}
	}
	if svc.observer == nil {
		svc.observer = nopObserver{}
	}
	if opts.Logger != nil {
		svc.logger = opts.Logger.With().Str("component", "session").Logger()
	} else {
		svc.logger = log.Logger.With().Str("component", "session").Logger()
	}

	return svc, nil
}

// Config returns the validated configuration
func (s *Service) Config() Config {
	return s.cfg
}

// Registry returns the registry owned by the service
func (s *Service) Registry() *Registry {
	return s.registry
}

// Records returns the known sessions in registry order
func (s *Service) Records() []Record {
	return s.registry.Records()
}

// Latest returns the name of the most recently modified session
func (s *Service) Latest() (string, bool) {
	return s.registry.Latest()
}

// Detect rescans both namespaces and replaces the registry. It never fails;
// warnings are logged, reported and returned.
func (s *Service) Detect() []*ScanWarning {
	cwd, err := s.getwd()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to get working directory")
		cwd = ""
	}

	warnings := s.registry.Detect(s.fs, cwd, s.cfg)
	for _, w := range warnings {
		s.logger.Warn().Str("path", w.Path).Msg(w.Reason)
		s.reporter.Report("Warning: " + w.Error())
	}

	s.observer.ObserveScanWarnings(len(warnings))
	s.observer.ObserveRecords(s.registry.Records())

	s.logger.Debug().
		Int("sessions", s.registry.Len()).
		Int("warnings", len(warnings)).
		Msg("Sessions detected")

	return warnings
}

// Read loads a session after discarding the open documents. Without a name
// it reads the local session if present, otherwise the latest one.
func (s *Service) Read(target Target, opts Options) (err error) {
	defer s.finish(ActionRead, opts, time.Now(), &err)

	if s.registry.Len() == 0 {
		return ErrEmptyRegistry
	}

	name, ok := target.Name()
	if !ok {
		name, ok = s.registry.DefaultReadTarget(s.cfg)
		if !ok {
			return ErrNoSessions
		}
	}

	rec, ok := s.registry.Get(name)
	if !ok {
		return &UnknownSessionError{Name: name}
	}

	if !opts.Force {
		dirty, err := s.dirtyDocuments()
		if err != nil {
			return err
		}
		if len(dirty) > 0 {
			return &UnsavedChangesError{IDs: dirty}
		}
	}

	if err := s.documents.DiscardAll(); err != nil {
		return fmt.Errorf("failed to discard open documents: %w", err)
	}

	if err := s.snapshots.LoadSnapshot(rec.Path); err != nil {
		return fmt.Errorf("failed to load session %s: %w", rec.Name, err)
	}

	s.logger.Info().
		Str("session", rec.Name).
		Str("path", rec.Path).
		Str("kind", rec.Kind.String()).
		Msg("Session read")

	if opts.Verbose {
		s.reporter.Report("Read session: " + rec.Path)
	}

	return nil
}

// Write saves the editor state to a session file and records it. Without a
// name it writes to the current session.
func (s *Service) Write(target Target, opts Options) (err error) {
	defer s.finish(ActionWrite, opts, time.Now(), &err)

	if name, ok := target.Name(); ok && name == "" {
		return ErrEmptyName
	}

	cwd, err := s.getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	path, err := s.resolver.Resolve(target, s.current.CurrentSessionPath(), cwd)
	if err != nil {
		return err
	}

	if !opts.Force && isReadableRegularFile(s.fs, path) {
		return &SessionExistsError{Path: path}
	}

	if err := s.snapshots.WriteSnapshot(path, opts.Force); err != nil {
		return fmt.Errorf("failed to write session %s: %w", filepath.Base(path), err)
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat written session: %w", err)
	}

	rec := newRecord(path, inferKind(path, s.cfg), info.ModTime())
	s.registry.Put(rec)
	s.observer.ObserveRecords(s.registry.Records())

	s.logger.Info().
		Str("session", rec.Name).
		Str("path", rec.Path).
		Str("kind", rec.Kind.String()).
		Msg("Session written")

	if opts.Verbose {
		s.reporter.Report("Wrote session: " + rec.Path)
	}

	return nil
}

// Delete removes a session file and its registry entry. Without a name it
// deletes the current session, which requires force. If clearing the current
// session reference fails, the file and the registry entry are already gone
// and the returned error says so.
func (s *Service) Delete(target Target, opts Options) (err error) {
	defer s.finish(ActionDelete, opts, time.Now(), &err)

	if s.registry.Len() == 0 {
		return ErrEmptyRegistry
	}

	cwd, err := s.getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	currentPath := s.current.CurrentSessionPath()
	resolved, err := s.resolver.Resolve(target, currentPath, cwd)
	if err != nil {
		return err
	}

	// The registry path is what detection saw on disk; the resolved path only
	// names the record.
	name := filepath.Base(resolved)
	rec, ok := s.registry.Get(name)
	if !ok {
		return &UnknownSessionError{Name: name}
	}

	isCurrent := currentPath != "" && absolute(currentPath, cwd) == filepath.Clean(rec.Path)
	if isCurrent && !opts.Force {
		return &CannotDeleteCurrentError{Path: rec.Path}
	}

	if err := s.fs.Remove(rec.Path); err != nil {
		return &DeleteFailedError{Path: rec.Path, Err: err}
	}

	s.registry.Remove(name)
	s.observer.ObserveRecords(s.registry.Records())

	if isCurrent {
		if err := s.current.SetCurrentSessionPath(""); err != nil {
			return fmt.Errorf("session %s deleted but failed to clear current session: %w", rec.Name, err)
		}
	}

	s.logger.Info().
		Str("session", rec.Name).
		Str("path", rec.Path).
		Bool("was_current", isCurrent).
		Msg("Session deleted")

	if opts.Verbose {
		s.reporter.Report("Deleted session: " + rec.Path)
	}

	return nil
}

// dirtyDocuments returns the IDs of every open document with unsaved changes
func (s *Service) dirtyDocuments() ([]string, error) {
	docs, err := s.documents.ListOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to list open documents: %w", err)
	}

	var dirty []string
	for _, doc := range docs {
		if doc.Dirty {
			dirty = append(dirty, doc.ID)
		}
	}
	return dirty, nil
}

// finish records the outcome of an action and reports failures when verbose
func (s *Service) finish(action Action, opts Options, start time.Time, errp *error) {
	err := *errp
	s.observer.ObserveOperation(action, err, time.Since(start))

	if err == nil {
		return
	}

	s.logger.Debug().
		Str("action", string(action)).
		Err(err).
		Msg("Session action failed")

	if opts.Verbose {
		s.reporter.Report("Error: " + err.Error())
	}
}
