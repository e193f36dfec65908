package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// WatcherConfig holds configuration for the session file watcher
type WatcherConfig struct {
	Dirs               []string      // Every file directly inside these directories is reported
	Files              []string      // Only these exact paths are reported
	StabilityThreshold time.Duration // Quiet period before an event is delivered (default: 100ms)
}

// Watcher reports changes to session files on a channel. Bursts of events
// for the same path are collapsed into one.
type Watcher struct {
	watcher            *fsnotify.Watcher
	dirs               map[string]bool
	files              map[string]bool
	stabilityThreshold time.Duration
	events             chan string
	done               chan struct{}
	debounceTimers     map[string]*time.Timer
	debounceMu         sync.Mutex
	stopOnce           sync.Once
}

// NewWatcher creates a watcher for the configured paths
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if config.StabilityThreshold == 0 {
		config.StabilityThreshold = 100 * time.Millisecond
	}

	w := &Watcher{
		watcher:            watcher,
		dirs:               make(map[string]bool),
		files:              make(map[string]bool),
		stabilityThreshold: config.StabilityThreshold,
		events:             make(chan string, 16),
		done:               make(chan struct{}),
		debounceTimers:     make(map[string]*time.Timer),
	}
	for _, dir := range config.Dirs {
		if dir != "" {
			w.dirs[filepath.Clean(dir)] = true
		}
	}
	for _, file := range config.Files {
		if file != "" {
			w.files[filepath.Clean(file)] = true
		}
	}

	return w, nil
}

// Events delivers the paths of changed session files
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Start begins watching. Directories that cannot be watched are skipped with
// a warning.
func (w *Watcher) Start() error {
	watched := 0
	for dir := range w.watchRoots() {
		if err := w.watcher.Add(dir); err != nil {
			log.Warn().
				Err(err).
				Str("path", dir).
				Msg("Failed to watch path")
			continue
		}
		watched++
	}

	if watched == 0 && len(w.dirs)+len(w.files) > 0 {
		return fmt.Errorf("no session location could be watched")
	}

	go w.eventLoop()

	log.Info().
		Int("paths", watched).
		Msg("Session watcher started")

	return nil
}

// Stop stops the watcher and cancels pending events
func (w *Watcher) Stop() error {
	var closeErr error
	w.stopOnce.Do(func() {
		close(w.done)

		w.debounceMu.Lock()
		for _, timer := range w.debounceTimers {
			timer.Stop()
		}
		clear(w.debounceTimers)
		w.debounceMu.Unlock()

		if err := w.watcher.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}

		log.Info().Msg("Session watcher stopped")
	})
	return closeErr
}

// watchRoots returns every directory handed to fsnotify
func (w *Watcher) watchRoots() map[string]bool {
	roots := make(map[string]bool, len(w.dirs)+len(w.files))
	for dir := range w.dirs {
		roots[dir] = true
	}
	for file := range w.files {
		roots[filepath.Dir(file)] = true
	}
	return roots
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.debounceEvent(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")

		case <-w.done:
			return
		}
	}
}

// relevant reports whether an event touches a session file
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	path := filepath.Clean(event.Name)
	if strings.HasSuffix(path, ".tmp") {
		return false
	}
	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)]
}

func (w *Watcher) debounceEvent(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}

	w.debounceTimers[path] = time.AfterFunc(w.stabilityThreshold, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		select {
		case <-w.done:
		case w.events <- path:
		default:
			// Queue full; a rescan is already pending.
			log.Debug().Str("path", path).Msg("Watcher event dropped")
		}
	})
}
