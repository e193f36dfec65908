package session

import "time"

// Snapshotter serializes and restores editor state. The format is opaque to
// this package.
type Snapshotter interface {
	// WriteSnapshot writes the current state to path. overwrite allows the
	// snapshotter to replace an existing file.
	WriteSnapshot(path string, overwrite bool) error

	// LoadSnapshot restores state from path.
	LoadSnapshot(path string) error
}

// Document is an open editor document as seen by the safety checks
type Document struct {
	ID    string
	Dirty bool
}

// Documents exposes the host's open documents
type Documents interface {
	ListOpen() ([]Document, error)
	DiscardAll() error
}

// CurrentSession tracks the session most recently read or written
type CurrentSession interface {
	CurrentSessionPath() string
	SetCurrentSessionPath(path string) error
}

// Reporter receives user-visible notifications
type Reporter interface {
	Report(message string)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(message string)

func (f ReporterFunc) Report(message string) {
	f(message)
}

// Observer receives operation outcomes, typically for metrics
type Observer interface {
	ObserveOperation(action Action, err error, duration time.Duration)
	ObserveRecords(records []Record)
	ObserveScanWarnings(count int)
}

type nopReporter struct{}

func (nopReporter) Report(string) {}

type nopObserver struct{}

func (nopObserver) ObserveOperation(Action, error, time.Duration) {}

func (nopObserver) ObserveRecords([]Record) {}

func (nopObserver) ObserveScanWarnings(int) {}
