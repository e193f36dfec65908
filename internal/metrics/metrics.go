package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/harun/sesh/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for sesh. It implements
// session.Observer.
type Metrics struct {
	registry *prometheus.Registry

	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Registry metrics
	Sessions          *prometheus.GaugeVec
	ScanWarningsTotal prometheus.Counter
}

var _ session.Observer = (*Metrics)(nil)

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sesh_operations_total",
				Help: "Total number of session operations by action and result",
			},
			[]string{"action", "result"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sesh_operation_duration_seconds",
				Help:    "Duration of session operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),

		Sessions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sesh_sessions",
				Help: "Number of known sessions by kind",
			},
			[]string{"kind"},
		),
		ScanWarningsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sesh_scan_warnings_total",
				Help: "Total number of warnings raised while detecting sessions",
			},
		),
	}

	m.registry.MustRegister(
		m.OperationsTotal,
		m.OperationDuration,
		m.Sessions,
		m.ScanWarningsTotal,
	)

	// Both kinds are always exported, even at zero.
	m.Sessions.WithLabelValues(session.KindGlobal.String()).Set(0)
	m.Sessions.WithLabelValues(session.KindLocal.String()).Set(0)

	return m
}

// ObserveOperation records the outcome of a read, write or delete
func (m *Metrics) ObserveOperation(action session.Action, err error, elapsed time.Duration) {
	m.OperationsTotal.WithLabelValues(string(action), Result(err)).Inc()
	m.OperationDuration.WithLabelValues(string(action)).Observe(elapsed.Seconds())
}

// ObserveRecords sets the per-kind session gauges
func (m *Metrics) ObserveRecords(records []session.Record) {
	counts := map[session.Kind]int{
		session.KindGlobal: 0,
		session.KindLocal:  0,
	}
	for _, rec := range records {
		counts[rec.Kind]++
	}
	for kind, n := range counts {
		m.Sessions.WithLabelValues(kind.String()).Set(float64(n))
	}
}

// ObserveScanWarnings counts detection warnings
func (m *Metrics) ObserveScanWarnings(count int) {
	m.ScanWarningsTotal.Add(float64(count))
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Result maps an operation error onto a low-cardinality label value
func Result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, session.ErrEmptyRegistry), errors.Is(err, session.ErrNoSessions):
		return "no_sessions"
	case errors.Is(err, session.ErrUnknownSession):
		return "unknown_session"
	case errors.Is(err, session.ErrNoActiveSession):
		return "no_active_session"
	case errors.Is(err, session.ErrEmptyName), errors.Is(err, session.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, session.ErrUnsavedChanges):
		return "unsaved_changes"
	case errors.Is(err, session.ErrSessionExists):
		return "session_exists"
	case errors.Is(err, session.ErrCannotDeleteCurrent):
		return "cannot_delete_current"
	case errors.Is(err, session.ErrDeleteFailed):
		return "delete_failed"
	case errors.Is(err, session.ErrConfigInvalid):
		return "config_invalid"
	default:
		return "error"
	}
}
