// Package metrics tracks per-run counters for futsal-watch using Prometheus collectors.
//
// A run is a short-lived process, so metrics are not served over HTTP. Instead the
// registry can be written to a file in the text exposition format, suitable for the
// node_exporter textfile collector. All methods are safe on a nil *Metrics, which lets
// callers that don't care about metrics pass nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "futsal_watch"

// Metrics holds the collectors updated during a run
type Metrics struct {
	registry *prometheus.Registry

	pagesFetched  *prometheus.CounterVec
	cardsSeen     *prometheus.CounterVec
	eventsFound   prometheus.Counter
	notifications *prometheus.CounterVec
	ledgerEntries prometheus.Gauge
	runDuration   prometheus.Gauge
	lastRun       prometheus.Gauge
}

// New creates a Metrics value with its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Listing pages fetched, by result",
		}, []string{"result"}),
		cardsSeen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_total",
			Help:      "Event cards evaluated, by decision",
		}, []string{"decision"}),
		eventsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_found_total",
			Help:      "Distinct qualifying events found in a run",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts, by result",
		}, []string{"result"}),
		ledgerEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_entries",
			Help:      "Identifiers recorded in the notification ledger",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}

	m.registry.MustRegister(
		m.pagesFetched,
		m.cardsSeen,
		m.eventsFound,
		m.notifications,
		m.ledgerEntries,
		m.runDuration,
		m.lastRun,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// PageFetched counts a page fetch with result "ok" or "error"
func (m *Metrics) PageFetched(ok bool) {
	if m == nil {
		return
	}
	m.pagesFetched.WithLabelValues(result(ok)).Inc()
}

// CardEvaluated counts a card with decision "accepted", "rejected" or "malformed"
func (m *Metrics) CardEvaluated(decision string) {
	if m == nil {
		return
	}
	m.cardsSeen.WithLabelValues(decision).Inc()
}

// EventFound counts a distinct qualifying event
func (m *Metrics) EventFound() {
	if m == nil {
		return
	}
	m.eventsFound.Inc()
}

// NotificationSent counts a delivery attempt with result "ok" or "error"
func (m *Metrics) NotificationSent(ok bool) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result(ok)).Inc()
}

// SetLedgerEntries records the ledger size
func (m *Metrics) SetLedgerEntries(n int) {
	if m == nil {
		return
	}
	m.ledgerEntries.Set(float64(n))
}

// RunFinished records the duration and completion time of a run
func (m *Metrics) RunFinished(started time.Time) {
	if m == nil {
		return
	}
	now := time.Now()
	m.runDuration.Set(now.Sub(started).Seconds())
	m.lastRun.Set(float64(now.Unix()))
}

// WriteTextfile writes the registry to path in the Prometheus text format.
// The file is written atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
