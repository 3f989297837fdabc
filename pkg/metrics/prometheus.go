package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for completed runs.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// defaultRunBuckets covers runs from sub-millisecond to tens of seconds.
var defaultRunBuckets = []float64{0.5, 1, 5, 10, 50, 100, 500, 1000, 5000, 30000}

// Manager manages all Prometheus metrics for report runs.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Input volume
	recordsProcessed prometheus.Counter
	sourcesProcessed prometheus.Counter

	// Failures by error kind
	errors *prometheus.CounterVec

	// Output shape
	positions  prometheus.Gauge
	reportRows prometheus.Gauge

	// Run timing
	runDuration *prometheus.HistogramVec
	lastRunUnix prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
// Without WithPrometheusRegistry the manager gets its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "perfreport",
		subsystem:        "run",
		histogramBuckets: defaultRunBuckets,
		enabled:          true,
		constLabels:      make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_processed_total",
		Help:        "Total number of input records folded into aggregates",
		ConstLabels: m.constLabels,
	})

	m.sourcesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sources_processed_total",
		Help:        "Total number of input sources read to completion",
		ConstLabels: m.constLabels,
	})

	m.errors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_total",
			Help:        "Total number of aborted runs by error kind",
			ConstLabels: m.constLabels,
		},
		[]string{"kind"},
	)

	m.positions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "positions",
		Help:        "Number of distinct positions in the last successful run",
		ConstLabels: m.constLabels,
	})

	m.reportRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "report_rows",
		Help:        "Number of rows in the last rendered report",
		ConstLabels: m.constLabels,
	})

	m.runDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "duration_milliseconds",
			Help:        "Run duration in milliseconds by result",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"result"},
	)

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time at which the last run finished",
		ConstLabels: m.constLabels,
	})
}

// RecordRecords adds n processed records.
func (m *Manager) RecordRecords(n int) {
	if m.enabled && n > 0 {
		m.recordsProcessed.Add(float64(n))
	}
}

// RecordSource counts one fully read source.
func (m *Manager) RecordSource() {
	if m.enabled {
		m.sourcesProcessed.Inc()
	}
}

// RecordError counts an aborted run under kind.
func (m *Manager) RecordError(kind string) {
	if m.enabled {
		m.errors.WithLabelValues(kind).Inc()
	}
}

// UpdatePositions sets the distinct position count.
func (m *Manager) UpdatePositions(n int) {
	if m.enabled {
		m.positions.Set(float64(n))
	}
}

// UpdateReportRows sets the number of report rows.
func (m *Manager) UpdateReportRows(n int) {
	if m.enabled {
		m.reportRows.Set(float64(n))
	}
}

// ObserveRun records a run's duration and completion time.
func (m *Manager) ObserveRun(result string, d time.Duration) {
	if !m.enabled {
		return
	}
	m.runDuration.WithLabelValues(result).Observe(float64(d) / float64(time.Millisecond))
	m.lastRunUnix.SetToCurrentTime()
}

// Registry returns the registry the manager's metrics live in.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric of the manager's registry to path in the
// Prometheus text format, suitable for a node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Default returns the global manager.
func Default() *Manager {
	return globalManager
}

// WriteTextfile dumps the global registry to path.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
