// Package metrics provides Prometheus metrics for the possession rating batch.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a rating run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Reconstruction metrics
	gamesProcessed prometheus.Counter
	gamesFailed    *prometheus.CounterVec
	possessions    prometheus.Counter
	plays          prometheus.Counter
	resyncs        prometheus.Counter
	deferredSubs   prometheus.Counter
	teamInferences *prometheus.CounterVec
	eventsDup      prometheus.Counter
	gameLatency    prometheus.Histogram

	// Pipeline metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec
	workerCount        prometheus.Gauge
	storedRows         prometheus.Gauge
	batchDuration      prometheus.Gauge

	// System metrics
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPause        prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "possession",
		subsystem:        "ratings",
		histogramBuckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: m.constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: m.constLabels,
		})
	}

	m.gamesProcessed = counter("games_processed_total", "Total number of games rated successfully")
	m.gamesFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "games_failed_total",
		Help:        "Total number of games that could not be rated, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})
	m.possessions = counter("possessions_total", "Total number of possessions reconstructed")
	m.plays = counter("plays_total", "Total number of plays walked")
	m.resyncs = counter("possession_resyncs_total", "Made shots whose shooter disagreed with the recorded possession")
	m.deferredSubs = counter("deferred_substitutions_total", "Substitutions held until a free throw sequence ended")
	m.teamInferences = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_inferences_total",
		Help:        "Events whose team was inferred instead of read from the roster, by source",
		ConstLabels: m.constLabels,
	}, []string{"source"})
	m.eventsDup = counter("events_duplicate_total", "Play-by-play rows dropped as duplicates")
	m.gameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "game_processing_milliseconds",
		Help:        "Histogram of time spent rating one game",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.queueSize = gauge("queue_size", "Current number of games waiting in the queue")
	m.queueCapacity = gauge("queue_capacity", "Maximum number of games the queue holds")
	m.queueEnqueueErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queue_enqueue_errors_total",
		Help:        "Games that could not be enqueued, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})
	m.workerCount = gauge("worker_count", "Number of workers rating games")
	m.storedRows = gauge("stored_rows", "Rating rows held by the result store")
	m.batchDuration = gauge("batch_duration_seconds", "Wall time of the last batch")

	m.memoryUsage = gauge("system_memory_bytes", "Heap bytes allocated at the end of the batch")
	m.goroutineCount = gauge("system_goroutines", "Goroutines alive at the end of the batch")
	m.gcPause = gauge("system_gc_pause_milliseconds", "Average GC pause over the batch")
}

// RecordGameProcessed increments the processed games counter.
func RecordGameProcessed() {
	globalManager.gamesProcessed.Inc()
}

// RecordGameFailed increments the failed games counter for reason.
func RecordGameFailed(reason string) {
	globalManager.gamesFailed.WithLabelValues(reason).Inc()
}

// RecordPossessions adds n reconstructed possessions.
func RecordPossessions(n int) {
	globalManager.possessions.Add(float64(n))
}

// RecordPlays adds n walked plays.
func RecordPlays(n int) {
	globalManager.plays.Add(float64(n))
}

// RecordResyncs adds n possession resynchronizations.
func RecordResyncs(n int) {
	globalManager.resyncs.Add(float64(n))
}

// RecordDeferredSubstitutions adds n held substitutions.
func RecordDeferredSubstitutions(n int) {
	globalManager.deferredSubs.Add(float64(n))
}

// RecordTeamInference adds n inferred teams for source.
func RecordTeamInference(source string, n int) {
	globalManager.teamInferences.WithLabelValues(source).Add(float64(n))
}

// RecordEventsDuplicate adds n dropped duplicate rows.
func RecordEventsDuplicate(n int) {
	globalManager.eventsDup.Add(float64(n))
}

// RecordGameLatency records how long one game took, in milliseconds.
func RecordGameLatency(latencyMs float64) {
	globalManager.gameLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError increments the enqueue error counter for reason.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateStoredRows sets the number of rows in the result store.
func UpdateStoredRows(count int) {
	globalManager.storedRows.Set(float64(count))
}

// RecordBatchDuration sets the wall time of the last batch.
func RecordBatchDuration(seconds float64) {
	globalManager.batchDuration.Set(seconds)
}

// UpdateSystemMemoryUsage sets the allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of live goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime sets the average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.gcPause.Set(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics in the text exposition format, for
// pickup by a node exporter textfile collector after a batch run.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
