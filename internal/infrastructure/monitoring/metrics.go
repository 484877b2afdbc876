package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Filesystem operation metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	UploadFiles       *prometheus.CounterVec
	DeleteRemoved     prometheus.Counter
	ScanEntries       *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	TotalErrors    int64            `json:"total_errors"`
	TotalDuration  float64          `json:"-"` // sum of all request durations
	RequestCount   int64            `json:"-"` // count for averaging
	AvgDurationMs  float64          `json:"avg_duration_ms"`
	Operations     map[string]int64 `json:"operations"`
	FailedOps      map[string]int64 `json:"failed_operations"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	FilesUploaded  int64            `json:"files_uploaded"`
	EntriesRemoved int64            `json:"entries_removed"`
}

// NewMetrics creates a new metrics collector registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),
		snapshot: MetricsSnapshot{
			Operations: make(map[string]int64),
			FailedOps:  make(map[string]int64),
		},

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsview_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsview_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsview_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsview_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Filesystem operation metrics
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsview_operations_total",
				Help: "Total number of filesystem operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsview_operation_duration_seconds",
				Help:    "Filesystem operation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
		UploadFiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsview_upload_files_total",
				Help: "Total number of uploaded files by outcome",
			},
			[]string{"outcome"},
		),
		DeleteRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fsview_delete_entries_removed_total",
				Help: "Total number of filesystem entries removed by delete",
			},
		),
		ScanEntries: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsview_scan_entries",
				Help:    "Number of entries returned per listing",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"op"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "fsview_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOperation records a filesystem operation and its outcome ("ok" or an
// error kind).
func (m *Metrics) RecordOperation(op, outcome string, duration time.Duration) {
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Operations[op]++
	if outcome != "ok" {
		m.snapshot.FailedOps[op]++
	}
	m.mu.Unlock()
}

// RecordUploadFile records one file of an upload batch
func (m *Metrics) RecordUploadFile(outcome string) {
	m.UploadFiles.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.mu.Lock()
		m.snapshot.FilesUploaded++
		m.mu.Unlock()
	}
}

// RecordDeleteRemoved records entries removed by a delete
func (m *Metrics) RecordDeleteRemoved(count int) {
	m.DeleteRemoved.Add(float64(count))
	m.mu.Lock()
	m.snapshot.EntriesRemoved += int64(count)
	m.mu.Unlock()
}

// RecordScanEntries records the size of a listing
func (m *Metrics) RecordScanEntries(op string, count int) {
	m.ScanEntries.WithLabelValues(op).Observe(float64(count))
}

// Snapshot returns a copy of the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	snap.Operations = make(map[string]int64, len(m.snapshot.Operations))
	for k, v := range m.snapshot.Operations {
		snap.Operations[k] = v
	}
	snap.FailedOps = make(map[string]int64, len(m.snapshot.FailedOps))
	for k, v := range m.snapshot.FailedOps {
		snap.FailedOps[k] = v
	}
	if snap.RequestCount > 0 {
		snap.AvgDurationMs = snap.TotalDuration / float64(snap.RequestCount) * 1000
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
