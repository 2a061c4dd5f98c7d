// Package arenastats exposes the tree's diagnostic statistics as Prometheus
// metrics, and instruments the HTTP handlers in pkg/arenaserve with request
// counters/histograms.
package arenastats

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/arenatree/pkg/arenatree"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds every Prometheus collector registered for an arenatree
// server process.
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	treeOperationsTotal   *prometheus.CounterVec
	treeOperationDuration *prometheus.HistogramVec

	treeLen           prometheus.Gauge
	treeHeight        prometheus.Gauge
	leafUtilization   prometheus.Gauge
	branchUtilization prometheus.Gauge
	splitsTotal       prometheus.Gauge
	mergesTotal       prometheus.Gauge
	rebalancesTotal   prometheus.Gauge
}

// NewMetrics constructs and registers every collector against the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arenatree_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arenatree_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arenatree_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
		treeOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arenatree_operations_total",
				Help: "Total number of tree operations",
			},
			[]string{"operation", "status"},
		),
		treeOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arenatree_operation_duration_seconds",
				Help:    "Tree operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		treeLen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arenatree_entries",
			Help: "Number of key/value pairs currently stored",
		}),
		treeHeight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arenatree_height",
			Help: "Number of node levels from root to leaf",
		}),
		leafUtilization: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arenatree_leaf_arena_utilization",
			Help: "Fraction of leaf arena slots currently allocated",
		}),
		branchUtilization: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arenatree_branch_arena_utilization",
			Help: "Fraction of branch arena slots currently allocated",
		}),
		splitsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arenatree_splits_total",
			Help: "Lifetime count of node splits",
		}),
		mergesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arenatree_merges_total",
			Help: "Lifetime count of node merges",
		}),
		rebalancesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arenatree_rebalances_total",
			Help: "Lifetime count of borrow-based rebalances",
		}),
	}
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)
	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTreeOperation records one completed tree operation.
func (m *Metrics) RecordTreeOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.treeOperationsTotal.WithLabelValues(operation, status).Inc()
	m.treeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateTreeStats pushes a fresh diagnostic snapshot into the gauges. Callers
// take it from Tree.Stats()/Tree.Height() under their own synchronization.
func (m *Metrics) UpdateTreeStats(stats arenatree.Stats, height int) {
	m.treeLen.Set(float64(stats.Len))
	m.treeHeight.Set(float64(height))
	m.leafUtilization.Set(stats.Leaves.Utilization)
	m.branchUtilization.Set(stats.Branches.Utilization)
	m.splitsTotal.Set(float64(stats.Splits))
	m.mergesTotal.Set(float64(stats.Merges))
	m.rebalancesTotal.Set(float64(stats.Rebalances))
}

// InstrumentHandler wraps handler so every call records request metrics.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &statusCapturingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

type statusCapturingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusCapturingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
