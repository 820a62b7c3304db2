package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.MetricsCollector using Prometheus
type Collector struct {
	entriesAccepted prometheus.Counter
	entriesStored   prometheus.Counter
	entriesFailed   prometheus.Counter
	entriesDropped  prometheus.Counter

	queueDepth        prometheus.Gauge
	workerPoolIdle    prometheus.Gauge
	workerPoolBusy    prometheus.Gauge
	workerPoolStopped prometheus.Gauge

	storeDuration *prometheus.HistogramVec
	streamClients prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		entriesAccepted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "logsvc_entries_accepted_total",
				Help: "Total number of entries accepted by the API",
			},
		),
		entriesStored: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "logsvc_entries_stored_total",
				Help: "Total number of entries persisted",
			},
		),
		entriesFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "logsvc_entries_failed_total",
				Help: "Total number of entries dropped after exhausting store retries",
			},
		),
		entriesDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "logsvc_entries_rejected_total",
				Help: "Total number of entries rejected because the ingest queue was full",
			},
		),
		queueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "logsvc_ingest_queue_depth",
				Help: "Current number of entries waiting to be persisted",
			},
		),
		workerPoolIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "logsvc_worker_pool_idle",
				Help: "Number of idle ingest workers",
			},
		),
		workerPoolBusy: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "logsvc_worker_pool_busy",
				Help: "Number of busy ingest workers",
			},
		),
		workerPoolStopped: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "logsvc_worker_pool_stopped",
				Help: "Number of stopped ingest workers",
			},
		),
		storeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "logsvc_store_duration_seconds",
				Help:    "Entry store operation duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"operation"},
		),
		streamClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "logsvc_stream_clients",
				Help: "Number of connected websocket stream clients",
			},
		),
	}
}

// IncEntriesAccepted increments the count of accepted entries
func (c *Collector) IncEntriesAccepted() {
	c.entriesAccepted.Inc()
}

// IncEntriesStored increments the count of persisted entries
func (c *Collector) IncEntriesStored() {
	c.entriesStored.Inc()
}

// IncEntriesFailed increments the count of entries lost to store failures
func (c *Collector) IncEntriesFailed() {
	c.entriesFailed.Inc()
}

// IncEntriesDropped increments the count of entries rejected at the queue
func (c *Collector) IncEntriesDropped() {
	c.entriesDropped.Inc()
}

// SetQueueDepth sets the current ingest queue depth
func (c *Collector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// RecordWorkerPoolStatus records ingest pool worker status
func (c *Collector) RecordWorkerPoolStatus(idle, busy, stopped int) {
	c.workerPoolIdle.Set(float64(idle))
	c.workerPoolBusy.Set(float64(busy))
	c.workerPoolStopped.Set(float64(stopped))
}

// ObserveStoreDuration records the duration of a store operation
func (c *Collector) ObserveStoreDuration(operation string, duration time.Duration) {
	c.storeDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncStreamClients increments the connected stream client gauge
func (c *Collector) IncStreamClients() {
	c.streamClients.Inc()
}

// DecStreamClients decrements the connected stream client gauge
func (c *Collector) DecStreamClients() {
	c.streamClients.Dec()
}
