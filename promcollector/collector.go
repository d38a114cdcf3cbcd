// Package promcollector exports catalog metrics to Prometheus.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/colarray"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Collector implements colarray.MetricsCollector with Prometheus metrics.
type Collector struct {
	duration  *prometheus.HistogramVec
	requests  *prometheus.CounterVec
	rows      *prometheus.CounterVec
	savedSize prometheus.Histogram
}

var _ colarray.MetricsCollector = (*Collector)(nil)

// New registers the catalog metrics with reg under namespace. A nil reg
// leaves the metrics unregistered.
func New(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)
	return &Collector{
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Time spent in catalog operations.",
			// Searches read a few blocks, saves may upload large files: 100us to ~26s.
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"operation", "status"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Total number of catalog operations.",
		}, []string{"operation", "status"}),
		rows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_rows_total",
			Help:      "Total number of rows saved or loaded.",
		}, []string{"operation"}),
		savedSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_saved_file_size_bytes",
			Help:      "Size of saved column files.",
			// 1KB to 4GB.
			Buckets: prometheus.ExponentialBuckets(1024, 4, 12),
		}),
	}
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	c.requests.WithLabelValues(op, status).Inc()
	c.duration.WithLabelValues(op, status).Observe(d.Seconds())
}

// RecordSave implements colarray.MetricsCollector.
func (c *Collector) RecordSave(rows int, bytes int64, d time.Duration, err error) {
	c.observe("save", d, err)
	if err != nil {
		return
	}
	c.rows.WithLabelValues("save").Add(float64(rows))
	c.savedSize.Observe(float64(bytes))
}

// RecordLoad implements colarray.MetricsCollector.
func (c *Collector) RecordLoad(rows int, d time.Duration, err error) {
	c.observe("load", d, err)
	if err == nil {
		c.rows.WithLabelValues("load").Add(float64(rows))
	}
}

// RecordSearch implements colarray.MetricsCollector.
func (c *Collector) RecordSearch(d time.Duration, err error) {
	c.observe("search", d, err)
}

// RecordDelete implements colarray.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, err error) {
	c.observe("delete", d, err)
}
