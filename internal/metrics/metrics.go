// Package metrics provides Prometheus metrics for pdfstruct runs
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for a pdfstruct process. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PagesProcessed   prometheus.Counter
	EntriesTotal     *prometheus.CounterVec
	ImagesRejected   *prometheus.CounterVec
	WarningsTotal    *prometheus.CounterVec
	PageDuration     prometheus.Histogram
	DocumentsTotal   *prometheus.CounterVec
	DocumentDuration prometheus.Histogram
}

// NewMetrics creates all metrics on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{registry: registry}

	m.PagesProcessed = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "pdfstruct_pages_processed_total",
			Help: "Total number of PDF pages structured",
		},
	)

	m.EntriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfstruct_entries_total",
			Help: "Total number of content entries emitted",
		},
		[]string{"type"},
	)

	m.ImagesRejected = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfstruct_images_rejected_total",
			Help: "Total number of images dropped by the image filter",
		},
		[]string{"reason"},
	)

	m.WarningsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfstruct_extraction_warnings_total",
			Help: "Total number of recoverable extraction failures",
		},
		[]string{"stage"},
	)

	m.PageDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdfstruct_page_duration_seconds",
			Help:    "Time spent structuring a single page",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.DocumentsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfstruct_documents_total",
			Help: "Total number of structuring runs",
		},
		[]string{"status"},
	)

	m.DocumentDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdfstruct_document_duration_seconds",
			Help:    "Time spent structuring a whole document",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	return m
}

// Registry returns the registry holding the metrics
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordPage counts a processed page and its duration
func (m *Metrics) RecordPage(duration time.Duration) {
	if m == nil {
		return
	}
	m.PagesProcessed.Inc()
	m.PageDuration.Observe(duration.Seconds())
}

// RecordEntry counts one emitted content entry
func (m *Metrics) RecordEntry(kind string) {
	if m == nil {
		return
	}
	m.EntriesTotal.WithLabelValues(kind).Inc()
}

// RecordImagesRejected counts filtered images
func (m *Metrics) RecordImagesRejected(reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ImagesRejected.WithLabelValues(reason).Add(float64(count))
}

// RecordWarning counts a recoverable failure
func (m *Metrics) RecordWarning(stage string) {
	if m == nil {
		return
	}
	m.WarningsTotal.WithLabelValues(stage).Inc()
}

// RecordDocument counts a finished run
func (m *Metrics) RecordDocument(duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DocumentsTotal.WithLabelValues(status).Inc()
	m.DocumentDuration.Observe(duration.Seconds())
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
