// Package metrics exposes load and report instrumentation in the Prometheus format,
// either over HTTP or as a node-exporter textfile written at the end of a batch run.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yigit/unidwh/internal/app/models"
)

const namespace = "dwh"

// Metrics holds the collectors of one process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	loadsTotal     *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	rowsTotal      *prometheus.CounterVec
	resultFiles    prometheus.Counter
	lastLoadStatus prometheus.Gauge

	reportsTotal   *prometheus.CounterVec
	reportDuration *prometheus.HistogramVec
	reportRows     *prometheus.GaugeVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		loadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total number of load batches by outcome.",
		}, []string{"outcome"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of load batches.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		rowsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Rows handled by committed loads, by table and result (inserted or skipped).",
		}, []string{"table", "result"}),
		resultFiles: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_files_total",
			Help:      "Result documents processed by committed loads.",
		}),
		lastLoadStatus: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_load_success",
			Help:      "Whether the most recent load committed (1/0).",
		}),
		reportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Total number of generated reports by layout and result.",
		}, []string{"layout", "result"}),
		reportDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Latency distribution of report generation.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10, 30,
			},
		}, []string{"layout"}),
		reportRows: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_rows",
			Help:      "Row count of the most recent report by layout.",
		}, []string{"layout"}),
	}
}

// ObserveLoad records a finished load. Row counters only move for committed loads.
func (m *Metrics) ObserveLoad(summary *models.LoadSummary) {
	if m == nil || summary == nil {
		return
	}

	m.loadsTotal.WithLabelValues(string(summary.Outcome)).Inc()
	m.loadDuration.Observe(summary.Duration.Seconds())

	if summary.Outcome != models.LoadCommitted {
		m.lastLoadStatus.Set(0)
		return
	}
	m.lastLoadStatus.Set(1)
	m.resultFiles.Add(float64(summary.ResultFiles))
	for table, c := range summary.Tables {
		m.rowsTotal.WithLabelValues(table, "inserted").Add(float64(c.Inserted))
		m.rowsTotal.WithLabelValues(table, "skipped").Add(float64(c.Skipped))
	}
}

// ObserveReport records one report generation.
func (m *Metrics) ObserveReport(layout string, elapsed time.Duration, rows int, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reportsTotal.WithLabelValues(layout, result).Inc()
	m.reportDuration.WithLabelValues(layout).Observe(elapsed.Seconds())
	if err == nil {
		m.reportRows.WithLabelValues(layout).Set(float64(rows))
	}
}

// Gatherer returns the registry backing these metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values for the node exporter textfile collector.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
