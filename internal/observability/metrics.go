// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Graph metrics
	GraphBuildsTotal   prometheus.Counter
	GraphBuildFailures prometheus.Counter
	AssetsInGraph      prometheus.Gauge
	EdgesInGraph       *prometheus.GaugeVec

	// Analysis metrics
	TargetsAnalyzed   prometheus.Counter
	ModelsAccepted    prometheus.Counter
	TargetsRejected   *prometheus.CounterVec
	UndeterminedTotal prometheus.Counter
	UnstableFitsTotal prometheus.Counter
	AnalysisDuration  prometheus.Histogram

	// Reporting metrics
	ReportsGenerated prometheus.Counter
	FindingsSurfaced *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "asset_graph_lab"
	}

	return &Metrics{
		GraphBuildsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "builds_total",
			Help:      "Total number of successful graph builds",
		}),
		GraphBuildFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "build_failures_total",
			Help:      "Total number of graph builds rejected with integrity violations",
		}),
		AssetsInGraph: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "assets",
			Help:      "Number of assets in the most recently built graph",
		}),
		EdgesInGraph: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "edges",
			Help:      "Number of relationships in the most recently built graph by kind",
		}, []string{"kind"}),

		TargetsAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "targets_analyzed_total",
			Help:      "Total number of targets the formulaic analyzer processed",
		}),
		ModelsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "models_accepted_total",
			Help:      "Total number of formulaic models accepted",
		}),
		TargetsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "targets_rejected_total",
			Help:      "Total number of targets rejected by reason",
		}, []string{"reason"}),
		UndeterminedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "targets_undetermined_total",
			Help:      "Total number of targets with no formulaic model found",
		}),
		UnstableFitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "unstable_fits_total",
			Help:      "Total number of accepted models flagged as ill-conditioned",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of analysis batches in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of schema reports generated",
		}),
		FindingsSurfaced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "findings_total",
			Help:      "Total number of soft integrity findings by code",
		}, []string{"code"}),
	}
}

// Handler returns an HTTP handler serving the default Prometheus registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
