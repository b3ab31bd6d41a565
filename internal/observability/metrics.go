package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion and alerting pipeline.
type Metrics struct {
	ReadingsStored   prometheus.Counter
	FetchErrors      prometheus.Counter
	RegionsProcessed prometheus.Counter
	SchedulerRunning prometheus.Gauge

	// Alerting metrics.
	AlertsCreated       *prometheus.CounterVec // labels: level={high,very_high,extreme}
	AlertsDeduplicated  prometheus.Counter
	PersonalizedSent    prometheus.Counter
	PersonalizedSkipped prometheus.Counter

	// Sweeper metrics.
	ReadingsPruned prometheus.Counter
	AlertsExpired  prometheus.Counter

	// Latency metrics.
	FetchDuration       prometheus.Histogram
	IngestCycleDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReadingsStored,
		m.FetchErrors,
		m.RegionsProcessed,
		m.SchedulerRunning,
		m.AlertsCreated,
		m.AlertsDeduplicated,
		m.PersonalizedSent,
		m.PersonalizedSkipped,
		m.ReadingsPruned,
		m.AlertsExpired,
		m.FetchDuration,
		m.IngestCycleDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReadingsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "readings_stored_total",
			Help:      "Total weather readings persisted.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "fetch_errors_total",
			Help:      "Total per-region weather fetch failures.",
		}),
		RegionsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "regions_processed_total",
			Help:      "Total per-region ingest units executed.",
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "karangue",
			Name:      "scheduler_running",
			Help:      "1 when the job scheduler is active, 0 when shut down.",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "regional_alerts_created_total",
			Help:      "Regional alerts created, by alert level.",
		}, []string{"level"}),
		AlertsDeduplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "regional_alerts_deduplicated_total",
			Help:      "Threshold crossings suppressed by an existing active alert.",
		}),
		PersonalizedSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "personalized_alerts_created_total",
			Help:      "Personalized alerts materialized during fan-out.",
		}),
		PersonalizedSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "personalized_alerts_skipped_total",
			Help:      "Fan-out targets skipped because no template matched.",
		}),
		ReadingsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "readings_pruned_total",
			Help:      "Readings removed by the retention sweeper.",
		}),
		AlertsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "karangue",
			Name:      "alerts_expired_total",
			Help:      "Regional alerts deactivated by the expiry sweeper.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "karangue",
			Name:      "weather_fetch_duration_seconds",
			Help:      "Duration of one Open-Meteo request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		IngestCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "karangue",
			Name:      "ingest_cycle_duration_seconds",
			Help:      "Duration of a complete all-regions ingest cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}
