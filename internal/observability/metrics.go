package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marine_outlook"

// Metrics holds the Prometheus counters and histograms for fetching,
// extracting and classifying forecasts.
type Metrics struct {
	// Upstream page metrics.
	PagesFetched *prometheus.CounterVec // labels: source={network,cache,stale}
	FetchErrors  prometheus.Counter

	// Report metrics.
	PeriodsExtracted *prometheus.CounterVec // labels: layer
	TiersAssigned    *prometheus.CounterVec // labels: tier
	BuildDuration    prometheus.Histogram

	// Refresher metrics.
	RefreshRuns *prometheus.CounterVec // labels: outcome={success,partial,failed}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.PagesFetched,
		m.FetchErrors,
		m.PeriodsExtracted,
		m.TiersAssigned,
		m.BuildDuration,
		m.RefreshRuns,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      help("Forecast pages served, by where they came from."),
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      help("Upstream fetches that failed."),
		}),
		PeriodsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "periods_extracted_total",
			Help:      help("Forecast periods extracted, by extraction layer."),
		}, []string{"layer"}),
		TiersAssigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiers_assigned_total",
			Help:      help("Forecast periods classified, by tier."),
		}, []string{"tier"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_build_duration_seconds",
			Help:      help("Time to extract and classify one forecast page."),
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_runs_total",
			Help:      help("Scheduled cache refresh runs, by outcome."),
		}, []string{"outcome"}),
	}
}
