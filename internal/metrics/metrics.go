package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Belay
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	MemberListResults      prometheus.Histogram
	DashboardBuildDuration *prometheus.HistogramVec
	OutboundTasksTotal     *prometheus.CounterVec
	PercentageFailures     *prometheus.CounterVec
	SubscriptionDenials    *prometheus.CounterVec
	JobDuration            *prometheus.HistogramVec
}

// NewMetricsRegistry registers all metrics on the default Prometheus registerer
func NewMetricsRegistry() *MetricsRegistry {
	return NewMetricsRegistryWith(prometheus.DefaultRegisterer)
}

// NewMetricsRegistryWith registers all metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewMetricsRegistryWith(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belay_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "belay_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "belay_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belay_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belay_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		MemberListResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "belay_member_list_results",
				Help:    "Number of members returned by the member list pipeline",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		DashboardBuildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "belay_dashboard_build_seconds",
				Help:    "Time spent building dashboard payloads",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"section"},
		),
		OutboundTasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belay_outbound_tasks_total",
				Help: "Outbound notification tasks by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		PercentageFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belay_percentage_failures_total",
				Help: "Profile completion recalculations that failed, by part",
			},
			[]string{"part"},
		),
		SubscriptionDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "belay_subscription_denials_total",
				Help: "Requests denied by the subscription gate, by capability",
			},
			[]string{"capability"},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "belay_job_duration_seconds",
				Help:    "Scheduled job execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"job_name"},
		),
	}
}
