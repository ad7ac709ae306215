package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics are global counters/histograms/gauges, registered once at
// process start. No per-request labels carry unbounded cardinality
// (request IDs, raw data values): only algorithm name and tier, both
// drawn from the closed registry/dispatcher vocabularies.
var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_requests_total",
		Help: "Total analysis requests, by algorithm, tier, and outcome.",
	}, []string{"algorithm", "tier", "outcome"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_request_duration_seconds",
		Help:    "Request latency from admission to response, by algorithm and tier.",
		Buckets: prometheus.DefBuckets,
	}, []string{"algorithm", "tier"})

	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_tier_fallbacks_total",
		Help: "Total requests that fell back from one tier to another.",
	}, []string{"algorithm"})

	AdmissionRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_admission_rejected_total",
		Help: "Total requests refused by the concurrency admission gate.",
	})

	InFlightRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "analytics_in_flight_requests",
		Help: "Number of requests currently admitted and executing.",
	})

	BatchElementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_batch_elements_total",
		Help: "Total elements processed through BatchAnalyze, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		FallbacksTotal,
		AdmissionRejectedTotal,
		InFlightRequests,
		BatchElementsTotal,
	)
}
