package metrics

import "github.com/prometheus/client_golang/prometheus"

// Result pipeline Prometheus metrics.
var (
	HandoffTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handoff_total",
			Help:      "Result handoff loads by outcome",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	NormalizedRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "normalized_records",
			Help:      "Records produced per normalization run",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	CreditsConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_consumed_total",
			Help:      "Total search credits consumed",
		},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limiter",
		},
		[]string{"backend"},
	)

	TrackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_events_total",
			Help:      "Search event notifications by outcome",
		},
		[]string{"status"}, // "sent" / "failed" / "dropped"
	)
)

var resultMetricsRegistered bool

// RegisterResultMetrics registers Prometheus result pipeline metrics. Must be called once from main.
func RegisterResultMetrics() {
	if resultMetricsRegistered {
		return
	}
	prometheus.MustRegister(HandoffTotal)
	prometheus.MustRegister(NormalizedRecords)
	prometheus.MustRegister(CreditsConsumedTotal)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(TrackEventsTotal)
	resultMetricsRegistered = true
}
