package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HistoryOps counts repository operations by operation name and outcome.
var HistoryOps = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "audioscribe",
		Subsystem: "history",
		Name:      "operations_total",
		Help:      "History repository operations by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// ProviderRequests counts outbound calls to the transcription provider.
var ProviderRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "audioscribe",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Requests forwarded to the transcription provider by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// RequestDuration observes HTTP request latency by route and status.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "audioscribe",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "status"},
)

// ObserveHistoryOp records one repository operation outcome.
func ObserveHistoryOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	HistoryOps.WithLabelValues(op, outcome).Inc()
}
