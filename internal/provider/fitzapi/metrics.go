package fitzapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "fitz_client",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of backend API calls by operation and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "status"},
)

func observeRequest(op, status string, d time.Duration) {
	requestDuration.WithLabelValues(op, status).Observe(d.Seconds())
}
