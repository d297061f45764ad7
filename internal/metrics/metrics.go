package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerOps counts ledger operations by op and outcome (ok, rejected, error).
var LedgerOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "teafactory",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Stock ledger operations processed.",
}, []string{"op", "outcome"})

// HTTPDuration observes request latency per route and status class.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "teafactory",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "path", "status"})
