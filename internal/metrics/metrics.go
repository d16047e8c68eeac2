package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TrendRequestsTotal counts processed trend requests by source and outcome
var TrendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trend_requests_total",
	Help: "Number of trend requests processed, labelled by source and outcome.",
}, []string{"source", "outcome"})

// TrendRequestDuration observes the end-to-end latency of trend requests
var TrendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "trend_request_duration_seconds",
	Help:    "End-to-end trend request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"source"})

// SourceFailuresTotal counts fetch failures per upstream source
var SourceFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "source_failures_total",
	Help: "Number of upstream source fetch failures, labelled by source.",
}, []string{"source"})
