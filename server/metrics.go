package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the query pipeline.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medflow",
		Name:      "requests_total",
		Help:      "Query requests by terminal outcome.",
	}, []string{"outcome"})

	nodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medflow",
		Name:      "node_duration_seconds",
		Help:      "Wall-clock time spent per pipeline node.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"node"})

	refinementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "medflow",
		Name:      "query_refinements_total",
		Help:      "Query refinements performed across all requests.",
	})

	trialsLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "medflow",
		Name:      "trials_lookup_failures_total",
		Help:      "Degraded clinical-trials lookups.",
	})
)

// Terminal outcome labels.
const (
	outcomeAnswered  = "answered"
	outcomeOffDomain = "off_domain"
	outcomeNoAnswer  = "no_answer"
	outcomeError     = "error"
)
