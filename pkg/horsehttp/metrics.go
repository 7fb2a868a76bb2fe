package horsehttp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "horsehttp_connections_total",
			Help: "Total number of accepted connections",
		},
	)

	connectionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "horsehttp_connections_in_flight",
			Help: "Current number of connections being handled",
		},
	)

	responsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "horsehttp_responses_total",
			Help: "Total number of responses by status code",
		},
		[]string{"status"},
	)

	parseFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "horsehttp_parse_failures_total",
			Help: "Total number of requests rejected as malformed",
		},
	)

	handlerPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "horsehttp_handler_panics_total",
			Help: "Total number of panics recovered at the handler boundary",
		},
	)

	admissionWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "horsehttp_admission_wait_seconds",
			Help:    "Time the accept loop spent waiting for a connection permit",
			Buckets: prometheus.DefBuckets,
		},
	)
)
