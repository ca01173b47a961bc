package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KonishchevDmitry/whales/internal/metrics"
)

var invocationsMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "engine",
	Name:      "invocations_total",
	Help:      "Engine CLI invocations.",
}, []string{"subcommand", "status"})

var invocationDurationMetric = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: metrics.Namespace,
	Subsystem: "engine",
	Name:      "invocation_duration_seconds",
	Help:      "Engine CLI invocation duration.",
	Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
}, []string{"subcommand"})

func init() {
	prometheus.MustRegister(invocationsMetric, invocationDurationMetric)
}

func observeInvocation(subcommand string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}

	invocationsMetric.WithLabelValues(subcommand, status).Inc()
	invocationDurationMetric.WithLabelValues(subcommand).Observe(duration.Seconds())
}
