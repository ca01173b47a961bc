package metrics

import "github.com/prometheus/client_golang/prometheus"

const Namespace = "whales"

var ErrorsMetric = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: Namespace,
	Subsystem: "log",
	Name:      "errors",
	Help:      "Logged warnings and errors.",
})

func init() {
	prometheus.MustRegister(ErrorsMetric)
}

func BuildName(subsystem string, name string) string {
	return prometheus.BuildFQName(Namespace, subsystem, name)
}
