package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KonishchevDmitry/whales/internal/metrics"
)

const driverLabel = "driver"
const scopeLabel = "scope"

var volumesMetric = prometheus.NewDesc(
	metrics.BuildName("", "volumes"), "Number of volumes.",
	[]string{driverLabel, scopeLabel}, nil)

var networksMetric = prometheus.NewDesc(
	metrics.BuildName("", "networks"), "Number of networks.",
	[]string{driverLabel, scopeLabel, "internal"}, nil)

var networkContainersMetric = prometheus.NewDesc(
	metrics.BuildName("", "network_containers"), "Number of containers connected to the network.",
	[]string{"network"}, nil)

var engineInfoMetric = prometheus.NewDesc(
	metrics.BuildName("engine", "info"), "Engine version information.",
	[]string{"client", "server"}, nil)
