// Package exporter exports engine volumes and networks statistics as Prometheus metrics.
package exporter

import (
	"context"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	expirable "github.com/hnlq715/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/KonishchevDmitry/whales/internal/logging"
	"github.com/KonishchevDmitry/whales/internal/network"
	"github.com/KonishchevDmitry/whales/internal/system"
	"github.com/KonishchevDmitry/whales/internal/volume"
	"github.com/KonishchevDmitry/whales/internal/whales"
)

const handleCacheSize = 1024
const versionKey = "version"

// Collector lists engine objects on every scrape. Handles are cached between scrapes, so inspect results are reused
// within the debounce period.
type Collector struct {
	lock   sync.Mutex
	logger *zap.SugaredLogger
	client *whales.Client

	volumes  *lru.Cache[string, *volume.Volume]
	networks *lru.Cache[string, *network.Network]
	versions *expirable.Cache
}

var _ prometheus.Collector = &Collector{}

func NewCollector(logger *zap.SugaredLogger, client *whales.Client, versionInterval time.Duration) *Collector {
	volumes, err := lru.New[string, *volume.Volume](handleCacheSize)
	if err != nil {
		panic(err)
	}

	networks, err := lru.New[string, *network.Network](handleCacheSize)
	if err != nil {
		panic(err)
	}

	versions, err := expirable.NewWithExpire(1, versionInterval)
	if err != nil {
		panic(err)
	}

	return &Collector{
		logger:   logger,
		client:   client,
		volumes:  volumes,
		networks: networks,
		versions: versions,
	}
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- volumesMetric
	descs <- networksMetric
	descs <- networkContainersMetric
	descs <- engineInfoMetric
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	c.lock.Lock()
	defer c.lock.Unlock()

	ctx := logging.WithLogger(context.Background(), c.logger)

	if err := c.collectVolumes(ctx, metrics); err != nil {
		logging.L(ctx).Errorf("Failed to collect volume metrics: %s.", err)
	}

	if err := c.collectNetworks(ctx, metrics); err != nil {
		logging.L(ctx).Errorf("Failed to collect network metrics: %s.", err)
	}

	if err := c.collectVersion(ctx, metrics); err != nil {
		logging.L(ctx).Errorf("Failed to get engine version: %s.", err)
	}
}

// HealthCheck checks that the engine is reachable.
func (c *Collector) HealthCheck(ctx context.Context) error {
	_, err := c.version(ctx)
	return err
}

type volumeKey struct {
	driver string
	scope  string
}

func (c *Collector) collectVolumes(ctx context.Context, metrics chan<- prometheus.Metric) error {
	listed, err := c.client.Volume.List(ctx, volume.ListOptions{})
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, len(listed))
	counts := make(map[volumeKey]int)

	for _, handle := range listed {
		name := handle.Name()
		current[name] = struct{}{}

		if cached, ok := c.volumes.Get(name); ok {
			handle = cached
		} else {
			c.volumes.Add(name, handle)
		}

		result, err := handle.Get(ctx)
		if err != nil {
			// The volume may be deleted after listing
			logging.L(ctx).Warnf("Failed to inspect %q volume: %s.", name, err)
			continue
		}

		counts[volumeKey{driver: result.Driver, scope: result.Scope}]++
	}

	purge(c.volumes, current)

	for key, count := range counts {
		metrics <- prometheus.MustNewConstMetric(
			volumesMetric, prometheus.GaugeValue, float64(count), key.driver, key.scope)
	}

	return nil
}

type networkKey struct {
	driver   string
	scope    string
	internal bool
}

func (c *Collector) collectNetworks(ctx context.Context, metrics chan<- prometheus.Metric) error {
	listed, err := c.client.Network.List(ctx, network.ListOptions{})
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, len(listed))
	counts := make(map[networkKey]int)
	containers := make(map[string]int)

	for _, handle := range listed {
		id := handle.Reference()
		current[id] = struct{}{}

		if cached, ok := c.networks.Get(id); ok {
			handle = cached
		} else {
			c.networks.Add(id, handle)
		}

		result, err := handle.Get(ctx)
		if err != nil {
			logging.L(ctx).Warnf("Failed to inspect %s network: %s.", id, err)
			continue
		}

		counts[networkKey{driver: result.Driver, scope: result.Scope, internal: result.Internal}]++
		containers[result.Name] += len(result.Containers)
	}

	purge(c.networks, current)

	for key, count := range counts {
		metrics <- prometheus.MustNewConstMetric(
			networksMetric, prometheus.GaugeValue, float64(count),
			key.driver, key.scope, strconv.FormatBool(key.internal))
	}

	for name, count := range containers {
		metrics <- prometheus.MustNewConstMetric(
			networkContainersMetric, prometheus.GaugeValue, float64(count), name)
	}

	return nil
}

func (c *Collector) collectVersion(ctx context.Context, metrics chan<- prometheus.Metric) error {
	version, err := c.version(ctx)
	if err != nil {
		return err
	}

	var serverVersion string
	if server, ok := version.Server.Get(); ok {
		serverVersion = server.Version
	}

	metrics <- prometheus.MustNewConstMetric(
		engineInfoMetric, prometheus.GaugeValue, 1, version.Client.Version, serverVersion)

	return nil
}

func (c *Collector) version(ctx context.Context) (system.Version, error) {
	if version, ok := c.versions.Get(versionKey); ok {
		return version.(system.Version), nil
	}

	version, err := c.client.System.Version(ctx)
	if err != nil {
		return system.Version{}, err
	}

	c.versions.Add(versionKey, version)
	return version, nil
}

func purge[V any](cache *lru.Cache[string, V], current map[string]struct{}) {
	for _, key := range cache.Keys() {
		if _, ok := current[key]; !ok {
			cache.Remove(key)
		}
	}
}
