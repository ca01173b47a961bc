package network

import (
	"context"
	"maps"
	"slices"
	"time"

	dockernetwork "github.com/docker/docker/api/types/network"
	"github.com/samber/mo"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/resource"
)

type Endpoint struct {
	Name        string
	EndpointID  string
	MacAddress  string
	IPv4Address string
	IPv6Address string
}

type Subnet struct {
	Subnet  string
	IPRange string
	Gateway string
}

type InspectResult struct {
	ID         string
	Name       string
	Created    time.Time
	Scope      string
	Driver     string
	EnableIPv6 bool
	Internal   bool
	Attachable bool
	Ingress    bool
	ConfigFrom mo.Option[string]
	ConfigOnly bool
	Subnets    []Subnet
	Containers map[string]Endpoint
	Options    map[string]string
	Labels     map[string]string
}

func (r *InspectResult) clone() InspectResult {
	result := *r
	result.Subnets = slices.Clone(r.Subnets)
	result.Containers = maps.Clone(r.Containers)
	result.Options = maps.Clone(r.Options)
	result.Labels = maps.Clone(r.Labels)
	return result
}

func parseInspectResult(command engine.Command, output string) (InspectResult, error) {
	info, err := engine.DecodeSingle[dockernetwork.Inspect](command, output)
	if err != nil {
		return InspectResult{}, err
	}

	result := InspectResult{
		ID:         info.ID,
		Name:       info.Name,
		Created:    info.Created,
		Scope:      info.Scope,
		Driver:     info.Driver,
		EnableIPv6: info.EnableIPv6,
		Internal:   info.Internal,
		Attachable: info.Attachable,
		Ingress:    info.Ingress,
		ConfigOnly: info.ConfigOnly,
		Options:    info.Options,
		Labels:     info.Labels,
	}

	if configFrom := info.ConfigFrom.Network; configFrom != "" {
		result.ConfigFrom = mo.Some(configFrom)
	}

	for _, config := range info.IPAM.Config {
		result.Subnets = append(result.Subnets, Subnet{
			Subnet:  config.Subnet,
			IPRange: config.IPRange,
			Gateway: config.Gateway,
		})
	}

	if len(info.Containers) != 0 {
		result.Containers = make(map[string]Endpoint, len(info.Containers))
		for id, endpoint := range info.Containers {
			result.Containers[id] = Endpoint{
				Name:        endpoint.Name,
				EndpointID:  endpoint.EndpointID,
				MacAddress:  endpoint.MacAddress,
				IPv4Address: endpoint.IPv4Address,
				IPv6Address: endpoint.IPv6Address,
			}
		}
	}

	return result, nil
}

// Network is a handle to an engine network. Networks may be renamed, so a handle created by name switches to the
// network ID on the first inspect.
type Network struct {
	*resource.Handle[InspectResult]
	client *Client
}

var _ engine.Reference = &Network{}

func (n *Network) ID(ctx context.Context) (string, error) {
	return n.ImmutableID(ctx)
}

func (n *Network) Name(ctx context.Context) (string, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) string { return result.Name })
}

func (n *Network) Created(ctx context.Context) (time.Time, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) time.Time { return result.Created })
}

func (n *Network) Scope(ctx context.Context) (string, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) string { return result.Scope })
}

func (n *Network) Driver(ctx context.Context) (string, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) string { return result.Driver })
}

func (n *Network) EnableIPv6(ctx context.Context) (bool, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) bool { return result.EnableIPv6 })
}

func (n *Network) Internal(ctx context.Context) (bool, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) bool { return result.Internal })
}

func (n *Network) Attachable(ctx context.Context) (bool, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) bool { return result.Attachable })
}

func (n *Network) Ingress(ctx context.Context) (bool, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) bool { return result.Ingress })
}

func (n *Network) ConfigFrom(ctx context.Context) (mo.Option[string], error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) mo.Option[string] { return result.ConfigFrom })
}

func (n *Network) ConfigOnly(ctx context.Context) (bool, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) bool { return result.ConfigOnly })
}

func (n *Network) Subnets(ctx context.Context) ([]Subnet, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) []Subnet { return result.Subnets })
}

// Containers returns endpoints of the connected containers by container ID.
func (n *Network) Containers(ctx context.Context) (map[string]Endpoint, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) map[string]Endpoint { return result.Containers })
}

func (n *Network) Options(ctx context.Context) (map[string]string, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) map[string]string { return result.Options })
}

func (n *Network) Labels(ctx context.Context) (map[string]string, error) {
	return resource.Attribute(ctx, n.Handle, func(result *InspectResult) map[string]string { return result.Labels })
}

func (n *Network) Remove(ctx context.Context) error {
	return n.client.Remove(ctx, n)
}
