package network

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/engine/enginetest"
)

const backendID = "8c6d0f5e0a6c3a3b1b8d4a0e2e6f4f1b7c1a2d3e4f5a6b7c8d9e0f1a2b3c4d5e"

var backendNetwork = heredoc.Doc(`
	[
	    {
	        "Name": "backend",
	        "Id": "8c6d0f5e0a6c3a3b1b8d4a0e2e6f4f1b7c1a2d3e4f5a6b7c8d9e0f1a2b3c4d5e",
	        "Created": "2024-03-10T12:30:45.123456789Z",
	        "Scope": "local",
	        "Driver": "bridge",
	        "EnableIPv6": false,
	        "IPAM": {
	            "Driver": "default",
	            "Options": {},
	            "Config": [
	                {
	                    "Subnet": "172.20.0.0/16",
	                    "Gateway": "172.20.0.1"
	                }
	            ]
	        },
	        "Internal": true,
	        "Attachable": true,
	        "Ingress": false,
	        "ConfigFrom": {
	            "Network": ""
	        },
	        "ConfigOnly": false,
	        "Containers": {
	            "f1e2d3c4b5a6": {
	                "Name": "web",
	                "EndpointID": "0a1b2c3d4e5f",
	                "MacAddress": "02:42:ac:14:00:02",
	                "IPv4Address": "172.20.0.2/16",
	                "IPv6Address": ""
	            }
	        },
	        "Options": {
	            "com.docker.network.bridge.name": "br-backend"
	        },
	        "Labels": {
	            "env": "prod"
	        }
	    }
	]
`)

func setup() (*enginetest.Runner, *testingclock.FakeClock, *Client) {
	runner := enginetest.NewRunner()
	clock := testingclock.NewFakeClock(time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC))
	return runner, clock, NewClient(runner.NewCaller(engine.WithClock(clock)))
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On(strings.Join([]string{
		"network create --attachable --driver bridge --gateway 172.20.0.1 --subnet 172.20.0.0/16 --internal --ipv6",
		"--label app=web --label env=prod --opt com.docker.network.bridge.name=br-backend backend",
	}, " "), backendID+"\n")

	network, err := client.Create(ctx, CreateOptions{
		Name:       "backend",
		Attachable: true,
		Driver:     "bridge",
		Gateway:    "172.20.0.1",
		Subnet:     "172.20.0.0/16",
		Internal:   true,
		IPv6:       true,
		Labels:     map[string]string{"env": "prod", "app": "web"},
		Options:    map[string]string{"com.docker.network.bridge.name": "br-backend"},
	})
	require.NoError(t, err)

	id, err := network.ID(ctx)
	require.NoError(t, err)
	require.Equal(t, backendID, id)
	require.Len(t, runner.Calls(), 1)
}

func TestCreateValidation(t *testing.T) {
	runner, _, client := setup()

	var argumentErr *engine.ArgumentError
	for _, options := range []CreateOptions{
		{},
		{Name: "backend", Subnet: "172.20.0.1"},
		{Name: "backend", Gateway: "gateway"},
		{Name: "backend", Labels: map[string]string{"": "prod"}},
	} {
		_, err := client.Create(context.Background(), options)
		require.ErrorAs(t, err, &argumentErr, "%+v", options)
	}

	require.Empty(t, runner.Calls())
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	runner, clock, client := setup()

	runner.On("network inspect backend", backendNetwork)
	runner.On("network inspect "+backendID, backendNetwork)

	network, err := client.InspectOne(ctx, engine.Name("backend"))
	require.NoError(t, err)
	require.Equal(t, backendID, network.Reference())

	result, err := network.Cached()
	require.NoError(t, err)
	require.Equal(t, InspectResult{
		ID:         backendID,
		Name:       "backend",
		Created:    time.Date(2024, 3, 10, 12, 30, 45, 123456789, time.UTC),
		Scope:      "local",
		Driver:     "bridge",
		Internal:   true,
		Attachable: true,
		ConfigFrom: mo.None[string](),
		Subnets:    []Subnet{{Subnet: "172.20.0.0/16", Gateway: "172.20.0.1"}},
		Containers: map[string]Endpoint{
			"f1e2d3c4b5a6": {
				Name:        "web",
				EndpointID:  "0a1b2c3d4e5f",
				MacAddress:  "02:42:ac:14:00:02",
				IPv4Address: "172.20.0.2/16",
			},
		},
		Options: map[string]string{"com.docker.network.bridge.name": "br-backend"},
		Labels:  map[string]string{"env": "prod"},
	}, result)

	name, err := network.Name(ctx)
	require.NoError(t, err)
	require.Equal(t, "backend", name)

	internal, err := network.Internal(ctx)
	require.NoError(t, err)
	require.True(t, internal)

	clock.Step(time.Second)

	containers, err := network.Containers(ctx)
	require.NoError(t, err)
	require.Len(t, containers, 1)

	require.Equal(t, []string{"network inspect backend", "network inspect " + backendID}, runner.Args())
}

func TestInspectMany(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("network inspect a", `[{"Id": "1", "Name": "a", "ConfigFrom": {"Network": "template"}}]`)
	runner.On("network inspect b", `[{"Id": "2", "Name": "b"}]`)

	networks, err := client.InspectMany(ctx, engine.Names("a", "b")...)
	require.NoError(t, err)
	require.Len(t, networks, 2)

	var ids []string
	for _, network := range networks {
		id, err := network.ID(ctx)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.Equal(t, []string{"1", "2"}, ids)

	configFrom, err := networks[0].ConfigFrom(ctx)
	require.NoError(t, err)
	require.Equal(t, mo.Some("template"), configFrom)

	require.Len(t, runner.Calls(), 2)
}

func TestInspectMalformed(t *testing.T) {
	runner, _, client := setup()

	runner.On("network inspect backend", `[{"Name": "backend"}, {"Name": "frontend"}]`)

	_, err := client.InspectOne(context.Background(), engine.Name("backend"))
	var parseErr *engine.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("network list --no-trunc --quiet --filter driver=bridge", "1\n2\n")

	networks, err := client.List(ctx, ListOptions{Filters: map[string]string{"driver": "bridge"}})
	require.NoError(t, err)
	require.Len(t, networks, 2)
	require.Equal(t, "1", networks[0].Reference())
	require.Equal(t, "2", networks[1].Reference())
	require.Len(t, runner.Calls(), 1)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("network remove backend", "backend")
	runner.On("network remove 1 frontend", "1\nfrontend")

	require.NoError(t, client.Remove(ctx, engine.Name("backend")))
	require.NoError(t, client.Remove(ctx, []engine.Reference{engine.Name("backend")}...))
	require.NoError(t, client.Remove(ctx, client.newNetwork("1", true), engine.Name("frontend")))

	require.Equal(t, []string{
		"network remove backend",
		"network remove backend",
		"network remove 1 frontend",
	}, runner.Args())
}

func TestPrune(t *testing.T) {
	runner, _, client := setup()

	runner.On("network prune --force --filter until=24h", "")
	require.NoError(t, client.Prune(context.Background(), PruneOptions{Filters: map[string]string{"until": "24h"}}))
	require.Len(t, runner.Calls(), 1)
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("network connect --alias db --alias postgres --ip 172.20.0.10 backend postgres", "")
	runner.On("network disconnect --force backend postgres", "")

	require.NoError(t, client.Connect(ctx, engine.Name("backend"), "postgres", ConnectOptions{
		Aliases: []string{"db", "postgres"},
		IP:      "172.20.0.10",
	}))
	require.NoError(t, client.Disconnect(ctx, engine.Name("backend"), "postgres", true))

	var argumentErr *engine.ArgumentError
	require.ErrorAs(t, client.Connect(ctx, engine.Name("backend"), "", ConnectOptions{}), &argumentErr)
	require.ErrorAs(t, client.Connect(ctx, engine.Name("backend"), "postgres", ConnectOptions{IP: "::1"}), &argumentErr)

	require.Len(t, runner.Calls(), 2)
}

func TestWithNetwork(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("network create backend", backendID)
	runner.On("network remove "+backendID, backendID)

	var called bool
	err := client.WithNetwork(ctx, CreateOptions{Name: "backend"}, func(network *Network) error {
		called = true
		require.Equal(t, backendID, network.Reference())
		return xerrors.New("Container has failed")
	})
	require.EqualError(t, err, "Container has failed")
	require.True(t, called)

	require.Equal(t, []string{"network create backend", "network remove " + backendID}, runner.Args())
}

func TestWithRandomNetwork(t *testing.T) {
	ctx := context.Background()
	runner := enginetest.NewMockRunner(gomockController(t))
	client := NewClient(engine.NewCaller(runner, enginetest.Prefix))

	var name string
	runner.EXPECT().Run(ctx, matchSubcommand("network create")).DoAndReturn(
		func(ctx context.Context, command engine.Command) (string, error) {
			name = command.Args[len(command.Args)-1]
			return "1", nil
		})
	runner.EXPECT().Run(ctx, matchSubcommand("network remove")).Return("1", nil)

	require.NoError(t, client.WithNetwork(ctx, CreateOptions{}, func(network *Network) error {
		return nil
	}))
	require.True(t, strings.HasPrefix(name, "whales-"), name)
}

func TestInspectResultIsImmutable(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("network inspect backend", backendNetwork)

	network, err := client.InspectOne(ctx, engine.Name("backend"))
	require.NoError(t, err)

	containers, err := network.Containers(ctx)
	require.NoError(t, err)
	delete(containers, "f1e2d3c4b5a6")

	subnets, err := network.Subnets(ctx)
	require.NoError(t, err)
	subnets[0].Gateway = "10.0.0.1"

	labels, err := network.Labels(ctx)
	require.NoError(t, err)
	labels["env"] = "test"

	result, err := network.Cached()
	require.NoError(t, err)
	require.Len(t, result.Containers, 1)
	require.Equal(t, "172.20.0.1", result.Subnets[0].Gateway)
	require.Equal(t, map[string]string{"env": "prod"}, result.Labels)

	require.Equal(t, 1, runner.Count("network inspect backend"))
}

func TestFlagLikeReferences(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	var argumentErr *engine.ArgumentError
	require.ErrorAs(t, client.Remove(ctx, engine.Name("--force")), &argumentErr)
	require.ErrorAs(t, client.Connect(ctx, engine.Name("backend"), "--ip=1.2.3.4", ConnectOptions{}), &argumentErr)
	require.ErrorAs(t, client.Disconnect(ctx, engine.Name("-f"), "postgres", false), &argumentErr)

	require.Empty(t, runner.Calls())
}
