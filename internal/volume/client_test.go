package volume

import (
	"context"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/engine/enginetest"
)

var dataVolume = heredoc.Doc(`
	[
	    {
	        "CreatedAt": "2024-03-10T12:30:45Z",
	        "Driver": "local",
	        "Labels": {
	            "env": "prod"
	        },
	        "Mountpoint": "/var/lib/docker/volumes/data/_data",
	        "Name": "data",
	        "Options": null,
	        "Scope": "local"
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

	runner.On("volume create data --driver local --label app=web --label env=prod --opt type=tmpfs", "data\n")
	runner.On("volume create", "4a1e4c79b0cd34ef0a7fb0eb84d2c51d3c14e96b9f3ec8c2a4a5a8e3b0e0d1c2\n")

	volume, err := client.Create(ctx, CreateOptions{
		Name:    "data",
		Driver:  "local",
		Labels:  map[string]string{"env": "prod", "app": "web"},
		Options: map[string]string{"type": "tmpfs"},
	})
	require.NoError(t, err)
	require.Equal(t, "data", volume.Name())
	require.Equal(t, "data", volume.String())
	require.True(t, volume.NeedsReload())

	volume, err = client.Create(ctx, CreateOptions{})
	require.NoError(t, err)
	require.Equal(t, "4a1e4c79b0cd34ef0a7fb0eb84d2c51d3c14e96b9f3ec8c2a4a5a8e3b0e0d1c2", volume.Name())

	require.Len(t, runner.Calls(), 2)
}

func TestCreateValidation(t *testing.T) {
	runner, _, client := setup()

	var argumentErr *engine.ArgumentError
	for _, options := range []CreateOptions{
		{Name: "--driver"},
		{Name: "my volume"},
		{Labels: map[string]string{"": "value"}},
		{Options: map[string]string{"": "value"}},
	} {
		_, err := client.Create(context.Background(), options)
		require.ErrorAs(t, err, &argumentErr, "%+v", options)
	}

	require.Empty(t, runner.Calls())
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	runner, clock, client := setup()

	runner.On("volume inspect data", dataVolume)

	volume, err := client.InspectOne(ctx, engine.Name("data"))
	require.NoError(t, err)

	createdAt, err := volume.CreatedAt(ctx)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 10, 12, 30, 45, 0, time.UTC), createdAt)

	driver, err := volume.Driver(ctx)
	require.NoError(t, err)
	require.Equal(t, "local", driver)

	labels, err := volume.Labels(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"env": "prod"}, labels)

	mountpoint, err := volume.Mountpoint(ctx)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/docker/volumes/data/_data", mountpoint)

	options, err := volume.Options(ctx)
	require.NoError(t, err)
	require.Nil(t, options)

	scope, err := volume.Scope(ctx)
	require.NoError(t, err)
	require.Equal(t, "local", scope)

	size, err := volume.Size(ctx)
	require.NoError(t, err)
	require.True(t, size.IsAbsent())

	require.Equal(t, 1, runner.Count("volume inspect data"))

	clock.Step(engine.DefaultDebounce)
	_, err = volume.Driver(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, runner.Count("volume inspect data"))
}

func TestInspectMany(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("volume inspect a", `[{"Name": "a", "Driver": "local", "UsageData": {"Size": 1024, "RefCount": 2}}]`)
	runner.On("volume inspect b", `[{"Name": "b", "Driver": "nfs", "UsageData": {"Size": -1, "RefCount": -1}}]`)

	volumes, err := client.InspectMany(ctx, engine.Names("a", "b")...)
	require.NoError(t, err)
	require.Len(t, volumes, 2)
	require.Equal(t, "a", volumes[0].Name())
	require.Equal(t, "b", volumes[1].Name())

	first, err := volumes[0].Cached()
	require.NoError(t, err)
	require.Equal(t, mo.Some[int64](1024), first.Size)
	require.Equal(t, mo.Some[int64](2), first.RefCount)

	second, err := volumes[1].Cached()
	require.NoError(t, err)
	require.Equal(t, mo.None[int64](), second.Size)
	require.Equal(t, "nfs", second.Driver)

	_, err = client.InspectMany(ctx)
	var argumentErr *engine.ArgumentError
	require.ErrorAs(t, err, &argumentErr)
}

func TestInspectErrors(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.OnFailure("volume inspect missing", "Error response from daemon: get missing: no such volume")
	runner.On("volume inspect broken", `[{"Name": "broken", "CreatedAt": "yesterday"}]`)

	var invocationErr *engine.InvocationError
	_, err := client.InspectOne(ctx, engine.Name("missing"))
	require.ErrorAs(t, err, &invocationErr)
	require.Equal(t, 1, invocationErr.ExitCode)

	var parseErr *engine.ParseError
	_, err = client.InspectOne(ctx, engine.Name("broken"))
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, err.Error(), "Invalid volume creation time")
}

func TestList(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("volume list --quiet --filter dangling=true --filter driver=local", "a\nb\n")

	volumes, err := client.List(ctx, ListOptions{Filters: map[string]string{"driver": "local", "dangling": "true"}})
	require.NoError(t, err)

	var names []string
	for _, volume := range volumes {
		names = append(names, volume.Name())
		require.True(t, volume.NeedsReload())
	}
	require.Equal(t, []string{"a", "b"}, names)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("volume remove data", "data\n")
	runner.On("volume remove --force a b", "a\nb\n")

	removed, err := client.Remove(ctx, RemoveOptions{}, engine.Name("data"))
	require.NoError(t, err)
	require.Equal(t, []string{"data"}, removed)

	removed, err = client.Remove(ctx, RemoveOptions{}, []engine.Reference{engine.Name("data")}...)
	require.NoError(t, err)
	require.Equal(t, []string{"data"}, removed)

	volume := client.newVolume("a")
	removed, err = client.Remove(ctx, RemoveOptions{Force: true}, volume, engine.Name("b"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, removed)

	require.NoError(t, client.newVolume("data").Remove(ctx))

	require.Equal(t, []string{
		"volume remove data",
		"volume remove data",
		"volume remove --force a b",
		"volume remove data",
	}, runner.Args())

	_, err = client.Remove(ctx, RemoveOptions{})
	var argumentErr *engine.ArgumentError
	require.ErrorAs(t, err, &argumentErr)
}

func TestPrune(t *testing.T) {
	runner, _, client := setup()

	runner.On("volume prune --force --all --filter label=env=test", "Total reclaimed space: 0B")

	require.NoError(t, client.Prune(context.Background(), PruneOptions{
		Filters: map[string]string{"label": "env=test"},
		All:     true,
	}))
}

func TestCommandArgv(t *testing.T) {
	ctx := context.Background()
	controller := gomock.NewController(t)

	runner := enginetest.NewMockRunner(controller)
	client := NewClient(engine.NewCaller(runner, []string{"sudo", "podman", "--host", "unix:///run/podman.sock"}))

	var argv []string
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, command engine.Command) (string, error) {
			argv = command.Argv()
			return "data", nil
		})

	_, err := client.Create(ctx, CreateOptions{Name: "data", Labels: map[string]string{"env": "prod"}})
	require.NoError(t, err)

	expected := []string{
		"sudo", "podman", "--host", "unix:///run/podman.sock",
		"volume", "create", "data", "--label", "env=prod",
	}
	if diff := cmp.Diff(expected, argv); diff != "" {
		t.Fatalf("Unexpected argv (-want +got):\n%s", diff)
	}
}

func TestInspectResultIsImmutable(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	runner.On("volume inspect data", `[{"Name": "data", "Labels": {"env": "prod"}, "Options": {"type": "tmpfs"}}]`)

	volume, err := client.InspectOne(ctx, engine.Name("data"))
	require.NoError(t, err)

	labels, err := volume.Labels(ctx)
	require.NoError(t, err)
	labels["env"] = "test"

	options, err := volume.Options(ctx)
	require.NoError(t, err)
	delete(options, "type")

	result, err := volume.Get(ctx)
	require.NoError(t, err)
	result.Labels["app"] = "web"

	labels, err = volume.Labels(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"env": "prod"}, labels)

	options, err = volume.Options(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"type": "tmpfs"}, options)

	require.Equal(t, 1, runner.Count("volume inspect data"))
}

func TestFlagLikeReferences(t *testing.T) {
	ctx := context.Background()
	runner, _, client := setup()

	var argumentErr *engine.ArgumentError

	_, err := client.Remove(ctx, RemoveOptions{}, engine.Names("data", "--force")...)
	require.ErrorAs(t, err, &argumentErr)

	_, err = client.InspectOne(ctx, engine.Name("-a"))
	require.ErrorAs(t, err, &argumentErr)

	require.Empty(t, runner.Calls())
}
