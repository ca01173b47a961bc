package volume

import (
	"context"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/logging"
	"github.com/KonishchevDmitry/whales/internal/resource"
)

type CreateOptions struct {
	Name    string `validate:"omitempty,object_name"`
	Driver  string
	Labels  map[string]string `validate:"dive,keys,required,endkeys"`
	Options map[string]string `validate:"dive,keys,required,endkeys"`
}

type ListOptions struct {
	Filters map[string]string `validate:"dive,keys,required,endkeys"`
}

type RemoveOptions struct {
	Force bool
}

type PruneOptions struct {
	Filters map[string]string `validate:"dive,keys,required,endkeys"`
	All     bool
}

// Client manages volumes via `volume` engine subcommands.
type Client struct {
	caller *engine.Caller
	kind   *resource.Kind[InspectResult]
}

func NewClient(caller *engine.Caller) *Client {
	client := &Client{caller: caller}
	client.kind = &resource.Kind[InspectResult]{
		Name:    "Volume",
		Inspect: client.inspect,
		ID: func(result *InspectResult) string {
			return result.Name
		},
		Clone: (*InspectResult).clone,
	}
	return client
}

func (c *Client) inspect(ctx context.Context, reference string) (InspectResult, error) {
	command := c.caller.Command("volume", "inspect", reference)

	output, err := c.caller.Run(ctx, command)
	if err != nil {
		return InspectResult{}, err
	}

	return parseInspectResult(command, output)
}

func (c *Client) newVolume(name string) *Volume {
	return &Volume{
		Handle: resource.New(c.caller, c.kind, name, true),
		client: c,
	}
}

// Create creates a new volume. The engine generates a random name if it's not specified.
func (c *Client) Create(ctx context.Context, options CreateOptions) (*Volume, error) {
	if err := engine.Validate(options); err != nil {
		return nil, err
	}

	command := c.caller.Command("volume", "create")
	if options.Name != "" {
		command.Add(options.Name)
	}
	command.AddSimpleArg("--driver", options.Driver)
	command.AddMapping("--label", options.Labels)
	command.AddMapping("--opt", options.Options)

	output, err := c.caller.Run(ctx, command)
	if err != nil {
		return nil, err
	}

	name, err := engine.ParseIdentifier(command, output)
	if err != nil {
		return nil, err
	}

	logging.L(ctx).Debugf("Created %q volume.", name)
	return c.newVolume(name), nil
}

func (c *Client) List(ctx context.Context, options ListOptions) ([]*Volume, error) {
	if err := engine.Validate(options); err != nil {
		return nil, err
	}

	command := c.caller.Command("volume", "list", "--quiet")
	command.AddMapping("--filter", options.Filters)

	names, err := c.caller.RunLines(ctx, command)
	if err != nil {
		return nil, err
	}

	volumes := make([]*Volume, 0, len(names))
	for _, name := range names {
		volumes = append(volumes, c.newVolume(name))
	}

	return volumes, nil
}

// InspectOne returns a handle to the specified volume inspecting it to make sure that it exists.
func (c *Client) InspectOne(ctx context.Context, reference engine.Reference) (*Volume, error) {
	references, err := engine.ResolveReferences([]engine.Reference{reference})
	if err != nil {
		return nil, err
	}

	volume := c.newVolume(references[0])
	if err := volume.Reload(ctx); err != nil {
		return nil, err
	}

	return volume, nil
}

// InspectMany returns handles to the specified volumes preserving their order.
func (c *Client) InspectMany(ctx context.Context, references ...engine.Reference) ([]*Volume, error) {
	if _, err := engine.ResolveReferences(references); err != nil {
		return nil, err
	}

	volumes := make([]*Volume, 0, len(references))
	for _, reference := range references {
		volume, err := c.InspectOne(ctx, reference)
		if err != nil {
			return nil, err
		}
		volumes = append(volumes, volume)
	}

	return volumes, nil
}

// Remove removes the specified volumes and returns names of the removed ones.
func (c *Client) Remove(ctx context.Context, options RemoveOptions, references ...engine.Reference) ([]string, error) {
	names, err := engine.ResolveReferences(references)
	if err != nil {
		return nil, err
	}

	command := c.caller.Command("volume", "remove")
	command.AddFlag("--force", options.Force)
	command.Add(names...)

	removed, err := c.caller.RunLines(ctx, command)
	if err != nil {
		return nil, err
	}

	logging.L(ctx).Debugf("Removed volumes: %s.", removed)
	return removed, nil
}

// Prune removes unused volumes. Only anonymous volumes are removed unless All is set.
func (c *Client) Prune(ctx context.Context, options PruneOptions) error {
	if err := engine.Validate(options); err != nil {
		return err
	}

	command := c.caller.Command("volume", "prune", "--force")
	command.AddFlag("--all", options.All)
	command.AddMapping("--filter", options.Filters)

	_, err := c.caller.Run(ctx, command)
	return err
}
