package network

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/logging"
	"github.com/KonishchevDmitry/whales/internal/resource"
)

type CreateOptions struct {
	Name       string `validate:"omitempty,object_name"`
	Attachable bool
	Driver     string
	Gateway    string `validate:"omitempty,ip"`
	Subnet     string `validate:"omitempty,cidr"`
	Internal   bool
	IPv6       bool
	Labels     map[string]string `validate:"dive,keys,required,endkeys"`
	Options    map[string]string `validate:"dive,keys,required,endkeys"`
}

type ListOptions struct {
	Filters map[string]string `validate:"dive,keys,required,endkeys"`
}

type PruneOptions struct {
	Filters map[string]string `validate:"dive,keys,required,endkeys"`
}

type ConnectOptions struct {
	Aliases []string `validate:"dive,required"`
	IP      string   `validate:"omitempty,ipv4"`
	IPv6    string   `validate:"omitempty,ipv6"`
}

// Client manages networks via `network` engine subcommands.
type Client struct {
	caller *engine.Caller
	kind   *resource.Kind[InspectResult]
}

func NewClient(caller *engine.Caller) *Client {
	client := &Client{caller: caller}
	client.kind = &resource.Kind[InspectResult]{
		Name:    "Network",
		Inspect: client.inspect,
		ID: func(result *InspectResult) string {
			return result.ID
		},
		Clone: (*InspectResult).clone,
	}
	return client
}

func (c *Client) inspect(ctx context.Context, reference string) (InspectResult, error) {
	command := c.caller.Command("network", "inspect", reference)

	output, err := c.caller.Run(ctx, command)
	if err != nil {
		return InspectResult{}, err
	}

	return parseInspectResult(command, output)
}

func (c *Client) newNetwork(reference string, immutableID bool) *Network {
	return &Network{
		Handle: resource.New(c.caller, c.kind, reference, immutableID),
		client: c,
	}
}

func (c *Client) Create(ctx context.Context, options CreateOptions) (*Network, error) {
	if options.Name == "" {
		return nil, &engine.ArgumentError{Err: xerrors.New("Network name is not specified")}
	} else if err := engine.Validate(options); err != nil {
		return nil, err
	}

	command := c.caller.Command("network", "create")
	command.AddFlag("--attachable", options.Attachable)
	command.AddSimpleArg("--driver", options.Driver)
	command.AddSimpleArg("--gateway", options.Gateway)
	command.AddSimpleArg("--subnet", options.Subnet)
	command.AddFlag("--internal", options.Internal)
	command.AddFlag("--ipv6", options.IPv6)
	command.AddMapping("--label", options.Labels)
	command.AddMapping("--opt", options.Options)
	command.Add(options.Name)

	output, err := c.caller.Run(ctx, command)
	if err != nil {
		return nil, err
	}

	id, err := engine.ParseIdentifier(command, output)
	if err != nil {
		return nil, err
	}

	logging.L(ctx).Debugf("Created %q network: %s.", options.Name, id)
	return c.newNetwork(id, true), nil
}

// WithNetwork creates a network, calls the function with it and removes the network afterwards regardless of the
// function result. A random name is generated if it's not specified.
func (c *Client) WithNetwork(ctx context.Context, options CreateOptions, f func(network *Network) error) (retErr error) {
	if options.Name == "" {
		options.Name = "whales-" + uuid.NewString()
	}

	network, err := c.Create(ctx, options)
	if err != nil {
		return err
	}
	defer func() {
		if err := network.Remove(ctx); err != nil {
			if retErr == nil {
				retErr = err
			} else {
				logging.L(ctx).Errorf("Failed to remove %q network: %s.", options.Name, err)
			}
		}
	}()

	return f(network)
}

func (c *Client) List(ctx context.Context, options ListOptions) ([]*Network, error) {
	if err := engine.Validate(options); err != nil {
		return nil, err
	}

	command := c.caller.Command("network", "list", "--no-trunc", "--quiet")
	command.AddMapping("--filter", options.Filters)

	ids, err := c.caller.RunLines(ctx, command)
	if err != nil {
		return nil, err
	}

	networks := make([]*Network, 0, len(ids))
	for _, id := range ids {
		networks = append(networks, c.newNetwork(id, true))
	}

	return networks, nil
}

// InspectOne returns a handle to the specified network. The network is inspected to make sure that it exists and to
// obtain its ID.
func (c *Client) InspectOne(ctx context.Context, reference engine.Reference) (*Network, error) {
	references, err := engine.ResolveReferences([]engine.Reference{reference})
	if err != nil {
		return nil, err
	}

	network := c.newNetwork(references[0], false)
	if err := network.Reload(ctx); err != nil {
		return nil, err
	}

	return network, nil
}

// InspectMany returns handles to the specified networks preserving their order.
func (c *Client) InspectMany(ctx context.Context, references ...engine.Reference) ([]*Network, error) {
	if _, err := engine.ResolveReferences(references); err != nil {
		return nil, err
	}

	networks := make([]*Network, 0, len(references))
	for _, reference := range references {
		network, err := c.InspectOne(ctx, reference)
		if err != nil {
			return nil, err
		}
		networks = append(networks, network)
	}

	return networks, nil
}

func (c *Client) Remove(ctx context.Context, references ...engine.Reference) error {
	names, err := engine.ResolveReferences(references)
	if err != nil {
		return err
	}

	command := c.caller.Command("network", "remove")
	command.Add(names...)

	if _, err := c.caller.Run(ctx, command); err != nil {
		return err
	}

	logging.L(ctx).Debugf("Removed networks: %s.", names)
	return nil
}

func (c *Client) Prune(ctx context.Context, options PruneOptions) error {
	if err := engine.Validate(options); err != nil {
		return err
	}

	command := c.caller.Command("network", "prune", "--force")
	command.AddMapping("--filter", options.Filters)

	_, err := c.caller.Run(ctx, command)
	return err
}

// Connect connects a container to the network.
func (c *Client) Connect(
	ctx context.Context, network engine.Reference, container string, options ConnectOptions,
) error {
	if err := engine.Validate(options); err != nil {
		return err
	}

	networks, err := engine.ResolveReferences([]engine.Reference{network})
	if err != nil {
		return err
	}

	containers, err := engine.ResolveReferences([]engine.Reference{engine.Name(container)})
	if err != nil {
		return err
	}

	command := c.caller.Command("network", "connect")
	command.AddArgsList("--alias", options.Aliases)
	command.AddSimpleArg("--ip", options.IP)
	command.AddSimpleArg("--ip6", options.IPv6)
	command.Add(networks[0], containers[0])

	_, err = c.caller.Run(ctx, command)
	return err
}

// Disconnect disconnects a container from the network.
func (c *Client) Disconnect(ctx context.Context, network engine.Reference, container string, force bool) error {
	networks, err := engine.ResolveReferences([]engine.Reference{network})
	if err != nil {
		return err
	}

	containers, err := engine.ResolveReferences([]engine.Reference{engine.Name(container)})
	if err != nil {
		return err
	}

	command := c.caller.Command("network", "disconnect")
	command.AddFlag("--force", force)
	command.Add(networks[0], containers[0])

	_, err = c.caller.Run(ctx, command)
	return err
}
