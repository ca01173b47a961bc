package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/logging"
	"github.com/KonishchevDmitry/whales/internal/network"
)

func (a *app) networkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Manage networks",
	}

	cmd.AddCommand(
		a.networkCreateCommand(),
		a.networkListCommand(),
		a.networkInspectCommand(),
		a.networkRemoveCommand(),
		a.networkPruneCommand(),
		a.networkConnectCommand(),
		a.networkDisconnectCommand(),
	)

	return cmd
}

func (a *app) networkCreateCommand() *cobra.Command {
	var options network.CreateOptions

	cmd := &cobra.Command{
		Use:   "create [flags] NAME",
		Short: "Create a network",
		Args:  cobra.ExactArgs(1),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			options.Name = args[0]

			network, err := a.client.Network.Create(ctx, options)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), network.Reference())
			return err
		}),
	}

	flags := cmd.Flags()
	flags.BoolVar(&options.Attachable, "attachable", false, "enable manual container attachment")
	flags.StringVarP(&options.Driver, "driver", "d", "", "driver to manage the network")
	flags.StringVar(&options.Gateway, "gateway", "", "IPv4 or IPv6 gateway for the master subnet")
	flags.StringVar(&options.Subnet, "subnet", "", "subnet in CIDR format that represents a network segment")
	flags.BoolVar(&options.Internal, "internal", false, "restrict external access to the network")
	flags.BoolVar(&options.IPv6, "ipv6", false, "enable IPv6 networking")
	flags.StringToStringVar(&options.Labels, "label", nil, "network labels")
	flags.StringToStringVarP(&options.Options, "opt", "o", nil, "driver specific options")

	return cmd
}

func (a *app) networkListCommand() *cobra.Command {
	var options network.ListOptions

	cmd := &cobra.Command{
		Use:     "list [flags]",
		Aliases: []string{"ls"},
		Short:   "List networks",
		Args:    cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			networks, err := a.client.Network.List(ctx, options)
			if err != nil {
				return err
			}

			tbl := newTable(cmd.OutOrStdout(), "id", "name", "driver", "scope", "internal", "containers", "created")
			for _, network := range networks {
				result, err := network.Get(ctx)
				if err != nil {
					logging.L(ctx).Warnf("Failed to inspect %s network: %s.", network.Reference(), err)
					continue
				}

				tbl.AddRow(
					shortID(result.ID), result.Name, result.Driver, result.Scope, strconv.FormatBool(result.Internal),
					len(result.Containers), result.Created.Local().Format(time.DateTime))
			}
			tbl.Print()

			return nil
		}),
	}

	cmd.Flags().StringToStringVarP(&options.Filters, "filter", "f", nil, "filter output based on conditions")

	return cmd
}

func (a *app) networkInspectCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "inspect [flags] NETWORK...",
		Short: "Display detailed information on one or more networks",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			networks, err := a.client.Network.InspectMany(ctx, engine.Names(args...)...)
			if err != nil {
				return err
			}

			results := make([]network.InspectResult, 0, len(networks))
			for _, network := range networks {
				result, err := network.Cached()
				if err != nil {
					return err
				}
				results = append(results, result)
			}

			return printResults(cmd.OutOrStdout(), results, dump)
		}),
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump results as Go values")

	return cmd
}

func (a *app) networkRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NETWORK...",
		Aliases: []string{"rm"},
		Short:   "Remove one or more networks",
		Args:    cobra.MinimumNArgs(1),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return a.client.Network.Remove(ctx, engine.Names(args...)...)
		}),
	}
}

func (a *app) networkPruneCommand() *cobra.Command {
	var options network.PruneOptions

	cmd := &cobra.Command{
		Use:   "prune [flags]",
		Short: "Remove all unused networks",
		Args:  cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.client.Network.Prune(ctx, options); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.ErrOrStderr(), "Unused networks have been removed.")
			return err
		}),
	}

	cmd.Flags().StringToStringVar(&options.Filters, "filter", nil, "provide filter values")

	return cmd
}

func (a *app) networkConnectCommand() *cobra.Command {
	var options network.ConnectOptions

	cmd := &cobra.Command{
		Use:   "connect [flags] NETWORK CONTAINER",
		Short: "Connect a container to a network",
		Args:  cobra.ExactArgs(2),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return a.client.Network.Connect(ctx, engine.Name(args[0]), args[1], options)
		}),
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&options.Aliases, "alias", nil, "network-scoped alias for the container")
	flags.StringVar(&options.IP, "ip", "", "IPv4 address")
	flags.StringVar(&options.IPv6, "ip6", "", "IPv6 address")

	return cmd
}

func (a *app) networkDisconnectCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "disconnect [flags] NETWORK CONTAINER",
		Short: "Disconnect a container from a network",
		Args:  cobra.ExactArgs(2),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return a.client.Network.Disconnect(ctx, engine.Name(args[0]), args[1], force)
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force the container to disconnect from a network")

	return cmd
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
