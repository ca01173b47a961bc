package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/logging"
	"github.com/KonishchevDmitry/whales/internal/volume"
)

func (a *app) volumeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume",
		Short: "Manage volumes",
	}

	cmd.AddCommand(
		a.volumeCreateCommand(),
		a.volumeListCommand(),
		a.volumeInspectCommand(),
		a.volumeRemoveCommand(),
		a.volumePruneCommand(),
	)

	return cmd
}

func (a *app) volumeCreateCommand() *cobra.Command {
	var options volume.CreateOptions

	cmd := &cobra.Command{
		Use:   "create [flags] [NAME]",
		Short: "Create a volume",
		Long: heredoc.Doc(`
			Creates a volume and prints its name. The engine generates a random name if it's not
			specified.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				options.Name = args[0]
			}

			volume, err := a.client.Volume.Create(ctx, options)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), volume.Name())
			return err
		}),
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.Driver, "driver", "d", "", "volume driver name")
	flags.StringToStringVar(&options.Labels, "label", nil, "volume labels")
	flags.StringToStringVarP(&options.Options, "opt", "o", nil, "driver specific options")

	return cmd
}

func (a *app) volumeListCommand() *cobra.Command {
	var options volume.ListOptions

	cmd := &cobra.Command{
		Use:     "list [flags]",
		Aliases: []string{"ls"},
		Short:   "List volumes",
		Args:    cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			volumes, err := a.client.Volume.List(ctx, options)
			if err != nil {
				return err
			}

			tbl := newTable(cmd.OutOrStdout(), "name", "driver", "scope", "created at", "size", "labels", "mount point")
			for _, volume := range volumes {
				result, err := volume.Get(ctx)
				if err != nil {
					// The volume may be deleted after listing
					logging.L(ctx).Warnf("Failed to inspect %q volume: %s.", volume.Name(), err)
					continue
				}

				tbl.AddRow(
					result.Name, result.Driver, result.Scope, result.CreatedAt.Local().Format(time.DateTime),
					formatOption(result.Size), formatMapping(result.Labels), result.Mountpoint)
			}
			tbl.Print()

			return nil
		}),
	}

	cmd.Flags().StringToStringVarP(&options.Filters, "filter", "f", nil, "filter output based on conditions")

	return cmd
}

func (a *app) volumeInspectCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "inspect [flags] VOLUME...",
		Short: "Display detailed information on one or more volumes",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			volumes, err := a.client.Volume.InspectMany(ctx, engine.Names(args...)...)
			if err != nil {
				return err
			}

			results := make([]volume.InspectResult, 0, len(volumes))
			for _, volume := range volumes {
				result, err := volume.Cached()
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

func (a *app) volumeRemoveCommand() *cobra.Command {
	var options volume.RemoveOptions

	cmd := &cobra.Command{
		Use:     "remove [flags] VOLUME...",
		Aliases: []string{"rm"},
		Short:   "Remove one or more volumes",
		Args:    cobra.MinimumNArgs(1),
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			removed, err := a.client.Volume.Remove(ctx, options, engine.Names(args...)...)
			if err != nil {
				return err
			}

			for _, name := range removed {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}

			return nil
		}),
	}

	cmd.Flags().BoolVarP(&options.Force, "force", "f", false, "force the removal of one or more volumes")

	return cmd
}

func (a *app) volumePruneCommand() *cobra.Command {
	var options volume.PruneOptions

	cmd := &cobra.Command{
		Use:   "prune [flags]",
		Short: "Remove unused volumes",
		Args:  cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.client.Volume.Prune(ctx, options); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.ErrOrStderr(), "Unused volumes have been removed.")
			return err
		}),
	}

	flags := cmd.Flags()
	flags.BoolVarP(&options.All, "all", "a", false, "remove all unused volumes, not just anonymous ones")
	flags.StringToStringVar(&options.Filters, "filter", nil, "provide filter values")

	return cmd
}
