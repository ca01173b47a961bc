package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KonishchevDmitry/whales/internal/system"
)

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show engine version information",
		Args:  cobra.NoArgs,
		RunE: a.action(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			version, err := a.client.System.Version(ctx)
			if err != nil {
				return err
			}

			tbl := newTable(cmd.OutOrStdout(), "component", "version", "api version", "os/arch")
			addVersionRow := func(name string, version system.ComponentVersion) {
				tbl.AddRow(name, version.Version, version.APIVersion, version.OS+"/"+version.Arch)
			}

			addVersionRow("client", version.Client)
			if server, ok := version.Server.Get(); ok {
				addVersionRow("server", server)
			}
			tbl.Print()

			return nil
		}),
	}
}
