package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KonishchevDmitry/whales/internal/config"
	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/logging"
	"github.com/KonishchevDmitry/whales/internal/whales"
)

type clientFactory func(config *config.Config) (*whales.Client, error)

type app struct {
	newClient clientFactory

	config *config.Config
	logger *zap.SugaredLogger
	client *whales.Client
}

type action func(ctx context.Context, cmd *cobra.Command, args []string) error

func newDefaultClient(config *config.Config) (*whales.Client, error) {
	return whales.NewDefault(config.Engine, config.GlobalOptions(), config.CallerOptions()...)
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whales [flags] <command>",
		Short: "Container engine CLI wrapper",
		Long: heredoc.Doc(`
			Manages volumes and networks of a container engine (docker, podman or any compatible
			binary) by running its command line interface.

			All flags may be also set via WHALES_* environment variables (WHALES_ENGINE_CONFIG for
			--engine-config) or via a configuration file.
		`),

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync() // Always fails to sync stderr
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "configuration file path")
	flags.String("engine", engine.DefaultBinary, "engine command (may include a prefix like `sudo docker`)")
	flags.String("host", "", "engine daemon socket to connect to")
	flags.String("context", "", "engine context to use")
	flags.String("engine-config", "", "engine client configuration directory")
	flags.Duration("debounce", engine.DefaultDebounce, "period during which inspect results are reused")
	flags.Bool("devel", false, "development mode (human-readable debug logging)")

	cmd.AddCommand(a.volumeCommand(), a.networkCommand(), a.versionCommand(), a.exporterCommand())

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	a.config, err = config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}

	a.logger, err = logging.Configure(a.config.Devel)
	if err != nil {
		return err
	}

	a.client, err = a.newClient(a.config)
	return err
}

// action wraps command implementation with the context setup.
func (a *app) action(f action) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithLogger(context.Background(), a.logger)
		return f(ctx, cmd, args)
	}
}

func main() {
	if err := newRootCommand(&app{newClient: newDefaultClient}).Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s.\n", err)
		os.Exit(1)
	}
}
