package main

import (
	"context"
	"errors"
	"net/http"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc"
	oklogrun "github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/KonishchevDmitry/whales/internal/exporter"
	"github.com/KonishchevDmitry/whales/internal/logging"
	"github.com/KonishchevDmitry/whales/internal/server"
)

func (a *app) exporterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exporter [flags]",
		Short: "Run Prometheus exporter",
		Long: heredoc.Doc(`
			Serves engine volumes and networks statistics in Prometheus format on /metrics and
			engine availability on /healthz.
		`),
		Args: cobra.NoArgs,
		RunE: a.action(a.runExporter),
	}

	flags := cmd.Flags()
	flags.String("listen", "127.0.0.1:9101", "address to listen on")
	flags.Duration("version-interval", time.Minute, "engine version update interval")

	return cmd
}

func (a *app) runExporter(ctx context.Context, cmd *cobra.Command, args []string) error {
	collector := exporter.NewCollector(a.logger, a.client, a.config.Exporter.Interval)
	if err := prometheus.Register(collector); err != nil {
		return err
	}

	httpServer := server.New(ctx, a.config.Exporter.Listen,
		server.NewRouter(ctx, prometheus.DefaultGatherer, collector.HealthCheck))

	var group oklogrun.Group

	group.Add(oklogrun.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	group.Add(func() error {
		logging.L(ctx).Infof("Listening on %s...", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.L(ctx).Errorf("Failed to shutdown HTTP server: %s.", err)
		}
	})

	err := group.Run()

	if errors.Is(err, oklogrun.ErrSignal) {
		logging.L(ctx).Infof("Exiting: %s.", err)
		return nil
	}

	return err
}
