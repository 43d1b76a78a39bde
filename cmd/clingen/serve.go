// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clingen/internal/archive"
	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/internal/metrics"
	"github.com/pdiddy/clingen/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gene lookup form over HTTP",
	Long: `Serve starts the lookup web server. GET / shows the form, POST / runs a
lookup and renders the results table. /healthz reports liveness and
/metrics exposes Prometheus metrics. With --archive every lookup that
finds publications is saved in the archive database.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("archive", false, "save found lookups in the archive")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.archive", serveCmd.Flags().Lookup("archive"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewRecorder()
	svc := newService(cfg, lookup.WithObserver(recorder))

	opts := []web.Option{
		web.WithLogger(logger),
		web.WithMetrics(recorder.Handler()),
	}
	if cfg.Server.ArchiveLookups {
		store, err := archive.Open(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, web.WithArchive(store))
		logger.Info("archiving lookups", "driver", cfg.Archive.Driver)
	}

	logger.Info("starting server", "mine", cfg.Mine.BaseURL, "version", version)
	return web.NewServer(svc, opts...).ListenAndServe(ctx, cfg.Server)
}

