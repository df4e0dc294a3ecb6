package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conlang/internal/app"
	"conlang/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:          "conlangd",
		Short:        "Conlang toolkit API server",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if verbose {
				cfg.Log.Level = "debug"
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./conlang.yaml if present)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.String("addr", ":8080", "listen address")
	flags.String("storage", app.DriverMemory, "storage driver: memory, file, sqlite or postgres")
	flags.String("data-dir", "data", "directory for the file snapshot or sqlite database")
	flags.String("dsn", "", "database DSN for sqlite or postgres")
	flags.String("session-secret", "", "cookie signing secret (random per process if empty)")
	flags.Bool("secure-cookies", false, "mark session cookies Secure")
	flags.Duration("match-timeout", 0, "per-rule sound change match budget")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("log-json", true, "log as JSON")
	return cmd
}

func run(ctx context.Context, cfg app.Config, logger *zap.Logger) error {
	w, err := app.NewWire(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("wire: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}()
	return w.Server.Serve(ctx)
}
