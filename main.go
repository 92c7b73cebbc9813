package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"notes-api/config"
	"notes-api/config/setup"
	"notes-api/database"
)

var version = "dev"

type options struct {
	ConfigPath string
}

func (o *options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "path to a YAML config file")
}

func main() {
	opts := &options{}
	root := &cobra.Command{
		Use:          "notes-api",
		Short:        "CRUD HTTP service for notes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts)
		},
	}
	opts.AddFlags(root.PersistentFlags())

	root.AddCommand(newServeCommand(opts), newMigrateCommand(opts), newVersionCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts)
		},
	}
}

func newMigrateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(opts, func(db *database.DB) error { return db.Migrate() })
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "revert all migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(opts, func(db *database.DB) error { return db.Rollback() })
			},
		},
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func withDatabase(opts *options, fn func(db *database.DB) error) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := setup.NewLogger(cfg)

	db, err := database.New(cfg.Database.Driver, cfg.Database.DefaultConnection)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer db.Close()

	if err := fn(db); err != nil {
		logger.Error("migration command failed", "error", err)
		return err
	}
	logger.Info("migration command completed", "driver", db.Driver())
	return nil
}

func serve(opts *options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger := setup.NewLogger(cfg)
	slog.SetDefault(logger)

	db, err := setup.InitDatabase(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		return err
	}

	application := setup.InitApp(cfg, db, logger)

	fiberApp := setup.NewFiberApp(cfg, logger)
	setup.ApplyMiddleware(fiberApp, cfg, application.Metrics, logger)
	setup.RegisterRoutes(fiberApp, application)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env, "version", version)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- fiberApp.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
		setup.Shutdown(application, db, logger)
		return err
	case <-quit:
	}

	logger.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	setup.Shutdown(application, db, logger)
	logger.Info("server stopped")
	return nil
}
