package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookcatalog/backend/internal/config"
	"github.com/bookcatalog/backend/internal/database"
	"github.com/bookcatalog/backend/internal/logger"
	"github.com/bookcatalog/backend/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Apply pending migrations, create the configured administrator when none
exists and serve the HTTP API until interrupted.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	log := logger.Logger
	log.Info("Starting book catalog", zap.String("driver", cfg.Database.Driver))

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.Driver, log); err != nil {
		log.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	srv, err := server.New(cfg, db, log, server.Options{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.EnsureAdmin(ctx); err != nil {
		log.Error("Failed to create administrator", zap.Error(err))
		return err
	}

	return srv.Run(ctx)
}
