package main

import (
	"fmt"

	"github.com/bookcatalog/backend/internal/config"
	"github.com/bookcatalog/backend/internal/database"
	"github.com/bookcatalog/backend/internal/logger"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the configured MySQL or SQLite database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cmd.Println("Connecting to database...")
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cmd.Println("Running migrations...")
	if err := database.Migrate(db, cfg.Database.Driver, logger.Logger); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
