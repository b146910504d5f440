package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the catalog CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Book catalog service",
		Long: `Book catalog is an HTTP service for books, genres and user accounts
backed by MySQL or SQLite.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
