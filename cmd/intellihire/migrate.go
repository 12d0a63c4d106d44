package main

import (
	"fmt"

	"github.com/jonathan/intellihire/internal/app"
	"github.com/jonathan/intellihire/internal/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	clients, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open clients: %w", err)
	}
	defer clients.Close()

	applied, err := clients.Migrate(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
	return nil
}
