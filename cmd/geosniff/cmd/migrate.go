package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jmoiron/sqlx"
	"github.com/spatialworks/geosniff/internal/core/config"
	"github.com/spatialworks/geosniff/internal/core/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// openDatabase resolves the connection URL from the --db-url flag or the
// config file, in that order.
func openDatabase() (*sqlx.DB, error) {
	url := dbURL
	if url == "" {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		url = cfg.DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("--db-url or database.url required")
	}

	database, err := db.Open(url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.MigrateUp(database); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	statuses, err := db.MigrateStatus(database)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	for _, s := range statuses {
		if !s.Applied {
			yellow.Fprintf(out, "pending  %s\n", s.ID)
			continue
		}
		when := ""
		if s.AppliedAt != nil {
			when = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		green.Fprintf(out, "applied  %s  %s  (%dms)\n", s.ID, when, s.ExecutionMs)
	}
	return nil
}
