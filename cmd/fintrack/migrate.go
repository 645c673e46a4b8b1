package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/cli"
	"fintrack/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQLite schema migrations",
		Long: `Create or update the local SQLite database at SQLITE_DB_PATH.

The postgres backend's schema is owned by its hosting platform and is
never migrated from here.`,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("status", false, "show the applied version without migrating")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadAndValidateConfig(false)
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg, cmd.ErrOrStderr())
	if cfg.DataBackend != "sqlite" {
		return errors.New("migrate only applies to DATA_BACKEND=sqlite")
	}

	if status, _ := cmd.Flags().GetBool("status"); !status {
		logger.Info("Running database migrations", "database", cfg.SQLiteDBPath)
		if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
			return err
		}
	}

	version, dirty, err := storage.MigrationVersion(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
