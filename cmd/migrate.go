package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/steelfist/internal/config"
	"github.com/Shivanand-hulikatti/steelfist/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *database.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			slog.Info("schema up to date")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert every migration, dropping all data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *database.Migrator) error {
			if err := m.Down(); err != nil {
				return err
			}
			slog.Info("schema reverted")
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *database.Migrator) error {
			v, dirty, ok, err := m.Version()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				_, err = fmt.Fprintln(out, "no migrations applied")
				return err
			}
			_, err = fmt.Fprintf(out, "version %d (dirty: %t)\n", v, dirty)
			return err
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

// withMigrator runs fn against a migrator for the configured database.
func withMigrator(ctx context.Context, fn func(*database.Migrator) error) error {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		m, err := database.NewPostgresMigrator(cfg.Database.PostgresDSN())
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		return fn(m)
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		m, err := database.NewSQLiteMigrator(db)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		return fn(m)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
