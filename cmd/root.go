package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/steelfist/internal/config"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository/postgres"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository/sqlite"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "steelfist",
	Short:         "Gym registration and capacity service",
	Long:          `steelfist manages gym members, coaches, courses and course registrations, enforcing each course's capacity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		slog.SetDefault(slog.New(cfg.Log.Handler(os.Stderr)))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./steelfist.yaml)")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// openStore connects the configured store and brings its schema up to date.
func openStore(ctx context.Context, db config.DatabaseConfig) (repository.Store, error) {
	switch db.Driver {
	case config.DriverPostgres:
		return postgres.Open(ctx, db)
	case config.DriverSQLite:
		return sqlite.Open(ctx, db.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}
