package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/authflow/app"
	"github.com/dmitrymomot/authflow/app/migrations"
	"github.com/dmitrymomot/authflow/pkg/db"
	"github.com/dmitrymomot/authflow/pkg/job"
	"github.com/dmitrymomot/authflow/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations, including the job queue tables",
	RunE: withPool(func(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
		if err := db.Migrate(ctx, pool, migrations.FS, table, log); err != nil {
			return err
		}
		return job.Migrate(ctx, pool, log)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last applied migration",
	RunE: withPool(func(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
		return db.Rollback(ctx, pool, migrations.FS, table, log)
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	RunE: withPool(func(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
		return db.Status(ctx, pool, migrations.FS, table, log)
	}),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

type poolFunc func(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error

// withPool loads the database config, connects and runs fn.
func withPool(fn poolFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := app.LoadConfig[app.MigrateConfig](envFile)
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		defer pool.Close()

		return fn(ctx, pool, cfg.DB.MigrationsTable, log)
	}
}
