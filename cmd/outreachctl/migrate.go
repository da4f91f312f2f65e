package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"outreach-backend/internal/shared/config"
	"outreach-backend/internal/shared/storage/db"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}
	cmd.AddCommand(
		migrateAction("up", "Apply pending migrations", db.RunMigrations),
		migrateAction("down", "Revert the latest migration", db.RollbackMigration),
		migrateAction("status", "Show migration status", db.MigrationStatus),
	)
	return cmd
}

func migrateAction(use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if strings.TrimSpace(cfg.DatabaseURL) == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer sqlDB.Close()
			return run(ctx, sqlDB)
		},
	}
}
