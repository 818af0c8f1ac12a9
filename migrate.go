package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/judyrop/shop-api/config"
	"github.com/judyrop/shop-api/database"
	"github.com/judyrop/shop-api/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *database.Migrator) error {
			return m.Up(ctx)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *database.Migrator) error {
			return m.Down(ctx)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *database.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "VERSION\tSTATE\tFILE")
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, state, s.Path)
			}
			return w.Flush()
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(ctx context.Context, fn func(context.Context, *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.IsLocal())

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	m, err := database.NewMigrator(db, cfg.Database.Driver, log)
	if err != nil {
		return err
	}
	return fn(ctx, m)
}
