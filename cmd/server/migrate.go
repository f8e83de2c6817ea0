package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/lingocards/lingo-api/internal/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrationRunner(cmd.Context(), opts, func(ctx context.Context, r *migrations.Runner) error {
					return r.Up(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrationRunner(cmd.Context(), opts, func(ctx context.Context, r *migrations.Runner) error {
					return r.Down(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrationRunner(cmd.Context(), opts, func(ctx context.Context, r *migrations.Runner) error {
					statuses, err := r.Status(ctx)
					if err != nil {
						return err
					}
					return writeMigrationStatus(cmd.OutOrStdout(), statuses)
				})
			},
		},
	)
	return cmd
}

// withMigrationRunner opens the configured database, runs fn against a
// migration runner and closes the connection.
func withMigrationRunner(
	ctx context.Context,
	opts *cliOptions,
	fn func(ctx context.Context, r *migrations.Runner) error,
) error {
	cfg, l, err := initializeApp(opts)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner, err := migrations.NewRunner(db, cfg.Database.Driver, l)
	if err != nil {
		return err
	}
	return fn(ctx, runner)
}

// migrateUp applies pending migrations on an already open database.
func migrateUp(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	runner, err := migrations.NewRunner(db, driver, logger)
	if err != nil {
		return err
	}
	return runner.Up(ctx)
}

func writeMigrationStatus(out io.Writer, statuses []migrations.Status) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range statuses {
		state, appliedAt := "pending", "-"
		if s.Applied {
			state = "applied"
			appliedAt = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, state, appliedAt, s.Path)
	}
	return tw.Flush()
}
