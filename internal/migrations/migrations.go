// Package migrations embeds the SQL schema for each supported database
// driver and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

// Supported driver names. They match config.DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedDriver is returned for a driver without embedded migrations.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Status describes one migration and whether it has been applied.
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Runner applies the embedded migrations for one driver to a database.
type Runner struct {
	provider *goose.Provider
	driver   string
	logger   *slog.Logger
}

// NewRunner builds a Runner for db. The driver selects both the SQL dialect
// and the embedded migration directory.
func NewRunner(db *sql.DB, driver string, logger *slog.Logger) (*Runner, error) {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var dialect goose.Dialect
	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	fsys, err := fs.Sub(embedded, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations for %s: %w", driver, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{
		provider: provider,
		driver:   driver,
		logger:   logger.With(slog.String("component", "migrations"), slog.String("driver", driver)),
	}, nil
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) error {
	start := time.Now()
	results, err := r.provider.Up(ctx)
	if err != nil {
		r.logger.Error("failed to apply migrations", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, res := range results {
		r.logger.Info("applied migration",
			slog.Int64("version", res.Source.Version),
			slog.String("path", res.Source.Path),
			slog.Int64("duration_ms", res.Duration.Milliseconds()))
	}
	r.logger.Info("migrations up to date",
		slog.Int("applied", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// Down rolls back the most recently applied migration. It is a no-op when
// nothing is applied.
func (r *Runner) Down(ctx context.Context) error {
	res, err := r.provider.Down(ctx)
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			r.logger.Info("no migrations to roll back")
			return nil
		}
		r.logger.Error("failed to roll back migration", slog.String("error", err.Error()))
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.logger.Info("rolled back migration",
		slog.Int64("version", res.Source.Version),
		slog.String("path", res.Source.Path))
	return nil
}

// Status reports every embedded migration in version order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}
