package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers the pgx database/sql driver
	"github.com/lingocards/lingo-api/internal/config"
	"github.com/lingocards/lingo-api/internal/migrations"
	"github.com/lingocards/lingo-api/internal/platform/sqlite"
	"github.com/lingocards/lingo-api/internal/redact"
)

const pingTimeout = 5 * time.Second

// openDatabase connects to the configured backend and verifies the
// connection. Pool settings apply to postgres only; the sqlite store always
// runs on a single connection.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case migrations.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
	case migrations.DriverPostgres:
		db, err = sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
		}
	default:
		return nil, fmt.Errorf("%w: %q", migrations.ErrUnsupportedDriver, cfg.Driver)
	}

	logger.Info("database connection established",
		slog.String("driver", cfg.Driver),
		slog.String("url", redact.String(cfg.URL)))
	return db, nil
}
