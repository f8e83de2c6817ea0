package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lingocards/lingo-api/internal/api/middleware"
	"github.com/lingocards/lingo-api/internal/config"
	"github.com/lingocards/lingo-api/internal/domain/weight"
	"github.com/lingocards/lingo-api/internal/generation"
	"github.com/lingocards/lingo-api/internal/migrations"
	"github.com/lingocards/lingo-api/internal/platform/gemini"
	"github.com/lingocards/lingo-api/internal/platform/openrouter"
	"github.com/lingocards/lingo-api/internal/platform/postgres"
	"github.com/lingocards/lingo-api/internal/platform/sqlite"
	"github.com/lingocards/lingo-api/internal/ratelimit"
	"github.com/lingocards/lingo-api/internal/service"
	"github.com/lingocards/lingo-api/internal/service/auth"
	"github.com/lingocards/lingo-api/internal/service/study"
	"github.com/lingocards/lingo-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	cardStore   store.CardStore
	reviewStore store.ReviewStore

	jwtService   auth.JWTService
	studyService study.Service
	cardService  service.CardService
	suggestions  *generation.Service
	limiter      *ratelimit.Store
}

// newApplication wires stores and services around an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.cardStore, app.reviewStore, err = newStores(cfg.Database.Driver, db, logger)
	if err != nil {
		return nil, err
	}
	tx := store.NewTransactor(db)

	studyOpts, err := studyOptions(cfg.Study)
	if err != nil {
		return nil, err
	}
	weights := weight.NewServiceWithParams(weight.NewParams(weight.ParamsConfig{
		Floor:               cfg.Study.MinWeight,
		Ceiling:             cfg.Study.MaxWeight,
		CorrectMultiplier:   cfg.Study.CorrectMultiplier,
		IncorrectMultiplier: cfg.Study.IncorrectMultiplier,
		SkippedMultiplier:   cfg.Study.SkippedMultiplier,
	}))
	app.studyService = study.NewService(app.cardStore, app.reviewStore, tx, weights, logger, studyOpts...)

	app.cardService, err = service.NewCardService(app.cardStore, tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	generator, err := newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	app.suggestions = generation.NewService(generator, logger)

	app.limiter = ratelimit.NewStore(map[string]int{
		middleware.EndpointAIGenerate: cfg.RateLimit.GeneratePerHour,
		middleware.EndpointAIAccept:   cfg.RateLimit.AcceptPerHour,
	}, time.Duration(cfg.RateLimit.IdleTTLMinutes)*time.Minute)

	logger.Info("application initialized",
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("llm_provider", cfg.LLM.Provider))
	return app, nil
}

func newStores(driver string, db *sql.DB, logger *slog.Logger) (store.CardStore, store.ReviewStore, error) {
	switch driver {
	case migrations.DriverPostgres:
		return postgres.NewPostgresCardStore(db, logger), postgres.NewPostgresReviewStore(db, logger), nil
	case migrations.DriverSQLite:
		return sqlite.NewCardStore(db, logger), sqlite.NewReviewStore(db, logger), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", migrations.ErrUnsupportedDriver, driver)
	}
}

func studyOptions(cfg config.StudyConfig) ([]study.Option, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load study timezone %q: %w", cfg.Timezone, err)
	}

	opts := []study.Option{study.WithLocation(loc)}
	if cfg.RandomSeed != 0 {
		opts = append(opts, study.WithRand(rand.New(rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed))))
	}
	return opts, nil
}

// newGenerator selects the suggestion provider. Without one, AI endpoints
// answer 503 and everything else keeps working.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewGeminiGenerator(ctx, logger, cfg)
	case "openrouter":
		return openrouter.NewGenerator(logger, cfg)
	default:
		logger.Warn("no LLM provider configured, AI suggestions are disabled")
		return generation.Disabled{}, nil
	}
}

// Run serves HTTP and sweeps idle rate limit buckets until ctx is cancelled
// or the server fails.
func (app *application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sweep := time.Duration(app.config.RateLimit.SweepIntervalMinutes) * time.Minute
		app.limiter.Run(ctx, sweep, app.logger)
		return nil
	})
	g.Go(func() error {
		return app.startHTTPServer(ctx, app.setupRouter())
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
