// Package main implements the lingo-api server binary. It serves the
// flashcard study API and carries maintenance commands for schema
// migrations and development tokens.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lingocards/lingo-api/internal/config"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// cliOptions holds the flags shared by every command.
type cliOptions struct {
	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "lingo-api",
		Short:         "Language flashcard study API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to a config file (default ./config.yaml when present)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newTokenCommand(opts),
	)
	return root
}

func newServeCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp(opts *cliOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("llm_provider", cfg.LLM.Provider))
	return cfg, l, nil
}

// runServe opens the database, wires the application and serves until ctx
// is cancelled.
func runServe(ctx context.Context, opts *cliOptions) error {
	cfg, l, err := initializeApp(opts)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := migrateUp(ctx, db, cfg.Database.Driver, l); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}
