package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/pkg/config"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "socialnet",
	Short: "Social network API server",
	Long: `socialnet serves the social network HTTP API and live notification channel.
Running it without a subcommand is the same as "socialnet serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, websocket hub and metrics listener",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL schema and MongoDB indexes, then exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, starts the logger and opens both databases
func bootstrap() (*config.Config, *config.DB, error) {
	cfg := config.Load()
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing databases: %w", err)
	}
	return cfg, db, nil
}

func migrate(ctx context.Context, db *config.DB) error {
	if err := repositories.AutoMigrate(db.Postgres); err != nil {
		return fmt.Errorf("migrating postgres: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := repositories.EnsureIndexes(ctx, db.Content); err != nil {
		return fmt.Errorf("creating mongo indexes: %w", err)
	}
	logger.Log.Info("Schema is up to date")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	defer db.CloseDB()

	if err := migrate(cmd.Context(), db); err != nil {
		logger.Log.Error("Migration failed", zap.Error(err))
		return err
	}
	return nil
}
