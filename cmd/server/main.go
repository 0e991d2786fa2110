package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"eventdiscovery/internal/logging"
	"eventdiscovery/internal/server"
)

func main() {
	// Load .env variables; fall back to the process environment.
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, using system environment variables")
	}

	logger := logging.NewTextLogger(os.Stdout, slog.LevelInfo)
	ctx := context.Background()

	cfg, err := server.LoadConfig()
	if err != nil {
		logger.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := server.OpenDB(cfg)
	if err != nil {
		logger.Error(ctx, "database init failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "database connected and migrated")

	srv := server.New(db, cfg, logger)

	logger.Info(ctx, "server starting", "addr", cfg.Addr)
	if err := srv.Router().Run(cfg.Addr); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
