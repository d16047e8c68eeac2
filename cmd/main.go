package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ecommerce-trend-analyzer/config"
)

func main() {
	// Load environment variables from a .env file when present
	_ = godotenv.Load()

	// Get the configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err.Error())
		os.Exit(1)
	}

	// Create the logger at the configured level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	app := New(&cfg, logger)

	if err := app.Run(); err != nil {
		logger.Error("application stopped with error", "err", err.Error())
		os.Exit(1)
	}
}

func parseLogLevel(levelStr string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return slog.LevelInfo
	}
	return level
}
