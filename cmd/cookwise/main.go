package main

import (
	"context"
	"fmt"
	"log/slog"

	"cookwise/internal/app"
	"cookwise/internal/cli"
	"cookwise/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment")
	}

	cli.Execute(func(ctx context.Context) (*app.Runtime, error) {
		cfg, err := config.NewFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		app.NewLogger(cfg.LogLevel, cfg.LogFormat)
		return app.NewRuntime(ctx, cfg)
	})
}
