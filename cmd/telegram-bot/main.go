package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookwise/internal/app"
	"cookwise/internal/config"
	"cookwise/internal/notify"
	"cookwise/internal/telegram"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		fatal("failed to load config", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		fatal("invalid telegram config", err)
	}
	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat)

	// 2. Initialize database and LLM
	ctx := context.Background()
	rt, err := app.NewRuntime(ctx, cfg)
	if err != nil {
		fatal("failed to initialize runtime", err)
	}
	defer rt.Close()

	// 3. Initialize Telegram Bot
	dispatcher := telegram.NewDispatcher(func(userID int64, n notify.Notifier) (*app.Session, error) {
		return rt.OpenSession(fmt.Sprintf("tg-%d", userID), n)
	})
	bot, err := telegram.NewBot(cfg, dispatcher, rt.Metrics)
	if err != nil {
		fatal("failed to initialize Telegram Bot", err)
	}

	// 4. Start Server with Graceful Shutdown
	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("telegram bot server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exiting")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
