package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eventify/eventify-desk/internal/app"
	"github.com/eventify/eventify-desk/internal/config"
	"github.com/eventify/eventify-desk/internal/tray"
	"github.com/eventify/eventify-desk/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level(cfg.LogLevel)}))
	logger.Info("starting", "version", version.Version)

	application, err := app.New(cfg, tray.New("EventiFy Desk", nil, nil), logger)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}

func level(v string) slog.Level {
	switch v {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
