package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/app"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/config"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("marketplace-backoffice", cfg.LogLevel)
	log.Info("starting marketplace back-office",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("marketplace back-office stopped")
}
