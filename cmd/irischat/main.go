package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pranesh-rpo/IrisChat/config"
	"github.com/pranesh-rpo/IrisChat/internal/app"
	"github.com/pranesh-rpo/IrisChat/internal/logger"
)

func main() {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx, cfg); err != nil && ctx.Err() == nil {
		logger.L.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}
