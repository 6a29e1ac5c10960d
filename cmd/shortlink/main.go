package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"
	"github.com/vadimbarashkov/shortlink/internal/app"
	"github.com/vadimbarashkov/shortlink/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A missing .env is fine, CONFIG_PATH may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	logger := httplog.NewLogger("shortlink", httplog.Options{
		JSON:     cfg.Env == config.EnvProd,
		LogLevel: cfg.SlogLevel(),
		Concise:  cfg.Env == config.EnvDev,
	})

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("application stopped with error", "err", err)
		os.Exit(1)
	}
}
