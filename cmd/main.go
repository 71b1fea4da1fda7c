package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"adscore-bot/config"
	"adscore-bot/internal/api/rest"
	"adscore-bot/internal/api/telegram"
	"adscore-bot/internal/container"
	"adscore-bot/internal/infrastructure/logging"
)

func main() {
	cfg, err := config.Load()
	log := logging.New(logging.Options{Level: "info"})
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log = logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Env: cfg.AppEnv})

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, log, container.Deps{})
	if err != nil {
		log.WithError(err).Fatal("failed to build container")
	}

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.SessionService, appContainer.CreativeService, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create bot")
	}

	// HTTP API и метрики рядом с ботом
	server := rest.NewServer(appContainer.CreativeService, appContainer.Metrics.Handler(), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(ctx) })
	g.Go(func() error { return server.Run(ctx, cfg.HTTPAddr) })

	log.Info("bot is running")
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("stopped with error")
	}
	log.Info("bot stopped")
}
