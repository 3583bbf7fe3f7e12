// File: cmd/transcriber/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"telegram-media-bots/internal/config"
	gw "telegram-media-bots/internal/infra/gateway"
	"telegram-media-bots/internal/infra/logging"
	"telegram-media-bots/internal/infra/memstore"
	"telegram-media-bots/internal/infra/metrics"
	red "telegram-media-bots/internal/infra/redis"
	tele "telegram-media-bots/internal/infra/telegram"
	"telegram-media-bots/internal/infra/web"
	"telegram-media-bots/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Gateway clients ----
	auth, err := gw.NewAuthClient(cfg.Auth.TokenURL, cfg.Auth.ClientID, cfg.Auth.ClientSecret, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("auth client")
	}
	audio, err := gw.NewAudioClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("audio client")
	}
	files, err := gw.NewFileShareClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("fileshare client")
	}

	// ---- Injection bus (optional) ----
	var bus usecase.InjectionPublisher
	if cfg.Redis.URL != "" {
		cli, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		b, err := red.NewInjectionBus(cli, cfg.Redis.Channel, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("injection bus")
		}
		bus = b
	}

	// ---- Use case ----
	dispatcher := usecase.NewDispatcher(files, auth, logger)
	poller := usecase.NewPoller(cfg.Jobs.PollInterval, cfg.Jobs.MaxWait, nil)
	uc := usecase.NewTranscribeUseCase(audio, auth, poller, dispatcher, bus, logger)

	// ---- Telegram ----
	settings := memstore.NewSettingsStore()
	bot, err := tele.NewBot(&cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	handler := tele.NewTranscriberHandler(bot, uc, settings, logger)
	go func() {
		if err := bot.StartPolling(ctx, handler); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()
	logger.Info().Str("bot", bot.Username()).Msg("transcriber bot started")

	// ---- Ops server ----
	ops := web.NewServer(cfg.Ops.Port, logger)
	go func() {
		if err := ops.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
}
