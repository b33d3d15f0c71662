package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"kriptoradar/bot"
	"kriptoradar/config"
	"kriptoradar/market"
)

func setupLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	setupLogging(cfg.Log)

	client := market.New(market.Options{
		BaseURL:       cfg.API.BaseURL,
		LocalCurrency: cfg.API.LocalCurrency,
		Timeout:       cfg.API.Timeout,
		Retries:       cfg.API.Retries,
	})

	svc := bot.NewService(client, bot.NewInflight(), cfg.Cache.TTL)

	tg, err := bot.NewTelegram(cfg.Telegram, svc)
	if err != nil {
		logrus.Fatalf("telegram setup failed: %v", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logrus.Info("shutting down")
		tg.Stop()
	}()

	tg.Start()
}
