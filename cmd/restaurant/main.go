package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/app"
	"github.com/vladislavdragonenkov/restaurant/internal/version"
)

// setupLogger настраивает формат и уровень логирования. Логи идут в stderr,
// stdout остаётся за выводом сценария.
func setupLogger(cfg app.Config) {
	log.SetOutput(os.Stderr)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func main() {
	cfg, warnings := readConfig()
	setupLogger(cfg)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"version":       version.GetVersion(),
		"metrics_addr":  cfg.MetricsAddr,
		"kafka_brokers": cfg.KafkaBrokers,
		"bulk_discount": cfg.BulkDiscount,
	}).Debug("запускаем restaurant")

	if err := app.Run(ctx, cfg, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}
}
