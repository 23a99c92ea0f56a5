// worker consumes session lifecycle events from Kafka and records them in the
// audit log. Set KAFKA_BROKERS; topic and group default from config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"session-gate/internal/audit"
	auditrepo "session-gate/internal/audit/repository"
	"session-gate/internal/config"
	"session-gate/internal/db"
	"session-gate/internal/events"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	sink := audit.NewEventSink(auditrepo.NewPostgresRepository(database))
	consumer, err := events.NewKafkaConsumer(cfg.KafkaBrokersList(), cfg.KafkaTopic, cfg.KafkaGroupID, sink)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker consuming session events",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaGroupID),
	)
	return consumer.Run(ctx)
}
