package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"employee-records/internal/app"
	"employee-records/internal/messaging/kafka"
	"employee-records/internal/messaging/kafka/producer"
	"employee-records/internal/shared/connection"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The relay worker drains the transactional outbox into kafka. It runs
// as its own process so the API stays a pure request/response service.
func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := app.LoadConfig()

	db, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword,
		cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		5,
	)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		logger.Fatal("kafka connection failed", zap.Error(err))
	}
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	repo := kafka.NewOutboxRepository(db)
	producer.NewRelay(repo, writer, cfg.OutboxPollInterval, logger).Run(ctx)
}
