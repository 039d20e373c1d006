package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yannesss/finreport/internal/amqp"
	"github.com/yannesss/finreport/internal/config"
)

// Tails the transaction event queue and writes an audit log line per event.
// Keeps the queue drained when no other consumer is attached.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the event consumer")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting finreport event consumer",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = amqpClient.ConsumeEvents(ctx, func(event *amqp.TransactionEvent) error {
		switch event.Event {
		case amqp.EventReplaced:
			logger.Info("Ledger replaced", "count", event.Count, "at", event.Timestamp)
		default:
			logger.Info("Ledger mutated", "event", event.Event, "id", event.ID, "at", event.Timestamp)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Event consumer stopped gracefully")
}
