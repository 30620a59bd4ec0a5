// The spendwise-worker consumes budget-alert messages and dispatches them as
// notifications. Delivery is a structured log line; swapping in mail or push
// delivery only means replacing the handler.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendwise/internal/amqp"
	"spendwise/internal/config"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "spendwise-worker"})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
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

	logger.Info("Starting budget alert worker", "queue", cfg.AMQPQueue)
	err = amqpClient.ConsumeBudgetAlerts(ctx, func(msg *amqp.BudgetAlertMessage) error {
		return dispatch(logger, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Alert consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func dispatch(logger *applog.Logger, msg *amqp.BudgetAlertMessage) error {
	switch msg.Tier {
	case core.Exceeded:
		logger.Warn("Budget exceeded",
			"username", msg.Username,
			"total_spent_cents", msg.TotalSpentCents,
			"limit_cents", msg.LimitCents,
			"overage_cents", msg.OverageCents)
	case core.Warning:
		logger.Warn("Budget warning",
			"username", msg.Username,
			"total_spent_cents", msg.TotalSpentCents,
			"limit_cents", msg.LimitCents,
			"percent_used", msg.PercentUsed)
	default:
		logger.Info("Budget notification",
			"username", msg.Username,
			"tier", string(msg.Tier))
	}
	return nil
}
