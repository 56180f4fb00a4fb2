package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/config"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
	"github.com/xavierca1/lead-outreach/internal/logger"
)

// eventLogger records every consumed email event.
type eventLogger struct {
	log *zap.Logger
}

func (h eventLogger) Handle(_ context.Context, event queue.EmailEvent) error {
	if event.Type == "" || event.HistoryID == "" {
		return errors.New("event without type or history id")
	}

	middleware.RecordEmailEvent(event.Type)
	h.log.Info("email event",
		zap.String("type", event.Type),
		zap.String("history_id", event.HistoryID),
		zap.String("owner_id", event.OwnerID),
		zap.String("lead_id", event.LeadID),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if cfg.MQ.URL == "" {
		return errors.New("AMQP_URL is required for the worker")
	}

	mq, err := queue.NewRabbitMQ(cfg.MQ.URL)
	if err != nil {
		return err
	}
	defer mq.Close()

	if err := mq.Ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := queue.NewWorker(mq.Ch, eventLogger{log: log}, log)
	return worker.Start(ctx, queue.QueueName)
}
