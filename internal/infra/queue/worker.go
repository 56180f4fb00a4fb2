package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type EventHandler interface {
	Handle(ctx context.Context, event EmailEvent) error
}

type channelConsumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel channelConsumer
	Handler EventHandler
	Log     *zap.Logger
}

func NewWorker(ch channelConsumer, handler EventHandler, log *zap.Logger) *Worker {
	return &Worker{Channel: ch, Handler: handler, Log: log}
}

// Start consumes until ctx is cancelled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Log.Info("worker consuming", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.process(ctx, d)
		}
	}
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	var event EmailEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Log.Warn("worker: malformed event", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.Handler.Handle(ctx, event); err != nil {
		w.Log.Error("worker: handler failed",
			zap.String("type", event.Type),
			zap.String("history_id", event.HistoryID),
			zap.Error(err),
		)
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}
