package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventSent    = "email.sent"
	EventFailed  = "email.failed"
	EventOpened  = "email.opened"
	EventClicked = "email.clicked"
)

type EmailEvent struct {
	Type       string    `json:"type"`
	HistoryID  string    `json:"history_id"`
	TrackID    string    `json:"track_id"`
	OwnerID    string    `json:"owner_id"`
	LeadID     string    `json:"lead_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch channelPublisher
}

func NewProducer(ch channelPublisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Publish(ctx context.Context, event EmailEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// NoopProducer is used when no broker is configured.
type NoopProducer struct{}

func (NoopProducer) Publish(context.Context, EmailEvent) error { return nil }
