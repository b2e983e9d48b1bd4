package messaging

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes outbox events to the reservation events topic.
// Messages are keyed by resource id so events of one resource stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  false,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			MaxAttempts:            3,
			WriteTimeout:           10 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []shared.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		messages = append(messages, kafka.Message{
			Key:   []byte(ev.ResourceID.String()),
			Value: ev.Payload,
			Time:  ev.CreatedAt,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(ev.Type)},
				{Key: "reservation-id", Value: []byte(ev.ReservationID.String())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		slog.Error("failed to publish reservation events",
			"count", len(events),
			"topic", p.writer.Topic,
			"error", err.Error())
		return errs.Wrap(err, "failed to publish reservation events")
	}

	slog.Debug("published reservation events", "count", len(events), "topic", p.writer.Topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
