// Package kafka publishes outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"strings"

	"eshop/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Header keys set on every published record.
const (
	HeaderEventID   = "event_id"
	HeaderEventName = "event_name"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes each outbox message as one record keyed by aggregate id,
// so all events of an order land on one partition in creation order.
type Publisher struct {
	writer messageWriter
}

// NewWriter builds a synchronous writer for the comma separated broker list.
func NewWriter(brokersCSV, topic string) *kafka.Writer {
	brokers := make([]string, 0)
	for _, broker := range strings.Split(brokersCSV, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish returns once the broker acknowledged every message or the first
// write failed.
func (p *Publisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	records := make([]kafka.Message, 0, len(messages))
	for _, message := range messages {
		headers := []kafka.Header{
			{Key: HeaderEventID, Value: []byte(message.ID.String())},
			{Key: HeaderEventName, Value: []byte(message.Name)},
		}
		for key, value := range carrier {
			headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
		}

		records = append(records, kafka.Message{
			Key:     []byte(message.AggregateID.String()),
			Value:   message.Payload,
			Headers: headers,
			Time:    message.CreatedAt,
		})
	}

	return p.writer.WriteMessages(ctx, records...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
