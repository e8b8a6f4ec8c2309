package ports

import (
	"context"
	"time"

	"eshop/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event serialized for delivery to the broker.
type OutboxMessage struct {
	ID          kernel.UUID
	Name        string
	AggregateID kernel.UUID
	Payload     []byte
	CreatedAt   time.Time
}

// OutboxRepository stores events in the same transaction as the aggregates
// that recorded them.
type OutboxRepository interface {
	Add(ctx context.Context, events ...kernel.DomainEvent) error

	// FetchPending returns up to limit unsent messages, oldest first. Inside
	// a transaction the rows are locked and skipped by concurrent relays.
	FetchPending(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkSent(ctx context.Context, ids []kernel.UUID, sentAt time.Time) error
}

// EventPublisher delivers outbox messages to consumers outside the core.
type EventPublisher interface {
	Publish(ctx context.Context, messages ...OutboxMessage) error
}
