package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate during a state change.
// Events are collected by the unit of work and stored in the outbox in the
// same transaction as the aggregate itself.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}
