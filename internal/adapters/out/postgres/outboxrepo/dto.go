// Package outboxrepo stores serialized domain events until the relay hands
// them to the broker.
package outboxrepo

import (
	"time"

	"github.com/google/uuid"
)

type OutboxMessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"type:varchar(64);not null"`
	AggregateID uuid.UUID  `gorm:"type:uuid;not null"`
	Payload     string     `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_outbox_pending,priority:2"`
	SentAt      *time.Time `gorm:"index:idx_outbox_pending,priority:1"`
}

func (OutboxMessageDTO) TableName() string {
	return "outbox_messages"
}
