package outboxrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add serializes each event as JSON. The event's own value is the payload,
// so its json tags define the wire format.
func (r *GormOutboxRepository) Add(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]OutboxMessageDTO, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("event payload",
				fmt.Errorf("marshal %s: %w", event.EventName(), err))
		}

		dtos = append(dtos, OutboxMessageDTO{
			ID:          event.EventID().Bytes(),
			Name:        event.EventName(),
			AggregateID: event.AggregateID().Bytes(),
			Payload:     string(payload),
			CreatedAt:   event.OccurredAt(),
		})
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FetchPending skips rows locked by another relay transaction, so several
// relays never hand out the same message concurrently.
func (r *GormOutboxRepository) FetchPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidError("limit")
	}

	var dtos []OutboxMessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("sent_at IS NULL").
		Order("created_at").
		Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
		if err != nil {
			return nil, err
		}

		messages = append(messages, ports.OutboxMessage{
			ID:          id,
			Name:        dto.Name,
			AggregateID: aggregateID,
			Payload:     []byte(dto.Payload),
			CreatedAt:   dto.CreatedAt,
		})
	}

	return messages, nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, ids []kernel.UUID, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	return r.db.WithContext(ctx).
		Model(&OutboxMessageDTO{}).
		Where("id IN ?", raw).
		Update("sent_at", sentAt).Error
}
