package commands

import (
	"context"
	"fmt"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/metrics"
)

// PublishOutboxEventsCommandHandler delivers pending outbox messages, oldest
// first, and marks them sent in the transaction that locked them.
//
// Delivery is at least once. Publishing stops at the first failure; messages
// published before it are still marked sent and the rest are retried on the
// next run.
type PublishOutboxEventsCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewPublishOutboxEventsCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.EventPublisher,
	m *metrics.Metrics,
) PublishOutboxEventsCommandHandler {
	return PublishOutboxEventsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle returns how many messages were published.
func (h PublishOutboxEventsCommandHandler) Handle(ctx context.Context, cmd PublishOutboxEventsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, errs.WrapPersistence("begin outbox transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()
	pending, err := outbox.FetchPending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, errs.WrapPersistence("fetch pending events", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	sent := make([]kernel.UUID, 0, len(pending))
	var publishErr error
	for _, message := range pending {
		if err = h.publisher.Publish(ctx, message); err != nil {
			publishErr = fmt.Errorf("publish %s %s: %w", message.Name, message.ID, err)
			break
		}
		sent = append(sent, message.ID)
	}

	if len(sent) == 0 {
		return 0, publishErr
	}

	if err = outbox.MarkSent(ctx, sent, h.now()); err != nil {
		return 0, errs.WrapPersistence("mark events sent", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, errs.WrapPersistence("commit outbox", err)
	}

	h.metrics.ObserveOutboxPublished(len(sent))
	return len(sent), publishErr
}
