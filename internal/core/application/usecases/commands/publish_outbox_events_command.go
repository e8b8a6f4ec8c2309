package commands

import (
	"errors"

	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrPublishOutboxEventsCommandIsNotConstructed = errors.New(
	"PublishOutboxEventsCommand must be created via NewPublishOutboxEventsCommand constructor",
)

// PublishOutboxEventsCommand relays up to BatchSize unsent outbox messages.
type PublishOutboxEventsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewPublishOutboxEventsCommand(batchSize int) (PublishOutboxEventsCommand, error) {
	if batchSize <= 0 {
		return PublishOutboxEventsCommand{}, errs.NewValueIsInvalidError("batch size")
	}

	return PublishOutboxEventsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PublishOutboxEventsCommand) Validate() error {
	return c.guard.Validate(ErrPublishOutboxEventsCommandIsNotConstructed)
}

func (c PublishOutboxEventsCommand) BatchSize() int {
	return c.batchSize
}
