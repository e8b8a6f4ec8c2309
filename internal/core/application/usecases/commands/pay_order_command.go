package commands

import (
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrPayOrderCommandIsNotConstructed = errors.New(
	"PayOrderCommand must be created via NewPayOrderCommand constructor",
)

// PayOrderCommand marks a pending order as paid. Payment itself happens
// elsewhere; this only records the transition.
type PayOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewPayOrderCommand(orderID kernel.UUID) (PayOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PayOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("order id", err)
	}

	return PayOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c PayOrderCommand) Validate() error {
	return c.guard.Validate(ErrPayOrderCommandIsNotConstructed)
}

func (c PayOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
