package commands

import (
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrClearCartCommandIsNotConstructed = errors.New(
	"ClearCartCommand must be created via NewClearCartCommand constructor",
)

// ClearCartCommand empties the customer's cart. The cart itself is kept.
type ClearCartCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewClearCartCommand(customerID kernel.UUID) (ClearCartCommand, error) {
	if err := customerID.Validate(); err != nil {
		return ClearCartCommand{}, errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	return ClearCartCommand{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ClearCartCommand) Validate() error {
	return c.guard.Validate(ErrClearCartCommandIsNotConstructed)
}

func (c ClearCartCommand) CustomerID() kernel.UUID {
	return c.customerID
}
