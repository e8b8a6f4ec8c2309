package commands

import (
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrRemoveFromCartCommandIsNotConstructed = errors.New(
	"RemoveFromCartCommand must be created via NewRemoveFromCartCommand constructor",
)

type RemoveFromCartCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	productID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveFromCartCommand(customerID, productID kernel.UUID) (RemoveFromCartCommand, error) {
	cmd := RemoveFromCartCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setProductID(productID),
	); err != nil {
		return RemoveFromCartCommand{}, err
	}

	return cmd, nil
}

func (c RemoveFromCartCommand) Validate() error {
	return c.guard.Validate(ErrRemoveFromCartCommandIsNotConstructed)
}

func (c RemoveFromCartCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c RemoveFromCartCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c *RemoveFromCartCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	c.customerID = customerID
	return nil
}

func (c *RemoveFromCartCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product id", err)
	}

	c.productID = productID
	return nil
}
