package commands

import (
	"errors"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrUpdateCartQuantityCommandIsNotConstructed = errors.New(
	"UpdateCartQuantityCommand must be created via NewUpdateCartQuantityCommand constructor",
)

// UpdateCartQuantityCommand overwrites the quantity of a cart line. A
// quantity of zero or less removes the line.
type UpdateCartQuantityCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	productID  kernel.UUID
	quantity   int

	guard guard.ConstructorGuard
}

func NewUpdateCartQuantityCommand(
	customerID, productID kernel.UUID,
	quantity int,
) (UpdateCartQuantityCommand, error) {
	cmd := UpdateCartQuantityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setProductID(productID),
		cmd.setQuantity(quantity),
	); err != nil {
		return UpdateCartQuantityCommand{}, err
	}

	return cmd, nil
}

func (c UpdateCartQuantityCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCartQuantityCommandIsNotConstructed)
}

func (c UpdateCartQuantityCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c UpdateCartQuantityCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c UpdateCartQuantityCommand) Quantity() int {
	return c.quantity
}

func (c *UpdateCartQuantityCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	c.customerID = customerID
	return nil
}

func (c *UpdateCartQuantityCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product id", err)
	}

	c.productID = productID
	return nil
}

// setQuantity accepts any value up to cart.MaxQuantity; zero or less means
// remove.
func (c *UpdateCartQuantityCommand) setQuantity(quantity int) error {
	if quantity > cart.MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, cart.MaxQuantity)
	}

	c.quantity = quantity
	return nil
}
