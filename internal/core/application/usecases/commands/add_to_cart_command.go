package commands

import (
	"errors"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrAddToCartCommandIsNotConstructed = errors.New(
	"AddToCartCommand must be created via NewAddToCartCommand constructor",
)

// AddToCartCommand puts quantity units of a product into the customer's
// cart. The cart is created on first use.
//
// Example:
//
//	cmd, err := NewAddToCartCommand(customerID, productID, 2)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type AddToCartCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	productID  kernel.UUID
	quantity   int

	guard guard.ConstructorGuard
}

func NewAddToCartCommand(customerID, productID kernel.UUID, quantity int) (AddToCartCommand, error) {
	cmd := AddToCartCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setProductID(productID),
		cmd.setQuantity(quantity),
	); err != nil {
		return AddToCartCommand{}, err
	}

	return cmd, nil
}

func (c AddToCartCommand) Validate() error {
	return c.guard.Validate(ErrAddToCartCommandIsNotConstructed)
}

func (c AddToCartCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c AddToCartCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c AddToCartCommand) Quantity() int {
	return c.quantity
}

func (c *AddToCartCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	c.customerID = customerID
	return nil
}

func (c *AddToCartCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product id", err)
	}

	c.productID = productID
	return nil
}

func (c *AddToCartCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}
	if quantity > cart.MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, cart.MaxQuantity)
	}

	c.quantity = quantity
	return nil
}
