package commands

import (
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrCheckoutCommandIsNotConstructed = errors.New(
	"CheckoutCommand must be created via NewCheckoutCommand constructor",
)

// CheckoutCommand turns the selected lines of a customer's cart into an
// order. Duplicate product ids in the selection are ignored. An empty
// selection is accepted here and refused by the handler.
//
// Example:
//
//	cmd, err := NewCheckoutCommand(customerID, []kernel.UUID{p1, p2})
//	if err != nil {
//	    return err
//	}
//	placed, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrNoSelection):
//	    // nothing to buy
//	case errors.Is(err, errs.ErrInsufficientStock):
//	    // no stock was taken
//	}
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	productIDs []kernel.UUID

	guard guard.ConstructorGuard
}

func NewCheckoutCommand(customerID kernel.UUID, productIDs []kernel.UUID) (CheckoutCommand, error) {
	cmd := CheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setProductIDs(productIDs),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return cmd, nil
}

func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

func (c CheckoutCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// ProductIDs returns the distinct selected product ids in request order.
func (c CheckoutCommand) ProductIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.productIDs))
	copy(ids, c.productIDs)
	return ids
}

func (c *CheckoutCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	c.customerID = customerID
	return nil
}

func (c *CheckoutCommand) setProductIDs(productIDs []kernel.UUID) error {
	distinct := make([]kernel.UUID, 0, len(productIDs))
	seen := make(map[kernel.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("product ids", err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	c.productIDs = distinct
	return nil
}
