package commands

import (
	"context"

	"eshop/internal/pkg/errs"
)

type UpdateCartQuantityCommandHandler struct {
	uowFactory CartUoWFactory
}

func NewUpdateCartQuantityCommandHandler(uowFactory CartUoWFactory) UpdateCartQuantityCommandHandler {
	return UpdateCartQuantityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns an errs.ObjectNotFoundError when the customer has no cart,
// or when a positive quantity targets a product that is not in the cart.
func (h UpdateCartQuantityCommandHandler) Handle(ctx context.Context, cmd UpdateCartQuantityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.WrapPersistence("begin cart transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()
	customerCart, err := cartRepo.GetByCustomer(ctx, cmd.CustomerID())
	if err != nil {
		return errs.WrapPersistence("load cart", err)
	}

	if err = customerCart.UpdateQuantity(cmd.ProductID(), cmd.Quantity()); err != nil {
		return err
	}

	if err = cartRepo.Update(ctx, customerCart); err != nil {
		return errs.WrapPersistence("save cart", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapPersistence("commit cart", err)
	}

	return nil
}
