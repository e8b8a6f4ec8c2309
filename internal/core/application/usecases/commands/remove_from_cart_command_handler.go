package commands

import (
	"context"
	"errors"

	"eshop/internal/pkg/errs"
)

// RemoveFromCartCommandHandler drops a line from the cart. Removing a
// product that is not in the cart, or from a customer without a cart,
// succeeds without writing anything.
type RemoveFromCartCommandHandler struct {
	uowFactory CartUoWFactory
}

func NewRemoveFromCartCommandHandler(uowFactory CartUoWFactory) RemoveFromCartCommandHandler {
	return RemoveFromCartCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RemoveFromCartCommandHandler) Handle(ctx context.Context, cmd RemoveFromCartCommand) error {
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
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return errs.WrapPersistence("load cart", err)
	}

	if _, ok := customerCart.Item(cmd.ProductID()); !ok {
		return nil
	}
	customerCart.RemoveItem(cmd.ProductID())

	if err = cartRepo.Update(ctx, customerCart); err != nil {
		return errs.WrapPersistence("save cart", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapPersistence("commit cart", err)
	}

	return nil
}
