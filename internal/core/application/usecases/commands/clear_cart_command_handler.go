package commands

import (
	"context"
	"errors"

	"eshop/internal/pkg/errs"
)

type ClearCartCommandHandler struct {
	uowFactory CartUoWFactory
}

func NewClearCartCommandHandler(uowFactory CartUoWFactory) ClearCartCommandHandler {
	return ClearCartCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle is a no-op for a customer without a cart or with an empty one.
func (h ClearCartCommandHandler) Handle(ctx context.Context, cmd ClearCartCommand) error {
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
	if customerCart.IsEmpty() {
		return nil
	}

	customerCart.Clear()
	if err = cartRepo.Update(ctx, customerCart); err != nil {
		return errs.WrapPersistence("save cart", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapPersistence("commit cart", err)
	}

	return nil
}
