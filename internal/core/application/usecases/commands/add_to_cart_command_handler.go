package commands

import (
	"context"
	"errors"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
)

// AddToCartCommandHandler snapshots the product's current catalog price into
// a new cart line, or accumulates quantity on an existing line while keeping
// its original snapshot.
type AddToCartCommandHandler struct {
	uowFactory CartUoWFactory
	catalog    ports.Catalog
}

func NewAddToCartCommandHandler(uowFactory CartUoWFactory, catalog ports.Catalog) AddToCartCommandHandler {
	return AddToCartCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle returns an errs.ObjectNotFoundError for an unknown product.
func (h AddToCartCommandHandler) Handle(ctx context.Context, cmd AddToCartCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	product, err := h.catalog.FindProduct(ctx, cmd.ProductID())
	if err != nil {
		return errs.WrapPersistence("find product", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return errs.WrapPersistence("begin cart transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()
	customerCart, created, err := loadOrCreateCart(ctx, cartRepo, cmd.CustomerID())
	if err != nil {
		return err
	}

	if err = customerCart.AddItem(cmd.ProductID(), cmd.Quantity(), product.Price()); err != nil {
		return err
	}

	if created {
		err = cartRepo.Add(ctx, customerCart)
	} else {
		err = cartRepo.Update(ctx, customerCart)
	}
	if err != nil {
		return errs.WrapPersistence("save cart", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapPersistence("commit cart", err)
	}

	return nil
}

// loadOrCreateCart returns the customer's cart, or a fresh unsaved one and
// true when the customer has none yet.
func loadOrCreateCart(
	ctx context.Context,
	repo ports.CartRepository,
	customerID kernel.UUID,
) (*cart.Cart, bool, error) {
	existing, err := repo.GetByCustomer(ctx, customerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, errs.WrapPersistence("load cart", err)
	}

	fresh, err := cart.NewCart(kernel.NewUUID(), customerID)
	if err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}
