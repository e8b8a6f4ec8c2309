package ports

import (
	"context"
	"time"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
)

// CartRepository persists Cart aggregates, one per customer.
type CartRepository interface {
	// Add inserts a cart created with cart.NewCart.
	Add(ctx context.Context, aggregate *cart.Cart) error

	// Update replaces the stored lines and stamps the update time.
	Update(ctx context.Context, aggregate *cart.Cart) error

	// GetByCustomer loads the customer's cart, or returns an
	// errs.ObjectNotFoundError when none exists yet. Inside a transaction the
	// cart row stays locked until commit.
	GetByCustomer(ctx context.Context, customerID kernel.UUID) (*cart.Cart, error)

	// ListStale finds carts last updated before an order of the same
	// customer, created after since, that still hold lines for that order's
	// products.
	ListStale(ctx context.Context, since time.Time) ([]StaleCart, error)
}

// StaleCart names cart lines left behind by a checkout whose cart update
// did not persist.
type StaleCart struct {
	CustomerID     kernel.UUID
	OrderID        kernel.UUID
	OrderCreatedAt time.Time
	ProductIDs     []kernel.UUID
}
