package ports

import (
	"context"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates.
//
// Orders are inserted once and afterwards only their status changes; the
// repository never rewrites lines or totals. Every read returns fully
// materialized line items.
type OrderRepository interface {
	// Add inserts a new order with its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update stores the order's current status. Returns an
	// errs.ObjectNotFoundError when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order by id. Inside a transaction the row is locked
	// until commit so concurrent pay/cancel calls serialize.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByCustomer returns the customer's orders, newest first. An
	// unknown customer yields an empty slice.
	ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)
}
