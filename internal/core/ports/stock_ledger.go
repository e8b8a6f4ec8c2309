package ports

import (
	"context"

	"eshop/internal/core/domain/model/kernel"
)

// StockLedger is the only mutator of a product's available stock.
type StockLedger interface {
	// Reserve decrements available stock by quantity in one conditional
	// step. It returns false, with no side effect, when stock is
	// insufficient or the product is unknown. The error is reserved for
	// invalid input and infrastructure failures.
	Reserve(ctx context.Context, productID kernel.UUID, quantity int) (bool, error)

	// Release increments available stock by quantity unconditionally.
	// Callers guarantee it runs at most once per reservation.
	Release(ctx context.Context, productID kernel.UUID, quantity int) error
}
