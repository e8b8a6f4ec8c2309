package ports

import (
	"context"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/product"
)

// Catalog resolves a product's current price. An absent product is reported
// as an errs.ObjectNotFoundError.
type Catalog interface {
	FindProduct(ctx context.Context, id kernel.UUID) (*product.Product, error)
}
