package queries

import (
	"context"
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrGetCartTotalQueryIsNotConstructed = errors.New(
	"GetCartTotalQuery must be created via NewGetCartTotalQuery constructor",
)

type GetCartTotalQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCartTotalQuery(customerID kernel.UUID) (GetCartTotalQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCartTotalQuery{}, errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	return GetCartTotalQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCartTotalQuery) Validate() error {
	return q.guard.Validate(ErrGetCartTotalQueryIsNotConstructed)
}

func (q GetCartTotalQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetCartTotalQueryHandler sums quantity times price snapshot over the
// customer's cart lines.
type GetCartTotalQueryHandler struct {
	carts ports.CartRepository
}

func NewGetCartTotalQueryHandler(carts ports.CartRepository) GetCartTotalQueryHandler {
	return GetCartTotalQueryHandler{carts: carts}
}

// Handle returns zero for a customer without a cart.
func (h GetCartTotalQueryHandler) Handle(ctx context.Context, query GetCartTotalQuery) (kernel.Money, error) {
	if err := query.Validate(); err != nil {
		return kernel.Money{}, err
	}

	c, err := h.carts.GetByCustomer(ctx, query.CustomerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.ZeroMoney(), nil
	}
	if err != nil {
		return kernel.Money{}, errs.WrapPersistence("load cart", err)
	}

	return c.Total(), nil
}
