package queries

import (
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrGetCartQueryIsNotConstructed = errors.New(
	"GetCartQuery must be created via NewGetCartQuery constructor",
)

type GetCartQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCartQuery(customerID kernel.UUID) (GetCartQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCartQuery{}, errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	return GetCartQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCartQuery) Validate() error {
	return q.guard.Validate(ErrGetCartQueryIsNotConstructed)
}

func (q GetCartQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetCartQueryResponse lists the cart lines in the order they were added.
type GetCartQueryResponse struct {
	CustomerID kernel.UUID
	Items      []CartLineView
	Total      kernel.Money
}
