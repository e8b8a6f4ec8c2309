package queries

import (
	"context"
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
	"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
)

type GetCustomerOrdersQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCustomerOrdersQuery(customerID kernel.UUID) (GetCustomerOrdersQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	return GetCustomerOrdersQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

func (q GetCustomerOrdersQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetCustomerOrdersQueryHandler lists a customer's orders, newest first.
type GetCustomerOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewGetCustomerOrdersQueryHandler(orders ports.OrderRepository) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{orders: orders}
}

// Handle never returns a nil slice on success.
func (h GetCustomerOrdersQueryHandler) Handle(ctx context.Context, query GetCustomerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	found, err := h.orders.ListByCustomer(ctx, query.CustomerID())
	if err != nil {
		return nil, errs.WrapPersistence("list orders", err)
	}

	views := make([]OrderView, 0, len(found))
	for _, o := range found {
		views = append(views, orderView(o))
	}
	return views, nil
}
