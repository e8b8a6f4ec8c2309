package queries

import (
	"context"
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of a customer.
type GetOrderQuery struct {
	customerID kernel.UUID
	orderID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(customerID, orderID kernel.UUID) (GetOrderQuery, error) {
	var customerErr, orderErr error
	if err := customerID.Validate(); err != nil {
		customerErr = errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	if err := orderID.Validate(); err != nil {
		orderErr = errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	if err := errors.Join(customerErr, orderErr); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		customerID: customerID,
		orderID:    orderID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) CustomerID() kernel.UUID {
	return q.customerID
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

type GetOrderQueryHandler struct {
	orders ports.OrderRepository
}

func NewGetOrderQueryHandler(orders ports.OrderRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

// Handle reports an order owned by someone else exactly like a missing one,
// so order ids cannot be probed across customers.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, errs.WrapPersistence("load order", err)
	}
	if !o.BelongsTo(query.CustomerID()) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return orderView(o), nil
}
