package queries

import (
	"context"
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
)

// GetCartQueryHandler reads a customer's cart. A customer who never added
// anything gets an empty cart with a zero total.
type GetCartQueryHandler struct {
	carts ports.CartRepository
}

func NewGetCartQueryHandler(carts ports.CartRepository) GetCartQueryHandler {
	return GetCartQueryHandler{carts: carts}
}

func (h GetCartQueryHandler) Handle(ctx context.Context, query GetCartQuery) (GetCartQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCartQueryResponse{}, err
	}

	response := GetCartQueryResponse{
		CustomerID: query.CustomerID(),
		Items:      []CartLineView{},
		Total:      kernel.ZeroMoney(),
	}

	c, err := h.carts.GetByCustomer(ctx, query.CustomerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return response, nil
	}
	if err != nil {
		return GetCartQueryResponse{}, errs.WrapPersistence("load cart", err)
	}

	response.Items = cartLineViews(c)
	response.Total = c.Total()
	return response, nil
}
