package queries

import (
	"errors"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/guard"
)

var ErrGetAllOrdersQueryIsNotConstructed = errors.New(
	"GetAllOrdersQuery must be created via NewGetAllOrdersQuery constructor",
)

// GetAllOrdersQuery lists every order across customers for back-office use.
type GetAllOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAllOrdersQuery() GetAllOrdersQuery {
	return GetAllOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetAllOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllOrdersQueryIsNotConstructed)
}

// GetAllOrdersQueryResponse summarizes one order without its lines.
type GetAllOrdersQueryResponse struct {
	ID          kernel.UUID
	CustomerID  kernel.UUID
	Status      string
	TotalAmount kernel.Money
	ItemCount   int
	CreatedAt   time.Time
}
