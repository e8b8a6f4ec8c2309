// Package queries contains the read side: cart contents and totals, single
// orders with their lines, a customer's order history and an order summary
// across all customers. Queries never create or change rows.
package queries

import (
	"time"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"
)

type CartLineView struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
	Subtotal  kernel.Money
}

type OrderLineView struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
	Subtotal  kernel.Money
}

// OrderView is an order with every line materialized.
type OrderView struct {
	ID          kernel.UUID
	CustomerID  kernel.UUID
	Status      string
	TotalAmount kernel.Money
	CreatedAt   time.Time
	Items       []OrderLineView
}

func cartLineViews(c *cart.Cart) []CartLineView {
	items := c.Items()
	views := make([]CartLineView, 0, len(items))
	for _, item := range items {
		views = append(views, CartLineView{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Subtotal:  item.Subtotal(),
		})
	}
	return views
}

func orderView(o *order.Order) OrderView {
	items := o.Items()
	lines := make([]OrderLineView, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLineView{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Subtotal:  item.Subtotal(),
		})
	}

	return OrderView{
		ID:          o.ID(),
		CustomerID:  o.CustomerID(),
		Status:      o.Status().String(),
		TotalAmount: o.TotalAmount(),
		CreatedAt:   o.CreatedAt(),
		Items:       lines,
	}
}
