// Package orderrepo maps order aggregates to the orders and order_items
// tables.
package orderrepo

import (
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_customer_created,priority:1"`
	Status      string          `gorm:"type:varchar(32);not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null;index:idx_orders_customer_created,priority:2"`
	UpdatedAt   time.Time
	Items       []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO keeps the line order of the aggregate in Position.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Position:  i,
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
			Subtotal:  item.Subtotal().Decimal(),
		})
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		CustomerID:  aggregate.CustomerID().Bytes(),
		Status:      aggregate.Status().String(),
		TotalAmount: aggregate.TotalAmount().Decimal(),
		CreatedAt:   aggregate.CreatedAt(),
		Items:       items,
	}
}

// toDomain expects dto.Items sorted by Position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(id, customerID, items, total, status, dto.CreatedAt)
}

func itemToDomain(dto OrderItemDTO) (order.LineItem, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.LineItem{}, err
	}

	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return order.LineItem{}, err
	}

	return order.RestoreLineItem(productID, dto.Quantity, unitPrice, subtotal)
}
