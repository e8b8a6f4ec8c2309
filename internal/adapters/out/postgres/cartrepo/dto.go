// Package cartrepo maps cart aggregates to the carts and cart_items tables.
package cartrepo

import (
	"time"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartDTO is unique per customer; the index settles concurrent first adds.
type CartDTO struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex"`
	Items      []CartItemDTO `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (CartDTO) TableName() string {
	return "carts"
}

type CartItemDTO struct {
	CartID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (CartItemDTO) TableName() string {
	return "cart_items"
}

func fromDomain(aggregate *cart.Cart) CartDTO {
	return CartDTO{
		ID:         aggregate.ID().Bytes(),
		CustomerID: aggregate.CustomerID().Bytes(),
		Items:      itemsFromDomain(aggregate),
	}
}

func itemsFromDomain(aggregate *cart.Cart) []CartItemDTO {
	items := make([]CartItemDTO, 0, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items = append(items, CartItemDTO{
			CartID:    aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Position:  i,
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}
	return items
}

func toDomain(dto CartDTO) (*cart.Cart, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	items := make([]cart.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		price, itemErr := kernel.NewMoney(itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := cart.NewLineItem(productID, itemDTO.Quantity, price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return cart.RestoreCart(id, customerID, items, dto.UpdatedAt)
}
