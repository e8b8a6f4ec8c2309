// Package productrepo persists catalog products and owns the conditional
// stock updates that back the stock ledger.
package productrepo

import (
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO maps the products table. The CHECK constraint keeps stock from
// going negative even if a write bypasses the ledger.
type ProductDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Price          decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	AvailableStock int             `gorm:"type:int;not null;check:chk_products_available_stock,available_stock >= 0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:             p.ID().Bytes(),
		Name:           p.Name(),
		Price:          p.Price().Decimal(),
		AvailableStock: p.AvailableStock(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	return product.NewProduct(id, dto.Name, price, dto.AvailableStock)
}
