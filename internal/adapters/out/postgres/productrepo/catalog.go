package productrepo

import (
	"context"
	"errors"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/product"
	"eshop/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCatalog reads products straight from Postgres. Checkout prices orders
// through it so that a price is never older than the current row.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// Add inserts a product into the catalog.
func (c *GormCatalog) Add(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	return c.db.WithContext(ctx).Create(&dto).Error
}

// FindProduct returns an errs.ObjectNotFoundError for an unknown id.
func (c *GormCatalog) FindProduct(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
