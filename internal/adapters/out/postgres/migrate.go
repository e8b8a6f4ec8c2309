package postgres

import (
	"eshop/internal/adapters/out/postgres/cartrepo"
	"eshop/internal/adapters/out/postgres/orderrepo"
	"eshop/internal/adapters/out/postgres/outboxrepo"
	"eshop/internal/adapters/out/postgres/productrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&productrepo.ProductDTO{},
		&cartrepo.CartDTO{},
		&cartrepo.CartItemDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&outboxrepo.OutboxMessageDTO{},
	)
}
