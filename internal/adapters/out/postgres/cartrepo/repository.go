package cartrepo

import (
	"context"
	"errors"
	"time"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements ports.CartRepository using GORM.
type GormCartRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormCartRepository(db *gorm.DB, tracker aggregateTracker) *GormCartRepository {
	return &GormCartRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormCartRepository) Add(ctx context.Context, aggregate *cart.Cart) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update replaces every stored line. The cart row is touched first so a
// missing cart is reported before any line is written.
func (r *GormCartRepository) Update(ctx context.Context, aggregate *cart.Cart) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID().Bytes()
	items := itemsFromDomain(aggregate)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&CartDTO{}).Where("id = ?", id).Update("updated_at", time.Now().UTC())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("cart", aggregate.ID().String())
		}

		if err := tx.Where("cart_id = ?", id).Delete(&CartItemDTO{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByCustomer locks the cart row when bound to a transaction so concurrent
// mutations of one cart serialize.
func (r *GormCartRepository) GetByCustomer(ctx context.Context, customerID kernel.UUID) (*cart.Cart, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dto CartDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "customer_id = ?", customerID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cart", customerID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

type staleCartRow struct {
	CustomerID     uuid.UUID
	OrderID        uuid.UUID
	OrderCreatedAt time.Time
	ProductIDs     pq.StringArray
}

const listStaleSQL = `
SELECT c.customer_id,
       o.id AS order_id,
       o.created_at AS order_created_at,
       array_agg(ci.product_id::text ORDER BY ci.position) AS product_ids
FROM orders o
JOIN carts c ON c.customer_id = o.customer_id
JOIN order_items oi ON oi.order_id = o.id
JOIN cart_items ci ON ci.cart_id = c.id AND ci.product_id = oi.product_id
WHERE o.created_at >= ? AND c.updated_at < o.created_at
GROUP BY c.customer_id, o.id, o.created_at
ORDER BY o.created_at, o.id`

// ListStale reports, per order, the cart lines a checkout meant to remove
// but whose cart was not updated after the order was stored.
func (r *GormCartRepository) ListStale(ctx context.Context, since time.Time) ([]ports.StaleCart, error) {
	var rows []staleCartRow
	if err := r.db.WithContext(ctx).Raw(listStaleSQL, since).Scan(&rows).Error; err != nil {
		return nil, err
	}

	stale := make([]ports.StaleCart, 0, len(rows))
	for _, row := range rows {
		customerID, err := kernel.UUIDFromBytes(row.CustomerID[:])
		if err != nil {
			return nil, err
		}
		orderID, err := kernel.UUIDFromBytes(row.OrderID[:])
		if err != nil {
			return nil, err
		}

		productIDs := make([]kernel.UUID, 0, len(row.ProductIDs))
		for _, raw := range row.ProductIDs {
			productID, err := kernel.UUIDFromString(raw)
			if err != nil {
				return nil, err
			}
			productIDs = append(productIDs, productID)
		}

		stale = append(stale, ports.StaleCart{
			CustomerID:     customerID,
			OrderID:        orderID,
			OrderCreatedAt: row.OrderCreatedAt,
			ProductIDs:     productIDs,
		})
	}

	return stale, nil
}
