package queries

import (
	"context"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetAllOrdersQueryHandler reads order summaries straight from the orders
// tables, newest first.
type GetAllOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetAllOrdersQueryHandler(db *gorm.DB) GetAllOrdersQueryHandler {
	return GetAllOrdersQueryHandler{db: db}
}

func (h GetAllOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAllOrdersQuery,
) ([]GetAllOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	summaries := make([]GetAllOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_id,
			o.status,
			o.total_amount,
			COUNT(oi.product_id) AS item_count,
			o.created_at
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id
	`).Rows()
	if err != nil {
		return nil, errs.WrapPersistence("list all orders", err)
	}
	defer rows.Close()

	for rows.Next() {
		var summary GetAllOrdersQueryResponse
		var id, customerID uuid.UUID
		var total decimal.Decimal

		err = rows.Scan(
			&id,
			&customerID,
			&summary.Status,
			&total,
			&summary.ItemCount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, errs.WrapPersistence("scan order summary", err)
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		if summary.TotalAmount, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.WrapPersistence("list all orders", err)
	}

	return summaries, nil
}
