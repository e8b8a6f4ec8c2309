package productrepo

import (
	"context"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStockLedger changes available stock with single conditional UPDATE
// statements. Bound to a plain connection every call commits on its own;
// bound to a transaction the change commits with it.
type GormStockLedger struct {
	db *gorm.DB
}

func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// Reserve takes quantity units only when that many are available. The row
// lock taken by the UPDATE makes concurrent reservations of one product
// queue up, and each re-evaluates the condition against the committed value.
func (l *GormStockLedger) Reserve(ctx context.Context, productID kernel.UUID, quantity int) (bool, error) {
	if err := validateMovement(productID, quantity); err != nil {
		return false, err
	}

	result := l.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND available_stock >= ?", productID.Bytes(), quantity).
		UpdateColumn("available_stock", gorm.Expr("available_stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Release returns an errs.ObjectNotFoundError when the product row is gone.
func (l *GormStockLedger) Release(ctx context.Context, productID kernel.UUID, quantity int) error {
	if err := validateMovement(productID, quantity); err != nil {
		return err
	}

	result := l.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ?", productID.Bytes()).
		UpdateColumn("available_stock", gorm.Expr("available_stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product", productID.String())
	}
	return nil
}

func validateMovement(productID kernel.UUID, quantity int) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product id", err)
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}
	return nil
}
