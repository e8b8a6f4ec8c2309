package cart

import (
	"errors"
	"fmt"
	"math"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// MaxQuantity is the largest quantity a line may hold. Stock levels are
// stored as 32-bit integers, so no larger quantity could ever be reserved.
const MaxQuantity = math.MaxInt32

// LineItem is one candidate purchase. The unit price is the catalog price
// captured when the product was first added and never changes afterwards.
type LineItem struct {
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money

	isConstructed bool
}

func NewLineItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) (LineItem, error) {
	item := LineItem{isConstructed: true}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

func (i LineItem) Validate() error {
	if !i.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

func (i LineItem) Quantity() int {
	return i.quantity
}

func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is quantity times the captured unit price.
func (i LineItem) Subtotal() kernel.Money {
	return i.unitPrice.Times(i.quantity)
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if quantity > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("unit price", err)
	}
	i.unitPrice = price
	return nil
}
