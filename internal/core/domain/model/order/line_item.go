package order

import (
	"errors"
	"fmt"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
)

// LineItem is an immutable purchased line: the price is the catalog price at
// checkout and Subtotal is always UnitPrice times Quantity.
type LineItem struct {
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money
	subtotal  kernel.Money
}

func NewLineItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) (LineItem, error) {
	var quantityErr error
	if quantity <= 0 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	var priceErr error
	if err := unitPrice.Validate(); err != nil {
		priceErr = errs.NewValueIsInvalidErrorWithCause("unit price", err)
	}

	if err := errors.Join(productID.Validate(), quantityErr, priceErr); err != nil {
		return LineItem{}, err
	}

	return LineItem{
		productID: productID,
		quantity:  quantity,
		unitPrice: unitPrice,
		subtotal:  unitPrice.Times(quantity),
	}, nil
}

// RestoreLineItem rebuilds a stored line and checks the stored subtotal.
func RestoreLineItem(productID kernel.UUID, quantity int, unitPrice, subtotal kernel.Money) (LineItem, error) {
	item, err := NewLineItem(productID, quantity, unitPrice)
	if err != nil {
		return LineItem{}, err
	}
	if !item.subtotal.IsEqual(subtotal) {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause(
			"line subtotal",
			fmt.Errorf("%s is not %s x %d", subtotal, unitPrice, quantity),
		)
	}
	return item, nil
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

func (i LineItem) Subtotal() kernel.Money {
	return i.subtotal
}
