package cart

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
)

var (
	// ErrCartIsNotConstructed is returned by Validate for a Cart that was
	// declared as a literal instead of built by NewCart or RestoreCart.
	ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart or RestoreCart")
)

// Cart is the aggregate root holding a customer's candidate purchases. A
// customer owns at most one cart; it is created on the first add.
//
// Invariants:
//   - at most one line per product; repeated adds accumulate quantity
//   - every line has a quantity between 1 and MaxQuantity
//   - a line's unit price snapshot is never rewritten
//
// Holding a line never reserves stock. Stock is only taken at checkout.
type Cart struct {
	// id is the cart's own identifier
	id kernel.UUID

	// customerID is the owner; the storage layer keeps it unique
	customerID kernel.UUID

	// items are the lines in insertion order
	items []LineItem

	// updatedAt is the time of the last persisted change
	updatedAt time.Time

	// isConstructed ensures the cart was created via NewCart or RestoreCart
	isConstructed bool
}

// NewCart creates an empty cart for the customer.
//
// Parameters:
//   - id: identifier of the new cart
//   - customerID: owner of the cart
//
// Returns:
//   - *Cart: an empty cart
//   - error: joined validation errors when either identifier is the zero UUID
func NewCart(id kernel.UUID, customerID kernel.UUID) (*Cart, error) {
	c := &Cart{isConstructed: true}

	if err := errors.Join(
		c.setID(id),
		c.setCustomerID(customerID),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCart rebuilds a cart loaded from storage. Lines are taken as they
// are, in the given order.
//
// Returns a ValueIsInvalidError when a product appears twice, or the line's
// own validation error when a line was not built by NewLineItem.
func RestoreCart(id, customerID kernel.UUID, items []LineItem, updatedAt time.Time) (*Cart, error) {
	c, err := NewCart(id, customerID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err = item.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.indexOf(item.ProductID()); ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"items", fmt.Errorf("product %s appears more than once", item.ProductID()),
			)
		}
		c.items = append(c.items, item)
	}
	c.updatedAt = updatedAt

	return c, nil
}

// Validate reports ErrCartIsNotConstructed for a nil or literal Cart.
func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

// ID returns the cart's identifier.
func (c *Cart) ID() kernel.UUID {
	return c.id
}

// CustomerID returns the owner of the cart.
func (c *Cart) CustomerID() kernel.UUID {
	return c.customerID
}

// UpdatedAt is the time of the last persisted change, zero for a new cart.
func (c *Cart) UpdatedAt() time.Time {
	return c.updatedAt
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	return slices.Clone(c.items)
}

// Item returns the line for productID and whether it exists.
func (c *Cart) Item(productID kernel.UUID) (LineItem, bool) {
	idx, ok := c.indexOf(productID)
	if !ok {
		return LineItem{}, false
	}
	return c.items[idx], true
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Total is the sum of quantity times unit price snapshot over all lines.
func (c *Cart) Total() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// AddItem accumulates quantity on an existing line or appends a new line
// carrying unitPrice as its snapshot. unitPrice is ignored when the line
// already exists.
//
// Parameters:
//   - productID: product to add
//   - quantity: units to add, at least 1
//   - unitPrice: current catalog price, captured for a new line only
//
// Returns:
//   - ValueIsInvalidError for a quantity below 1
//   - ValueIsOutOfRangeError when the line would exceed MaxQuantity
//
// On error the cart is unchanged.
func (c *Cart) AddItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	if idx, ok := c.indexOf(productID); ok {
		room := MaxQuantity - c.items[idx].quantity
		if quantity > room {
			return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, room)
		}
		c.items[idx].quantity += quantity
		return nil
	}

	item, err := NewLineItem(productID, quantity, unitPrice)
	if err != nil {
		return err
	}
	c.items = append(c.items, item)
	return nil
}

// UpdateQuantity overwrites a line's quantity. Zero or less removes the line.
//
// Returns:
//   - ObjectNotFoundError when a positive quantity targets a product that is
//     not in the cart
//   - ValueIsOutOfRangeError for a quantity above MaxQuantity
func (c *Cart) UpdateQuantity(productID kernel.UUID, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	if quantity > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity)
	}

	idx, ok := c.indexOf(productID)
	if !ok {
		return errs.NewObjectNotFoundError("cart item", productID.String())
	}
	c.items[idx].quantity = quantity
	return nil
}

// RemoveItem deletes the line if present.
func (c *Cart) RemoveItem(productID kernel.UUID) {
	c.items = slices.DeleteFunc(c.items, func(item LineItem) bool {
		return item.ProductID().IsEqual(productID)
	})
}

// RemoveItems deletes every line whose product is listed.
func (c *Cart) RemoveItems(productIDs []kernel.UUID) {
	for _, id := range productIDs {
		c.RemoveItem(id)
	}
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.items = nil
}

// Select returns the lines whose product is in productIDs, in cart order.
func (c *Cart) Select(productIDs []kernel.UUID) []LineItem {
	selected := make([]LineItem, 0, len(productIDs))
	for _, item := range c.items {
		if slices.ContainsFunc(productIDs, item.ProductID().IsEqual) {
			selected = append(selected, item)
		}
	}
	return selected
}

func (c *Cart) indexOf(productID kernel.UUID) (int, bool) {
	idx := slices.IndexFunc(c.items, func(item LineItem) bool {
		return item.ProductID().IsEqual(productID)
	})
	return idx, idx >= 0
}

func (c *Cart) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Cart) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	c.customerID = customerID
	return nil
}
