package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderHasNoItems is returned when an order would be created without lines.
	ErrOrderHasNoItems = errs.NewValueIsRequiredError("order items")
)

// now is replaced in tests that need deterministic event timestamps.
var now = func() time.Time { return time.Now().UTC() }

// Order is the aggregate root for a committed purchase.
//
// Order follows these invariants:
//   - it has at least one line and no product appears twice
//   - TotalAmount always equals the sum of line subtotals and is computed here,
//     never accepted from a caller
//   - lines and total never change after creation
//   - status only moves PendingPayment -> Paid or PendingPayment -> Cancelled
//
// Stock effects of a cancellation are applied by the caller through the
// stock ledger, once per successful Cancel.
type Order struct {
	// id is the order's identifier, also used as the event aggregate id
	id kernel.UUID

	// customerID is the customer who placed the order
	customerID kernel.UUID

	// items are the priced lines, immutable after creation
	items []LineItem

	// total is the sum of line subtotals
	total kernel.Money

	// status is the current lifecycle state
	status Status

	// createdAt is the placement time in UTC
	createdAt time.Time

	// events holds facts recorded since the order was loaded or created.
	events []kernel.DomainEvent

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// NewOrder creates a pending-payment order from priced lines and records an
// order.created event.
//
// Parameters:
//   - id: identifier of the new order
//   - customerID: customer placing the order
//   - items: at least one line, each product at most once
//   - createdAt: placement time, stored in UTC
//
// Returns:
//   - *Order: the order in PendingPayment with its total computed
//   - error: joined validation errors, including ErrOrderHasNoItems
//
// Example:
//
//	line, _ := order.NewLineItem(productID, 2, kernel.MustMoney("9.99"))
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.LineItem{line}, time.Now())
//	// o.TotalAmount() == 19.98, o.Status() == order.PendingPayment
func NewOrder(id, customerID kernel.UUID, items []LineItem, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        PendingPayment,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	o.record(EventCreated, o.createdAt, true)
	return o, nil
}

// RestoreOrder rebuilds an order read from storage. No event is recorded.
//
// Returns a ValueIsInvalidError when the stored total does not match the
// recomputed one, which means the row was written outside this package.
func RestoreOrder(
	id, customerID kernel.UUID,
	items []LineItem,
	total kernel.Money,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setCreatedAt(createdAt),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if !o.total.IsEqual(total) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"total amount",
			fmt.Errorf("stored %s does not match line subtotals %s", total, o.total),
		)
	}
	o.status = status

	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier. A nil other is never equal.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []LineItem {
	return slices.Clone(o.items)
}

// TotalAmount returns the sum of line subtotals.
func (o *Order) TotalAmount() kernel.Money {
	return o.total
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// BelongsTo reports whether the order was placed by customerID.
func (o *Order) BelongsTo(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// Pay moves a pending order to Paid. It has no stock effect.
//
// Returns an *errs.InvalidTransitionError when the order is already paid or
// cancelled.
func (o *Order) Pay() error {
	if err := o.transition(Paid); err != nil {
		return err
	}
	o.record(EventPaid, now(), false)
	return nil
}

// Cancel moves a pending order to Cancelled. After a successful Cancel the
// caller must release every line's quantity through the stock ledger. A
// second Cancel fails, so stock is credited at most once.
func (o *Order) Cancel() error {
	if err := o.transition(Cancelled); err != nil {
		return err
	}
	o.record(EventCancelled, now(), true)
	return nil
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return slices.Clone(o.events)
}

// ClearDomainEvents drops recorded events once they are stored in the outbox.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) transition(target Status) error {
	if !o.status.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError(o.id.String(), o.status.String(), target.String())
	}
	o.status = target
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = customerID
	return nil
}

// setItems copies the lines, rejects duplicates and computes the total.
func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}

	total := kernel.ZeroMoney()
	for i, item := range items {
		if err := item.productID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("order items", err)
		}
		if slices.ContainsFunc(items[:i], func(prev LineItem) bool {
			return prev.productID.IsEqual(item.productID)
		}) {
			return errs.NewValueIsInvalidErrorWithCause(
				"order items", fmt.Errorf("product %s appears more than once", item.productID),
			)
		}
		total = total.Add(item.subtotal)
	}

	o.items = slices.Clone(items)
	o.total = total
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = createdAt
	return nil
}
