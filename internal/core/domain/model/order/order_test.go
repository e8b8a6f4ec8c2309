package order_test

import (
	"errors"
	"testing"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"
	"eshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)

func newLine(t *testing.T, quantity int, price string) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), quantity, kernel.MustMoney(price))
	require.NoError(t, err)
	return item
}

func newPendingOrder(t *testing.T, items ...order.LineItem) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), items, createdAt)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should compute total from lines", func(t *testing.T) {
		line := newLine(t, 2, "9.99")
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()

		o, err := order.NewOrder(id, customerID, []order.LineItem{line}, createdAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.CustomerID().IsEqual(customerID))
		assert.Equal(t, "19.98", o.TotalAmount().String())
		assert.Equal(t, order.PendingPayment, o.Status())
		assert.Equal(t, createdAt, o.CreatedAt())
		require.Len(t, o.Items(), 1)
		assert.Equal(t, "19.98", o.Items()[0].Subtotal().String())
	})

	t.Run("should sum several lines", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 2, "9.99"), newLine(t, 1, "0.02"), newLine(t, 3, "1.00"))

		assert.Equal(t, "23.00", o.TotalAmount().String())
	})

	t.Run("should record a created event with items", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 2, "9.99"))

		events := o.DomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(order.Event)
		require.True(t, ok)
		assert.Equal(t, order.EventCreated, created.EventName())
		assert.True(t, created.AggregateID().IsEqual(o.ID()))
		assert.Equal(t, "pending_payment", created.Status)
		assert.Equal(t, createdAt, created.OccurredAt())
		require.Len(t, created.Items, 1)
		assert.Equal(t, 2, created.Items[0].Quantity)
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), nil, createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		require.ErrorIs(t, err, order.ErrOrderHasNoItems)
	})

	t.Run("should fail on duplicate products", func(t *testing.T) {
		line := newLine(t, 1, "1.00")

		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{line, line}, createdAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "appears more than once")
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, nil, time.Time{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "customer id")
		assert.Contains(t, err.Error(), "order items")
		assert.Contains(t, err.Error(), "created at")
	})

	t.Run("should not share the caller's slice", func(t *testing.T) {
		items := []order.LineItem{newLine(t, 1, "5.00")}
		o := newPendingOrder(t, items...)

		items[0] = newLine(t, 9, "9.00")

		assert.Equal(t, 1, o.Items()[0].Quantity())
	})
}

func TestNewLineItem(t *testing.T) {
	t.Run("should reject non positive quantity", func(t *testing.T) {
		_, err := order.NewLineItem(kernel.NewUUID(), 0, kernel.MustMoney("1.00"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("should reject missing price", func(t *testing.T) {
		_, err := order.NewLineItem(kernel.NewUUID(), 1, kernel.Money{})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("restore should check subtotal", func(t *testing.T) {
		_, err := order.RestoreLineItem(kernel.NewUUID(), 2, kernel.MustMoney("9.99"), kernel.MustMoney("20.00"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreOrder(t *testing.T) {
	line := newLine(t, 2, "9.99")

	t.Run("should restore status without recording events", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{line},
			kernel.MustMoney("19.98"), order.Paid, createdAt)

		require.NoError(t, err)
		assert.Equal(t, order.Paid, o.Status())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should reject a total that does not match the lines", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{line},
			kernel.MustMoney("18.00"), order.PendingPayment, createdAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "total amount")
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{line},
			kernel.MustMoney("19.98"), order.Unknown, createdAt)

		require.Error(t, err)
	})
}

func TestOrder_Pay(t *testing.T) {
	t.Run("should move pending order to paid", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 1, "3.00"))
		o.ClearDomainEvents()

		require.NoError(t, o.Pay())

		assert.Equal(t, order.Paid, o.Status())
		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventPaid, events[0].EventName())
	})

	t.Run("should refuse to pay a cancelled order", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 1, "3.00"))
		require.NoError(t, o.Cancel())

		err := o.Pay()

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		var transitionErr *errs.InvalidTransitionError
		require.True(t, errors.As(err, &transitionErr))
		assert.Equal(t, o.ID().String(), transitionErr.OrderID)
		assert.Equal(t, "cancelled", transitionErr.From)
		assert.Equal(t, "paid", transitionErr.To)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should refuse to pay twice", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 1, "3.00"))
		require.NoError(t, o.Pay())

		require.ErrorIs(t, o.Pay(), errs.ErrInvalidTransition)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should move pending order to cancelled", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 2, "3.00"))
		o.ClearDomainEvents()

		require.NoError(t, o.Cancel())

		assert.Equal(t, order.Cancelled, o.Status())
		events := o.DomainEvents()
		require.Len(t, events, 1)
		cancelled := events[0].(order.Event)
		assert.Equal(t, order.EventCancelled, cancelled.Name)
		require.Len(t, cancelled.Items, 1)
		assert.Equal(t, 2, cancelled.Items[0].Quantity)
	})

	t.Run("second cancel is an invalid transition", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 2, "3.00"))
		require.NoError(t, o.Cancel())

		require.ErrorIs(t, o.Cancel(), errs.ErrInvalidTransition)
	})

	t.Run("paid order cannot be cancelled", func(t *testing.T) {
		o := newPendingOrder(t, newLine(t, 2, "3.00"))
		require.NoError(t, o.Pay())

		require.ErrorIs(t, o.Cancel(), errs.ErrInvalidTransition)
		assert.Equal(t, order.Paid, o.Status())
	})
}

func TestOrder_BelongsTo(t *testing.T) {
	customerID := kernel.NewUUID()
	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.LineItem{newLine(t, 1, "1.00")}, createdAt)
	require.NoError(t, err)

	assert.True(t, o.BelongsTo(customerID))
	assert.False(t, o.BelongsTo(kernel.NewUUID()))
}

func TestOrder_Validate(t *testing.T) {
	var o *order.Order
	assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	assert.Equal(t, order.ErrOrderIsNotConstructed, (&order.Order{}).Validate())
}
