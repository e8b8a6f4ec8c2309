package order_test

import (
	"testing"

	"eshop/internal/core/domain/model/order"
	"eshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending_payment", order.PendingPayment.String())
	assert.Equal(t, "paid", order.Paid.String())
	assert.Equal(t, "cancelled", order.Cancelled.String())
	assert.Equal(t, "unknown", order.Unknown.String())
	assert.Equal(t, "unknown", order.Status(99).String())
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse every persisted name", func(t *testing.T) {
		for _, s := range []order.Status{order.PendingPayment, order.Paid, order.Cancelled} {
			parsed, err := order.ParseStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := order.ParseStatus("shipped")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.PendingPayment.Validate())
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(-1).Validate())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from, to order.Status
		allowed  bool
	}{
		{order.PendingPayment, order.Paid, true},
		{order.PendingPayment, order.Cancelled, true},
		{order.PendingPayment, order.PendingPayment, false},
		{order.Paid, order.Cancelled, false},
		{order.Paid, order.Paid, false},
		{order.Cancelled, order.Paid, false},
		{order.Cancelled, order.Cancelled, false},
		{order.Unknown, order.Paid, false},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+" to "+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, order.PendingPayment.IsTerminal())
	assert.True(t, order.Paid.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
}
