package commands_test

import (
	"context"
	"errors"
	"testing"

	"eshop/internal/core/application/usecases/commands"
	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type checkoutFixture struct {
	cartFactory  *MockCartUoWFactory
	cartUoW      *MockCartUoW
	cartRepo     *MockCartRepository
	orderFactory *MockOrderUoWFactory
	orderUoW     *MockOrderUoW
	orderRepo    *MockOrderRepository
	catalog      *MockCatalog
	ledger       *memoryLedger
	metrics      *metrics.Metrics
}

func newCheckoutFixture(levels map[kernel.UUID]int) *checkoutFixture {
	return &checkoutFixture{
		cartFactory:  new(MockCartUoWFactory),
		cartUoW:      new(MockCartUoW),
		cartRepo:     new(MockCartRepository),
		orderFactory: new(MockOrderUoWFactory),
		orderUoW:     new(MockOrderUoW),
		orderRepo:    new(MockOrderRepository),
		catalog:      new(MockCatalog),
		ledger:       newMemoryLedger(levels),
		metrics:      metrics.New(prometheus.NewRegistry()),
	}
}

func (f *checkoutFixture) handler() commands.CheckoutCommandHandler {
	return commands.NewCheckoutCommandHandler(
		f.cartFactory, f.orderFactory, f.ledger, f.catalog, zap.NewNop(), f.metrics,
	)
}

// expectCart makes the cart unit of work hand out c for customerID.
func (f *checkoutFixture) expectCart(customerID kernel.UUID, c *cart.Cart, err error) {
	f.cartFactory.On("Create").Return(f.cartUoW).Once()
	f.cartUoW.On("Begin", mock.Anything).Return(nil).Once()
	f.cartUoW.On("CartRepository").Return(f.cartRepo).Once()
	f.cartUoW.On("Rollback", mock.Anything).Return(nil).Once()
	if c == nil {
		f.cartRepo.On("GetByCustomer", mock.Anything, customerID).Return(nil, err).Once()
		return
	}
	f.cartRepo.On("GetByCustomer", mock.Anything, customerID).Return(c, nil).Once()
}

func (f *checkoutFixture) expectOrderSaved(addErr error) {
	f.orderFactory.On("Create").Return(f.orderUoW).Once()
	f.orderUoW.On("Begin", mock.Anything).Return(nil).Once()
	f.orderUoW.On("OrderRepository").Return(f.orderRepo).Once()
	f.orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(addErr).Once()
	if addErr == nil {
		f.orderUoW.On("Commit", mock.Anything).Return(nil).Once()
	}
	f.orderUoW.On("Rollback", mock.Anything).Return(nil).Once()
}

func (f *checkoutFixture) outcome(label string) float64 {
	return testutil.ToFloat64(f.metrics.Checkouts.WithLabelValues(label))
}

func TestCheckoutCommandHandler_Handle(t *testing.T) {
	customerID := kernel.NewUUID()
	p1 := mustID(t, "10000000-0000-4000-8000-000000000000")
	p2 := mustID(t, "20000000-0000-4000-8000-000000000000")
	p3 := mustID(t, "30000000-0000-4000-8000-000000000000")

	t.Run("should place an order priced from the catalog and empty the cart lines", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5})
		customerCart := newCart(t, customerID, cartLine(t, p1, 2, "8.50"), cartLine(t, p2, 1, "3.00"))
		f.expectCart(customerID, customerCart, nil)
		f.catalog.On("FindProduct", mock.Anything, p1).Return(newProduct(t, p1, "9.99", 3), nil).Once()
		f.expectOrderSaved(nil)
		f.cartRepo.On("Update", mock.Anything, customerCart).Return(nil).Once()
		f.cartUoW.On("Commit", mock.Anything).Return(nil).Once()

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		placed, err := f.handler().Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "19.98", placed.TotalAmount().String())
		assert.Equal(t, order.PendingPayment, placed.Status())
		assert.True(t, placed.BelongsTo(customerID))
		require.Len(t, placed.Items(), 1)
		assert.Equal(t, "9.99", placed.Items()[0].UnitPrice().String())
		assert.Equal(t, 3, f.ledger.level(p1))

		_, stillThere := customerCart.Item(p1)
		assert.False(t, stillThere)
		_, kept := customerCart.Item(p2)
		assert.True(t, kept)

		assert.InDelta(t, 1, f.outcome(metrics.OutcomeCreated), 0)
		f.cartRepo.AssertExpectations(t)
		f.cartUoW.AssertExpectations(t)
		f.orderRepo.AssertExpectations(t)
		f.orderUoW.AssertExpectations(t)
		f.catalog.AssertExpectations(t)
	})

	t.Run("should release every granted reservation when a later line is short", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5, p2: 3})
		customerCart := newCart(t, customerID, cartLine(t, p2, 10, "1.00"), cartLine(t, p1, 2, "1.00"))
		f.expectCart(customerID, customerCart, nil)
		f.catalog.On("FindProduct", mock.Anything, p2).Return(newProduct(t, p2, "1.00", 3), nil).Once()

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1, p2})
		require.NoError(t, err)

		placed, err := f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrInsufficientStock)
		assert.Nil(t, placed)
		var stockErr *errs.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, p2.String(), stockErr.ProductID)
		assert.Equal(t, 5, f.ledger.level(p1))
		assert.Equal(t, 3, f.ledger.level(p2))
		assert.Len(t, customerCart.Items(), 2)

		assert.InDelta(t, 1, f.outcome(metrics.OutcomeInsufficientStock), 0)
		f.orderFactory.AssertNotCalled(t, "Create")
		f.cartRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should report a refused product that left the catalog as not found", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{})
		f.expectCart(customerID, newCart(t, customerID, cartLine(t, p1, 1, "1.00")), nil)
		f.catalog.On("FindProduct", mock.Anything, p1).
			Return(nil, errs.NewObjectNotFoundError("product", p1.String())).Once()

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		_, err = f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.NotErrorIs(t, err, errs.ErrInsufficientStock)
		assert.InDelta(t, 1, f.outcome(metrics.OutcomeNotFound), 0)
	})

	t.Run("should release stock when a product disappears before pricing", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5, p3: 2})
		f.expectCart(customerID, newCart(t, customerID, cartLine(t, p1, 2, "1.00"), cartLine(t, p3, 1, "1.00")), nil)
		f.catalog.On("FindProduct", mock.Anything, p1).Return(newProduct(t, p1, "1.00", 3), nil).Once()
		f.catalog.On("FindProduct", mock.Anything, p3).
			Return(nil, errs.NewObjectNotFoundError("product", p3.String())).Once()

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1, p3})
		require.NoError(t, err)

		_, err = f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, 5, f.ledger.level(p1))
		assert.Equal(t, 2, f.ledger.level(p3))
		f.orderFactory.AssertNotCalled(t, "Create")
	})

	t.Run("should release stock when the order cannot be stored", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5})
		customerCart := newCart(t, customerID, cartLine(t, p1, 2, "1.00"))
		f.expectCart(customerID, customerCart, nil)
		f.catalog.On("FindProduct", mock.Anything, p1).Return(newProduct(t, p1, "1.00", 3), nil).Once()
		dbErr := errors.New("connection reset")
		f.expectOrderSaved(dbErr)

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		_, err = f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrPersistenceFailure)
		require.ErrorIs(t, err, dbErr)
		assert.Equal(t, 5, f.ledger.level(p1))
		assert.Len(t, customerCart.Items(), 1)
		assert.InDelta(t, 1, f.outcome(metrics.OutcomeFailed), 0)
		f.orderUoW.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should log the lines still held when a release fails", func(t *testing.T) {
		f := newCheckoutFixture(nil)
		customerCart := newCart(t, customerID, cartLine(t, p1, 2, "1.00"))
		f.expectCart(customerID, customerCart, nil)
		f.catalog.On("FindProduct", mock.Anything, p1).Return(newProduct(t, p1, "1.00", 3), nil).Once()
		f.expectOrderSaved(errors.New("connection reset"))
		ledger := new(MockStockLedger)
		ledger.On("Reserve", mock.Anything, p1, 2).Return(true, nil).Once()
		ledger.On("Release", mock.Anything, p1, 2).Return(errors.New("lock timeout")).Once()
		core, logs := observer.New(zapcore.ErrorLevel)
		handler := commands.NewCheckoutCommandHandler(
			f.cartFactory, f.orderFactory, ledger, f.catalog, zap.New(core), f.metrics,
		)

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrPersistenceFailure)
		require.ErrorContains(t, err, "lock timeout")
		entries := logs.FilterMessage("stock release failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, []any{p1.String() + " x2"}, entries[0].ContextMap()["held_lines"])
		ledger.AssertExpectations(t)
	})

	t.Run("should keep the order when the cart update fails", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5})
		customerCart := newCart(t, customerID, cartLine(t, p1, 2, "1.00"))
		f.expectCart(customerID, customerCart, nil)
		f.catalog.On("FindProduct", mock.Anything, p1).Return(newProduct(t, p1, "1.00", 3), nil).Once()
		f.expectOrderSaved(nil)
		f.cartRepo.On("Update", mock.Anything, customerCart).Return(errors.New("deadlock detected")).Once()

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		placed, err := f.handler().Handle(t.Context(), cmd)

		require.NoError(t, err)
		require.NotNil(t, placed)
		assert.Equal(t, 3, f.ledger.level(p1))
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.StaleCarts), 0)
		f.cartUoW.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should refuse a customer without a cart", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5})
		f.expectCart(customerID, nil, errs.NewObjectNotFoundError("cart", customerID.String()))

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		_, err = f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, commands.ErrEmptyCart)
		assert.InDelta(t, 1, f.outcome(metrics.OutcomeEmptyCart), 0)
	})

	t.Run("should refuse an empty cart", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5})
		f.expectCart(customerID, newCart(t, customerID), nil)

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		_, err = f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, commands.ErrEmptyCart)
	})

	t.Run("should refuse a selection that matches no cart line", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5})
		f.expectCart(customerID, newCart(t, customerID, cartLine(t, p1, 1, "1.00")), nil)

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p3})
		require.NoError(t, err)

		_, err = f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, commands.ErrNoSelection)
		assert.Equal(t, 5, f.ledger.level(p1))
		assert.InDelta(t, 1, f.outcome(metrics.OutcomeNoSelection), 0)
	})

	t.Run("should wrap a cart load failure", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{})
		f.expectCart(customerID, nil, errors.New("timeout"))

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		_, err = f.handler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrPersistenceFailure)
	})

	t.Run("should restore stock even when the caller gives up mid checkout", func(t *testing.T) {
		f := newCheckoutFixture(map[kernel.UUID]int{p1: 5})
		f.expectCart(customerID, newCart(t, customerID, cartLine(t, p1, 2, "1.00")), nil)
		ctx, cancel := context.WithCancel(t.Context())
		f.catalog.On("FindProduct", mock.Anything, p1).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, context.Canceled).Once()

		cmd, err := commands.NewCheckoutCommand(customerID, []kernel.UUID{p1})
		require.NoError(t, err)

		_, err = f.handler().Handle(ctx, cmd)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 5, f.ledger.level(p1))
	})

	t.Run("should reject a command built without its constructor", func(t *testing.T) {
		f := newCheckoutFixture(nil)

		_, err := f.handler().Handle(t.Context(), commands.CheckoutCommand{})

		require.ErrorIs(t, err, commands.ErrCheckoutCommandIsNotConstructed)
		f.cartFactory.AssertNotCalled(t, "Create")
	})
}

func mustID(t *testing.T, s string) kernel.UUID {
	t.Helper()
	id, err := kernel.UUIDFromString(s)
	require.NoError(t, err)
	return id
}
