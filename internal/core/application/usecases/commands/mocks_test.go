package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"eshop/internal/core/application/usecases/commands"
	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"
	"eshop/internal/core/domain/model/product"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Add(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Update(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) GetByCustomer(ctx context.Context, customerID kernel.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) ListStale(ctx context.Context, since time.Time) ([]ports.StaleCart, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.StaleCart), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockStockLedger struct{ mock.Mock }

func (m *MockStockLedger) Reserve(ctx context.Context, productID kernel.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockLedger) Release(ctx context.Context, productID kernel.UUID, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) FindProduct(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, events ...kernel.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockOutboxRepository) FetchPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, ids []kernel.UUID, sentAt time.Time) error {
	args := m.Called(ctx, ids, sentAt)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

type MockCartUoW struct{ mock.Mock }

func (m *MockCartUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCartUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCartUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCartUoW) CartRepository() ports.CartRepository {
	args := m.Called()
	return args.Get(0).(ports.CartRepository)
}

type MockCartUoWFactory struct{ mock.Mock }

func (m *MockCartUoWFactory) Create() commands.CartUoW {
	args := m.Called()
	return args.Get(0).(commands.CartUoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) StockLedger() ports.StockLedger {
	args := m.Called()
	return args.Get(0).(ports.StockLedger)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOutboxUoW struct{ mock.Mock }

func (m *MockOutboxUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

// memoryLedger keeps stock levels in a map and enforces the same
// conditional decrement as the database ledger.
type memoryLedger struct {
	mu    sync.Mutex
	stock map[kernel.UUID]int
}

func newMemoryLedger(levels map[kernel.UUID]int) *memoryLedger {
	return &memoryLedger{stock: levels}
}

func (l *memoryLedger) Reserve(_ context.Context, productID kernel.UUID, quantity int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	available, ok := l.stock[productID]
	if !ok || available < quantity {
		return false, nil
	}
	l.stock[productID] = available - quantity
	return true, nil
}

func (l *memoryLedger) Release(_ context.Context, productID kernel.UUID, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.stock[productID]; !ok {
		return errs.NewObjectNotFoundError("product", productID.String())
	}
	l.stock[productID] += quantity
	return nil
}

func (l *memoryLedger) level(productID kernel.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID]
}

func newProduct(t *testing.T, id kernel.UUID, price string, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(id, "product "+id.String()[:8], kernel.MustMoney(price), stock)
	require.NoError(t, err)
	return p
}

func newCart(t *testing.T, customerID kernel.UUID, lines ...cart.LineItem) *cart.Cart {
	t.Helper()
	c, err := cart.RestoreCart(kernel.NewUUID(), customerID, lines, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return c
}

func cartLine(t *testing.T, productID kernel.UUID, quantity int, price string) cart.LineItem {
	t.Helper()
	item, err := cart.NewLineItem(productID, quantity, kernel.MustMoney(price))
	require.NoError(t, err)
	return item
}

func pendingOrder(t *testing.T, customerID kernel.UUID, lines ...order.LineItem) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customerID, lines, time.Now().UTC())
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func orderLine(t *testing.T, productID kernel.UUID, quantity int, price string) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(productID, quantity, kernel.MustMoney(price))
	require.NoError(t, err)
	return item
}
