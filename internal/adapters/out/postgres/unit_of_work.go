// Package postgres provides the GORM-backed Unit of Work shared by the cart,
// order and outbox repositories.
//
// A unit of work owns at most one transaction. Repositories obtained after
// Begin run inside it; repositories obtained before Begin, or from a unit of
// work that never begins, run on the plain connection and commit statement
// by statement. Read-side handlers rely on the latter.
//
// Aggregates passed to Add or Update are tracked. On Commit every event they
// recorded is inserted into outbox_messages in the same transaction, so an
// event is stored if and only if the state change that produced it is.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Get(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	if err := o.Cancel(); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	for _, item := range o.Items() {
//	    if err := uow.StockLedger().Release(ctx, item.ProductID(), item.Quantity()); err != nil {
//	        return err
//	    }
//	}
//	return uow.Commit(ctx)
//
// Instances are not safe for concurrent use; create one per operation.
package postgres

import (
	"context"

	"eshop/internal/adapters/out/postgres/cartrepo"
	"eshop/internal/adapters/out/postgres/orderrepo"
	"eshop/internal/adapters/out/postgres/outboxrepo"
	"eshop/internal/adapters/out/postgres/productrepo"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"

	"gorm.io/gorm"
)

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory hands out a fresh unit of work per business
// operation.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm returns the concrete type, which satisfies every narrowed unit
// of work contract used by the command handlers.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin is a no-op when a transaction is already open.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit writes pending events of tracked aggregates to the outbox and
// commits. If the outbox insert fails the transaction stays open and the
// caller's Rollback discards it. Events are cleared from the aggregates only
// once the commit succeeded.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	sources, events := uow.pendingEvents()
	if len(events) > 0 {
		if err := outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, events...); err != nil {
			return err
		}
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if err != nil {
		return err
	}

	for _, source := range sources {
		source.ClearDomainEvents()
	}
	return nil
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) CartRepository() ports.CartRepository {
	return cartrepo.NewGormCartRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// StockLedger is bound to the transaction once Begin was called. Checkout
// uses a separate, connection-level ledger for its reservations.
func (uow *GormUnitOfWork) StockLedger() ports.StockLedger {
	return productrepo.NewGormStockLedger(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate once; repeated calls with the same
// instance are ignored so its events are not written twice.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	for _, tracked := range uow.trackedAggregates {
		if tracked.Aggregate == aggregate {
			return
		}
	}

	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) pendingEvents() ([]eventSource, []kernel.DomainEvent) {
	var (
		sources []eventSource
		events  []kernel.DomainEvent
	)
	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		sources = append(sources, source)
		events = append(events, source.DomainEvents()...)
	}
	return sources, events
}
