package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups repository calls into one database transaction.
// Repositories obtained before Begin run outside any transaction.
// On Commit, events recorded by tracked aggregates are written to the outbox
// inside the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	CartRepository() CartRepository

	OrderRepository() OrderRepository

	StockLedger() StockLedger

	OutboxRepository() OutboxRepository
}
