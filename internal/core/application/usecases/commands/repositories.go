// Package commands contains the operations that change cart, order and stock
// state. Every handler validates its command, opens the unit of work it needs
// and commits only when all repository calls succeeded.
package commands

import (
	"context"

	"eshop/internal/core/ports"
)

// Unit of Work contracts, narrowed to what each family of handlers touches.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	CartRepoFactory interface {
		CartRepository() ports.CartRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// StockLedgerFactory returns a ledger bound to the current transaction,
	// so stock changes commit or roll back together with the aggregates.
	StockLedgerFactory interface {
		StockLedger() ports.StockLedger
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// CartUoW serves cart mutations and the cart half of checkout. The cart
	// row loaded through it stays locked until Commit or Rollback.
	CartUoW interface {
		TxManager
		CartRepoFactory
	}

	CartUoWFactory interface {
		Create() CartUoW
	}

	// OrderUoW serves order creation and the pay/cancel lifecycle. Cancel
	// releases stock through StockLedger inside the same transaction.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		StockLedgerFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
