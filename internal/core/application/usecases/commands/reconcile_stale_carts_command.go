package commands

import (
	"errors"
	"time"

	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/guard"
)

var ErrReconcileStaleCartsCommandIsNotConstructed = errors.New(
	"ReconcileStaleCartsCommand must be created via NewReconcileStaleCartsCommand constructor",
)

// ReconcileStaleCartsCommand looks back over orders created within Lookback
// for carts that still hold their lines.
type ReconcileStaleCartsCommand struct { //nolint:recvcheck //using for validation
	lookback time.Duration

	guard guard.ConstructorGuard
}

func NewReconcileStaleCartsCommand(lookback time.Duration) (ReconcileStaleCartsCommand, error) {
	if lookback <= 0 {
		return ReconcileStaleCartsCommand{}, errs.NewValueIsInvalidError("lookback")
	}

	return ReconcileStaleCartsCommand{
		lookback: lookback,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileStaleCartsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileStaleCartsCommandIsNotConstructed)
}

func (c ReconcileStaleCartsCommand) Lookback() time.Duration {
	return c.lookback
}
