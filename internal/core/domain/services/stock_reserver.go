package services

import (
	"context"
	"errors"
	"slices"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
)

// ReservedLine is a quantity of one product held by a Reservation.
type ReservedLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// StockReserver reserves stock for a set of cart lines, all or nothing.
//
// Lines are reserved in ascending product id order so that two checkouts
// touching the same products always contend in the same sequence. When any
// line is refused, every reservation already granted is released, most
// recent first, before the error is returned. Caller cancellation is checked
// between lines and never interrupts a single ledger call.
type StockReserver struct {
	ledger ports.StockLedger
}

func NewStockReserver(ledger ports.StockLedger) StockReserver {
	return StockReserver{ledger: ledger}
}

// Reserve holds stock for every line or for none.
//
// Returns:
//   - *errs.InsufficientStockError naming the first refused product
//   - *errs.PersistenceError when the ledger itself fails
//
// Release errors during rollback are joined onto the returned error.
func (s StockReserver) Reserve(ctx context.Context, lines []cart.LineItem) (*Reservation, error) {
	ordered := slices.Clone(lines)
	slices.SortFunc(ordered, func(a, b cart.LineItem) int {
		return a.ProductID().Compare(b.ProductID())
	})

	// Every started reserve runs to a definite outcome so a committed
	// decrement is always recorded in the reservation.
	reserveCtx := context.WithoutCancel(ctx)

	reservation := &Reservation{ledger: s.ledger}
	for _, line := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(err, reservation.Release(ctx))
		}

		ok, err := s.ledger.Reserve(reserveCtx, line.ProductID(), line.Quantity())
		if err != nil {
			return nil, errors.Join(errs.WrapPersistence("reserve stock", err), reservation.Release(ctx))
		}
		if !ok {
			refused := errs.NewInsufficientStockError(line.ProductID().String(), line.Quantity())
			return nil, errors.Join(refused, reservation.Release(ctx))
		}

		reservation.granted = append(reservation.granted, ReservedLine{
			ProductID: line.ProductID(),
			Quantity:  line.Quantity(),
		})
	}

	return reservation, nil
}

// Reservation is the set of stock holds granted by one Reserve call.
type Reservation struct {
	ledger  ports.StockLedger
	granted []ReservedLine
}

// Lines returns the granted lines in reservation order.
func (r *Reservation) Lines() []ReservedLine {
	return slices.Clone(r.granted)
}

// Release gives back every granted line, most recent first. It runs on a
// context detached from ctx's cancellation so a caller that has already
// given up cannot leave stock held. Lines that fail to release are kept and
// a later Release retries only those.
func (r *Reservation) Release(ctx context.Context) error {
	releaseCtx := context.WithoutCancel(ctx)

	var failed []ReservedLine
	var releaseErr error
	for i := len(r.granted) - 1; i >= 0; i-- {
		line := r.granted[i]
		if err := r.ledger.Release(releaseCtx, line.ProductID, line.Quantity); err != nil {
			failed = append(failed, line)
			releaseErr = errors.Join(releaseErr, errs.WrapPersistence("release stock for "+line.ProductID.String(), err))
		}
	}

	slices.Reverse(failed)
	r.granted = failed
	return releaseErr
}
