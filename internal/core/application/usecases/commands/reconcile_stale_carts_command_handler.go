package commands

import (
	"context"
	"errors"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/logging"
	"eshop/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ReconcileStaleCartsCommandHandler removes cart lines that a checkout
// already turned into an order but failed to drop from the cart.
//
// Each cart is rechecked under its row lock. Only orders created after the
// cart's last update count, so a line the customer added again after
// checking out is kept.
type ReconcileStaleCartsCommandHandler struct {
	uowFactory CartUoWFactory
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewReconcileStaleCartsCommandHandler(
	uowFactory CartUoWFactory,
	logger *zap.Logger,
	m *metrics.Metrics,
) ReconcileStaleCartsCommandHandler {
	return ReconcileStaleCartsCommandHandler{
		uowFactory: uowFactory,
		logger:     logging.Component(logger, "cart_reconciliation"),
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle returns how many carts were repaired. A failure on one cart does
// not stop the others; all failures are joined into the returned error.
func (h ReconcileStaleCartsCommandHandler) Handle(ctx context.Context, cmd ReconcileStaleCartsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	stale, err := h.listStale(ctx, h.now().Add(-cmd.Lookback()))
	if err != nil {
		return 0, err
	}

	repaired := 0
	var reconcileErr error
	for _, group := range groupByCustomer(stale) {
		ok, err := h.reconcile(ctx, group)
		if err != nil {
			reconcileErr = errors.Join(reconcileErr, err)
			continue
		}
		if ok {
			repaired++
			h.metrics.ObserveReconciledCart()
			logging.WithTrace(ctx, h.logger).Info("stale cart lines removed",
				zap.String("customer_id", group[0].CustomerID.String()),
				zap.Int("orders", len(group)),
			)
		}
	}

	return repaired, reconcileErr
}

func (h ReconcileStaleCartsCommandHandler) listStale(ctx context.Context, since time.Time) ([]ports.StaleCart, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.WrapPersistence("begin cart transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stale, err := uow.CartRepository().ListStale(ctx, since)
	if err != nil {
		return nil, errs.WrapPersistence("list stale carts", err)
	}
	return stale, nil
}

// reconcile removes the lines of every order in group that was created
// after the cart's last update. All entries belong to one customer.
func (h ReconcileStaleCartsCommandHandler) reconcile(ctx context.Context, group []ports.StaleCart) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, errs.WrapPersistence("begin cart transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()
	customerCart, err := cartRepo.GetByCustomer(ctx, group[0].CustomerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errs.WrapPersistence("load cart", err)
	}

	var ordered []kernel.UUID
	for _, entry := range group {
		if customerCart.UpdatedAt().Before(entry.OrderCreatedAt) {
			ordered = append(ordered, entry.ProductIDs...)
		}
	}

	before := len(customerCart.Items())
	customerCart.RemoveItems(ordered)
	if len(customerCart.Items()) == before {
		return false, nil
	}

	if err = cartRepo.Update(ctx, customerCart); err != nil {
		return false, errs.WrapPersistence("save cart", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return false, errs.WrapPersistence("commit cart", err)
	}

	return true, nil
}

func groupByCustomer(stale []ports.StaleCart) [][]ports.StaleCart {
	index := make(map[kernel.UUID]int)
	var groups [][]ports.StaleCart
	for _, entry := range stale {
		i, ok := index[entry.CustomerID]
		if !ok {
			i = len(groups)
			index[entry.CustomerID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], entry)
	}
	return groups
}
