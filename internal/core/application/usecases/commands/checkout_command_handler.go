package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eshop/internal/core/domain/model/cart"
	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/order"
	"eshop/internal/core/domain/services"
	"eshop/internal/core/ports"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/logging"
	"eshop/internal/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "eshop/commands"

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrNoSelection = errors.New("no cart items selected")
)

// CheckoutCommandHandler converts selected cart lines into an order.
//
// Flow:
//  1. lock the customer's cart
//  2. reserve stock for every selected line, all or nothing
//  3. price each line from the catalog and build the order
//  4. persist the order in its own transaction
//  5. drop the ordered lines from the cart and commit it
//
// Any failure up to step 4 releases every reservation. Once the order is
// committed it stands: a failed cart update is logged, counted, and left to
// ReconcileStaleCartsCommandHandler.
type CheckoutCommandHandler struct {
	cartUoWFactory  CartUoWFactory
	orderUoWFactory OrderUoWFactory
	reserver        services.StockReserver
	catalog         ports.Catalog
	logger          *zap.Logger
	metrics         *metrics.Metrics
	now             func() time.Time
}

// NewCheckoutCommandHandler wires the handler. ledger must commit each
// reservation on its own, and catalog must return current prices.
func NewCheckoutCommandHandler(
	cartUoWFactory CartUoWFactory,
	orderUoWFactory OrderUoWFactory,
	ledger ports.StockLedger,
	catalog ports.Catalog,
	logger *zap.Logger,
	m *metrics.Metrics,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		cartUoWFactory:  cartUoWFactory,
		orderUoWFactory: orderUoWFactory,
		reserver:        services.NewStockReserver(ledger),
		catalog:         catalog,
		logger:          logging.Component(logger, "checkout"),
		metrics:         m,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Handle returns the created order in pending_payment status.
//
// Errors:
//   - ErrEmptyCart when the customer has no cart or no lines
//   - ErrNoSelection when none of the selected products is in the cart
//   - *errs.InsufficientStockError for the first product that could not be reserved
//   - *errs.ObjectNotFoundError when a selected product left the catalog
//   - *errs.PersistenceError for storage failures
func (h CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "Checkout", trace.WithAttributes(
		attribute.String("customer.id", cmd.CustomerID().String()),
		attribute.Int("selection.size", len(cmd.ProductIDs())),
	))
	defer span.End()

	started := time.Now()
	placed, err := h.checkout(ctx, cmd)
	h.metrics.ObserveCheckout(checkoutOutcome(err), started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", placed.ID().String()))
	logging.WithTrace(ctx, h.logger).Info("order placed",
		zap.String("order_id", placed.ID().String()),
		zap.String("customer_id", placed.CustomerID().String()),
		zap.String("total", placed.TotalAmount().String()),
		zap.Int("lines", len(placed.Items())),
	)
	return placed, nil
}

func (h CheckoutCommandHandler) checkout(ctx context.Context, cmd CheckoutCommand) (*order.Order, error) {
	cartUoW := h.cartUoWFactory.Create()
	if err := cartUoW.Begin(ctx); err != nil {
		return nil, errs.WrapPersistence("begin cart transaction", err)
	}

	defer func() {
		_ = cartUoW.Rollback(ctx)
	}()

	cartRepo := cartUoW.CartRepository()
	customerCart, err := cartRepo.GetByCustomer(ctx, cmd.CustomerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, errs.WrapPersistence("load cart", err)
	}
	if customerCart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	selected := customerCart.Select(cmd.ProductIDs())
	if len(selected) == 0 {
		return nil, ErrNoSelection
	}

	reservation, err := h.reserver.Reserve(ctx, selected)
	if err != nil {
		h.metrics.ObserveReservation(false)
		return nil, h.explainRefusal(ctx, err)
	}
	h.metrics.ObserveReservation(true)

	placed, err := h.buildOrder(ctx, customerCart.CustomerID(), selected)
	if err != nil {
		return nil, errors.Join(err, h.release(ctx, reservation))
	}

	if err = h.persistOrder(ctx, placed); err != nil {
		return nil, errors.Join(errs.WrapPersistence("persist order", err), h.release(ctx, reservation))
	}

	ordered := make([]kernel.UUID, 0, len(selected))
	for _, line := range selected {
		ordered = append(ordered, line.ProductID())
	}
	customerCart.RemoveItems(ordered)

	if err = cartRepo.Update(ctx, customerCart); err == nil {
		err = cartUoW.Commit(ctx)
	}
	if err != nil {
		h.metrics.ObserveStaleCart()
		logging.WithTrace(ctx, h.logger).Warn("order placed but cart not updated",
			zap.String("order_id", placed.ID().String()),
			zap.String("customer_id", placed.CustomerID().String()),
			zap.Error(err),
		)
	}

	return placed, nil
}

// explainRefusal reports a refused product that has left the catalog as
// not found rather than out of stock.
func (h CheckoutCommandHandler) explainRefusal(ctx context.Context, err error) error {
	var refused *errs.InsufficientStockError
	if !errors.As(err, &refused) {
		return err
	}

	raw, ok := refused.ProductID.(string)
	if !ok {
		return err
	}
	productID, parseErr := kernel.UUIDFromString(raw)
	if parseErr != nil {
		return err
	}

	_, lookupErr := h.catalog.FindProduct(ctx, productID)
	if errors.Is(lookupErr, errs.ErrObjectNotFound) {
		return lookupErr
	}
	return err
}

func (h CheckoutCommandHandler) buildOrder(
	ctx context.Context,
	customerID kernel.UUID,
	lines []cart.LineItem,
) (*order.Order, error) {
	items := make([]order.LineItem, 0, len(lines))
	for _, line := range lines {
		product, err := h.catalog.FindProduct(ctx, line.ProductID())
		if err != nil {
			return nil, errs.WrapPersistence("find product", err)
		}

		item, err := order.NewLineItem(line.ProductID(), line.Quantity(), product.Price())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.NewOrder(kernel.NewUUID(), customerID, items, h.now())
}

func (h CheckoutCommandHandler) persistOrder(ctx context.Context, placed *order.Order) error {
	uow := h.orderUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// release gives the reservation back. Lines that could not be released stay
// held and are logged so they can be credited by hand.
func (h CheckoutCommandHandler) release(ctx context.Context, reservation *services.Reservation) error {
	err := reservation.Release(ctx)
	if err != nil {
		held := reservation.Lines()
		lines := make([]string, 0, len(held))
		for _, line := range held {
			lines = append(lines, fmt.Sprintf("%s x%d", line.ProductID, line.Quantity))
		}
		logging.WithTrace(ctx, h.logger).Error("stock release failed",
			zap.Strings("held_lines", lines),
			zap.Error(err),
		)
	}
	return err
}

func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCreated
	case errors.Is(err, ErrEmptyCart):
		return metrics.OutcomeEmptyCart
	case errors.Is(err, ErrNoSelection):
		return metrics.OutcomeNoSelection
	case errors.Is(err, errs.ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock
	case errors.Is(err, errs.ErrObjectNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeFailed
	}
}
