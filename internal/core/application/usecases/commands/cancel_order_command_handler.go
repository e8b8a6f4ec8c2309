package commands

import (
	"context"
	"slices"

	"eshop/internal/core/domain/model/order"
	"eshop/internal/pkg/errs"
	"eshop/internal/pkg/logging"
	"eshop/internal/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CancelOrderCommandHandler moves an order from pending_payment to
// cancelled and credits every line back to the stock ledger. The status
// change and the stock credits commit in one transaction, so a failed
// release leaves the order pending and a repeated cancel is refused before
// any stock moves.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	logger *zap.Logger,
	m *metrics.Metrics,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     logging.Component(logger, "cancel_order"),
		metrics:    m,
	}
}

// Handle returns the cancelled order, an errs.ObjectNotFoundError for an
// unknown order, or an errs.InvalidTransitionError when the order is already
// paid or cancelled.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "CancelOrder", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
	))
	defer span.End()

	cancelled, err := h.cancel(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	h.metrics.ObserveTransition(cancelled.Status().String())
	logging.WithTrace(ctx, h.logger).Info("order cancelled",
		zap.String("order_id", cancelled.ID().String()),
		zap.String("customer_id", cancelled.CustomerID().String()),
		zap.Int("released_lines", len(cancelled.Items())),
	)
	return cancelled, nil
}

func (h CancelOrderCommandHandler) cancel(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.WrapPersistence("begin order transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, errs.WrapPersistence("load order", err)
	}

	if err = o.Cancel(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, errs.WrapPersistence("save order", err)
	}

	// Product rows are locked in the ascending order checkout reserves in.
	items := o.Items()
	slices.SortFunc(items, func(a, b order.LineItem) int {
		return a.ProductID().Compare(b.ProductID())
	})

	ledger := uow.StockLedger()
	for _, item := range items {
		if err = ledger.Release(ctx, item.ProductID(), item.Quantity()); err != nil {
			return nil, errs.WrapPersistence("release stock for "+item.ProductID().String(), err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.WrapPersistence("commit order", err)
	}

	return o, nil
}
