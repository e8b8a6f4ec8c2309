package commands

import (
	"context"

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

// PayOrderCommandHandler moves an order from pending_payment to paid. Stock
// is untouched; it was taken at checkout.
type PayOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewPayOrderCommandHandler(uowFactory OrderUoWFactory, logger *zap.Logger, m *metrics.Metrics) PayOrderCommandHandler {
	return PayOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     logging.Component(logger, "pay_order"),
		metrics:    m,
	}
}

// Handle returns the paid order, an errs.ObjectNotFoundError for an unknown
// order, or an errs.InvalidTransitionError when the order is already paid
// or cancelled.
func (h PayOrderCommandHandler) Handle(ctx context.Context, cmd PayOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "PayOrder", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
	))
	defer span.End()

	paid, err := h.pay(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	h.metrics.ObserveTransition(paid.Status().String())
	logging.WithTrace(ctx, h.logger).Info("order paid",
		zap.String("order_id", paid.ID().String()),
		zap.String("customer_id", paid.CustomerID().String()),
		zap.String("total", paid.TotalAmount().String()),
	)
	return paid, nil
}

func (h PayOrderCommandHandler) pay(ctx context.Context, cmd PayOrderCommand) (*order.Order, error) {
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

	if err = o.Pay(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, errs.WrapPersistence("save order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.WrapPersistence("commit order", err)
	}

	return o, nil
}
