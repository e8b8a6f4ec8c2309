package jobs

import (
	"context"

	"eshop/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CartReconciliationSchedule runs at the start of every minute.
const CartReconciliationSchedule = "0 * * * * *"

type staleCartReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileStaleCartsCommand) (int, error)
}

// CartReconciliationJob removes lines that a checkout ordered but failed to
// take out of the cart.
type CartReconciliationJob struct {
	handler staleCartReconciler
	cmd     commands.ReconcileStaleCartsCommand
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewCartReconciliationJob(
	handler staleCartReconciler,
	cmd commands.ReconcileStaleCartsCommand,
	logger *zap.Logger,
) *CartReconciliationJob {
	return &CartReconciliationJob{
		handler: handler,
		cmd:     cmd,
		cron:    newCron(),
		logger:  logger.With(zap.String("component", "cart_reconciliation_job")),
	}
}

func (j *CartReconciliationJob) Run(ctx context.Context) {
	reconciled, err := j.handler.Handle(ctx, j.cmd)
	if reconciled > 0 {
		j.logger.Info("stale carts reconciled", zap.Int("count", reconciled))
	}
	if err != nil {
		j.logger.Error("cart reconciliation failed", zap.Error(err))
	}
}

func (j *CartReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(CartReconciliationSchedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("cart reconciliation job started", zap.String("schedule", CartReconciliationSchedule))
	return nil
}

func (j *CartReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("cart reconciliation job stopped")
}
