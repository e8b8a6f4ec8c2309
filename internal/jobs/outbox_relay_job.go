package jobs

import (
	"context"

	"eshop/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OutboxRelaySchedule runs the relay every second.
const OutboxRelaySchedule = "* * * * * *"

type outboxPublisher interface {
	Handle(ctx context.Context, cmd commands.PublishOutboxEventsCommand) (int, error)
}

// OutboxRelayJob hands pending outbox messages to the broker.
type OutboxRelayJob struct {
	handler outboxPublisher
	cmd     commands.PublishOutboxEventsCommand
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewOutboxRelayJob(
	handler outboxPublisher,
	cmd commands.PublishOutboxEventsCommand,
	logger *zap.Logger,
) *OutboxRelayJob {
	return &OutboxRelayJob{
		handler: handler,
		cmd:     cmd,
		cron:    newCron(),
		logger:  logger.With(zap.String("component", "outbox_relay_job")),
	}
}

// Run performs one relay pass. An empty outbox is not logged.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	published, err := j.handler.Handle(ctx, j.cmd)
	if published > 0 {
		j.logger.Debug("outbox events published", zap.Int("count", published))
	}
	if err != nil {
		j.logger.Error("outbox relay failed", zap.Int("published", published), zap.Error(err))
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(OutboxRelaySchedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("outbox relay job started", zap.String("schedule", OutboxRelaySchedule))
	return nil
}

// Stop waits for a running pass to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("outbox relay job stopped")
}
