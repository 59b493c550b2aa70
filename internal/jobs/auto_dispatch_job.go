package jobs

import (
	"context"
	"log/slog"

	"agrimarket/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AutoDispatchJob runs the scheduled dispatch sweep that pairs waiting
// orders with the best eligible courier. Runs every five seconds.
type AutoDispatchJob struct {
	handler commands.DispatchPendingOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAutoDispatchJob creates the job around the dispatch sweep handler.
func NewAutoDispatchJob(handler commands.DispatchPendingOrdersCommandHandler, logger *slog.Logger) *AutoDispatchJob {
	return &AutoDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "auto_dispatch_job"),
	}
}

// Start begins the dispatch sweep on a five second schedule. An empty sweep
// is a normal outcome and produces no log output; the handler itself logs
// per-order assignment failures and keeps sweeping.
func (j *AutoDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchPendingOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Auto dispatch sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto dispatch job started (running every five seconds)")
	return nil
}

// Stop stops the dispatch job.
func (j *AutoDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Auto dispatch job stopped")
}
