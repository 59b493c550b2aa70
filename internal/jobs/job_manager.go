// Package jobs provides the scheduled background tasks of the marketplace,
// built on github.com/robfig/cron/v3 and coordinated by JobManager.
package jobs

import (
	"fmt"
	"log/slog"

	"agrimarket/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	autoDispatchJob *AutoDispatchJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	dispatchHandler commands.DispatchPendingOrdersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		autoDispatchJob: NewAutoDispatchJob(dispatchHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.autoDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.autoDispatchJob.Stop()
}
