package jobs

import (
	"fmt"

	"go.uber.org/zap"

	"foodorders/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	connectionSweepJob *ConnectionSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(registry ports.ConnectionRegistry, logger *zap.Logger) *JobManager {
	return &JobManager{
		connectionSweepJob: NewConnectionSweepJob(registry, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.connectionSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start connection sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.connectionSweepJob.Stop()
}
