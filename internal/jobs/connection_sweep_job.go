package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"foodorders/internal/core/ports"
)

// ConnectionSweepJob periodically removes expired push connection
// registrations. The registry already treats expired entries as absent;
// the sweep reclaims their index entries so fanout lookups stay small.
type ConnectionSweepJob struct {
	registry ports.ConnectionRegistry
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewConnectionSweepJob creates a job that purges expired connections.
func NewConnectionSweepJob(registry ports.ConnectionRegistry, logger *zap.Logger) *ConnectionSweepJob {
	return &ConnectionSweepJob{
		registry: registry,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "connection_sweep_job")),
	}
}

// Start begins the sweep, firing at the top of every minute.
func (j *ConnectionSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		purged, err := j.registry.PurgeExpired(ctx)
		if err != nil {
			j.logger.Error("connection sweep failed", zap.Error(err))
			return
		}

		if purged > 0 {
			j.logger.Info("purged expired connections", zap.Int("count", purged))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("connection sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *ConnectionSweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("connection sweep job stopped")
}
