// Package jobs provides scheduled background tasks for the ordering system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping required for the notification pipeline.
//
// # Available Jobs
//
// 1. ConnectionSweepJob - Runs every minute to purge expired push connection
// registrations from the registry
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(connectionRegistry, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("failed to start jobs", zap.Error(err))
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "0 * * * * *", firing at the top of
// every minute. Registrations self-expire in Redis; the sweep only cleans
// the secondary indexes so lookups stay small.
package jobs
