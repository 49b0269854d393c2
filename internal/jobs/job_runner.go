package jobs

import (
	"renthub-backend/internal/config"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository/postgres"
	"renthub-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs.
type JobRunner struct {
	store    *postgres.Store
	services *Services
	config   *config.Config
}

// Services holds the service dependencies jobs need.
type Services struct {
	Email service.EmailService
}

func NewJobRunner(store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once, for manual execution via the cronjob binary.
func (jr *JobRunner) RunAll() {
	jr.ExpireStaleContracts()
	jr.SendReturnReminders()
}
