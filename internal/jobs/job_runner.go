package jobs

import (
	"rentonomic-backend/internal/config"
	"rentonomic-backend/internal/logger"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/repository"
	"rentonomic-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store     repository.Store
	processor payment.Client
	webhooks  service.WebhookService
	config    *config.Config
}

func NewJobRunner(store repository.Store, processor payment.Client, webhooks service.WebhookService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:     store,
		processor: processor,
		webhooks:  webhooks,
		config:    cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
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
