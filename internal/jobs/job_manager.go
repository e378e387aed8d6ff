package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Job is a background task owned by JobManager.
type Job interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs    []Job
	started []Job
	logger  *slog.Logger
}

func NewJobManager(logger *slog.Logger, jobs ...Job) *JobManager {
	return &JobManager{
		jobs:   jobs,
		logger: logger.With("component", "job_manager"),
	}
}

// StartAll starts every job in order. If one fails, the ones already
// started are stopped again.
func (jm *JobManager) StartAll(ctx context.Context) error {
	for _, job := range jm.jobs {
		if err := job.Start(); err != nil {
			if stopErr := jm.StopAll(ctx); stopErr != nil {
				jm.logger.WarnContext(ctx, "failed to stop jobs after start failure", "error", stopErr)
			}
			return fmt.Errorf("failed to start %s job: %w", job.Name(), err)
		}
		jm.started = append(jm.started, job)
	}
	return nil
}

// StopAll stops the started jobs in reverse order and waits for running
// ticks to finish.
func (jm *JobManager) StopAll(ctx context.Context) error {
	var errList []error
	for i := len(jm.started) - 1; i >= 0; i-- {
		if err := jm.started[i].Stop(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	jm.started = nil
	return errors.Join(errList...)
}
