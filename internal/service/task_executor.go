package service

import (
	"context"
	"database/sql"
	"fmt"
	"golang-screener/config"
	"golang-screener/internal/model"
	"golang-screener/internal/repository"
	"golang-screener/internal/screener"
	"golang-screener/pkg/logger"
	"golang-screener/pkg/utils"
)

type TaskExecutor interface {
	Execute(ctx context.Context, run *model.JobRun) error
}

type taskExecutor struct {
	cfg                *config.Config
	log                *logger.Logger
	jobRepo            repository.JobRepository
	executorStrategies map[screener.JobType]screener.JobExecutionStrategy
}

func NewTaskExecutor(cfg *config.Config, log *logger.Logger, jobRepo repository.JobRepository, executorStrategies map[screener.JobType]screener.JobExecutionStrategy) TaskExecutor {
	return &taskExecutor{
		cfg:                cfg,
		log:                log,
		jobRepo:            jobRepo,
		executorStrategies: executorStrategies,
	}
}

func (t *taskExecutor) Execute(ctx context.Context, run *model.JobRun) error {
	t.log.InfoContext(ctx, "Processing job",
		logger.IntField("job_id", int(run.JobID)),
		logger.IntField("run_id", int(run.ID)),
	)

	job, err := t.jobRepo.FindByID(ctx, run.JobID)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to find job", logger.ErrorField(err), logger.IntField("job_id", int(run.JobID)))
		return fmt.Errorf("failed to find job: %w", err)
	}

	strategy := t.executorStrategies[screener.JobType(job.Type)]
	if strategy == nil {
		t.log.ErrorContext(ctx, "Job type not found", logger.StringField("job_type", job.Type))
		run.Status = model.StatusFailed
		run.ErrorMessage = sql.NullString{String: "job type not found", Valid: true}
	} else {
		result, err := strategy.Execute(ctx, job)
		if err != nil {
			t.log.ErrorContext(ctx, "Failed to execute job", logger.ErrorField(err), logger.IntField("job_id", int(run.JobID)))
			run.Status = model.StatusFailed
			run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		} else {
			run.Status = model.StatusCompleted
		}
		run.ExitCode = sql.NullInt32{Int32: result.ExitCode, Valid: true}
		run.Output = sql.NullString{String: result.Output, Valid: true}
	}

	run.CompletedAt = sql.NullTime{Time: utils.TimeNowET(), Valid: true}
	if err := t.jobRepo.UpdateJobRun(ctx, run); err != nil {
		t.log.ErrorContext(ctx, "Failed to update job run", logger.ErrorField(err), logger.IntField("job_id", int(run.JobID)))
		return fmt.Errorf("failed to update job run: %w", err)
	}

	return nil
}
