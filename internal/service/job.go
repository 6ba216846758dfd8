package service

import (
	"context"
	"fmt"
	"golang-screener/config"
	"golang-screener/internal/model"
	"golang-screener/internal/repository"
	"golang-screener/pkg/logger"
)

type JobService interface {
	GetJobs(ctx context.Context, param *model.GetJobParam) ([]model.Job, error)
	RunJobNow(ctx context.Context, jobID uint) error
}

type jobService struct {
	cfg       *config.Config
	log       *logger.Logger
	jobRepo   repository.JobRepository
	scheduler SchedulerService
}

func NewJobService(cfg *config.Config, log *logger.Logger, jobRepo repository.JobRepository, scheduler SchedulerService) JobService {
	return &jobService{cfg: cfg, log: log, jobRepo: jobRepo, scheduler: scheduler}
}

func (s *jobService) GetJobs(ctx context.Context, param *model.GetJobParam) ([]model.Job, error) {
	return s.jobRepo.Get(ctx, param)
}

// RunJobNow triggers a job out of schedule. The run still goes through the
// normal executor path so it shows up in job_runs like any scheduled run.
func (s *jobService) RunJobNow(ctx context.Context, jobID uint) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to find job %d: %w", jobID, err)
	}
	if !job.IsActive {
		return fmt.Errorf("job %d is not active", jobID)
	}
	return s.scheduler.TriggerJob(ctx, job)
}
