package service

import (
	"context"
	"database/sql"
	"golang-screener/config"
	"golang-screener/internal/model"
	"golang-screener/internal/repository"
	"golang-screener/pkg/logger"
	"golang-screener/pkg/utils"
	"time"

	"github.com/robfig/cron/v3"
)

type SchedulerService interface {
	Run(ctx context.Context)
	CheckAndTriggerDueJobs(ctx context.Context) error
	TriggerJob(ctx context.Context, job *model.Job) error
}

// schedulerService polls the jobs table and dispatches due jobs through the
// task executor. Concurrency is bounded by a semaphore so a slow pipeline
// cannot pile up workers.
type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	jobRepo      repository.JobRepository
	taskExecutor TaskExecutor
	cronParser   cron.Parser
	semaphore    chan struct{}
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, jobRepo repository.JobRepository, taskExecutor TaskExecutor) SchedulerService {
	maxConcurrency := cfg.Scheduler.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &schedulerService{
		cfg:          cfg,
		log:          log,
		jobRepo:      jobRepo,
		taskExecutor: taskExecutor,
		cronParser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		semaphore:    make(chan struct{}, maxConcurrency),
	}
}

func (s *schedulerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Scheduler.TickInterval)
	defer ticker.Stop()

	s.log.Info("Scheduler started",
		logger.StringField("tick_interval", s.cfg.Scheduler.TickInterval.String()),
		logger.IntField("max_concurrency", cap(s.semaphore)),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped")
			return
		case <-ticker.C:
			if err := s.CheckAndTriggerDueJobs(ctx); err != nil {
				s.log.ErrorContext(ctx, "Failed to check due jobs", logger.ErrorField(err))
			}
		}
	}
}

func (s *schedulerService) CheckAndTriggerDueJobs(ctx context.Context) error {
	now := utils.TimeNowET()
	jobs, err := s.jobRepo.FindJobsToSchedule(ctx, now)
	if err != nil {
		return err
	}

	for i := range jobs {
		if !utils.ShouldContinue(ctx, s.log) {
			return nil
		}
		job := jobs[i]

		// A job with no next_execution yet is being seen for the first
		// time; stamp the schedule without running it.
		if !job.NextExecution.Valid {
			if err := s.scheduleNext(ctx, &job, now); err != nil {
				s.log.ErrorContext(ctx, "Failed to initialize job schedule",
					logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
			}
			continue
		}

		if err := s.TriggerJob(ctx, &job); err != nil {
			s.log.ErrorContext(ctx, "Failed to trigger job",
				logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
		}
	}
	return nil
}

func (s *schedulerService) TriggerJob(ctx context.Context, job *model.Job) error {
	now := utils.TimeNowET()

	run := &model.JobRun{
		JobID:     job.ID,
		Status:    model.StatusRunning,
		StartedAt: now,
	}
	if err := s.jobRepo.CreateJobRun(ctx, run); err != nil {
		return err
	}

	job.LastExecution = sql.NullTime{Time: now, Valid: true}
	if err := s.scheduleNext(ctx, job, now); err != nil {
		return err
	}

	s.semaphore <- struct{}{}
	utils.GoSafe(func() {
		defer func() { <-s.semaphore }()

		timeout := time.Duration(job.Timeout) * time.Second
		jobCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.taskExecutor.Execute(jobCtx, run); err != nil {
			s.log.Error("Job execution failed",
				logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
		}
	})
	return nil
}

func (s *schedulerService) scheduleNext(ctx context.Context, job *model.Job, now time.Time) error {
	schedule, err := s.cronParser.Parse(job.CronExpression)
	if err != nil {
		return err
	}
	job.NextExecution = sql.NullTime{Time: schedule.Next(now), Valid: true}
	return s.jobRepo.UpdateJob(ctx, job)
}
