package repository

import (
	"context"
	"golang-screener/internal/model"
	"time"

	"gorm.io/gorm"
)

type JobRepository interface {
	FindJobsToSchedule(ctx context.Context, now time.Time) ([]model.Job, error)
	FindByID(ctx context.Context, id uint) (*model.Job, error)
	Get(ctx context.Context, param *model.GetJobParam) ([]model.Job, error)
	UpdateJob(ctx context.Context, job *model.Job) error
	CreateJobRun(ctx context.Context, run *model.JobRun) error
	UpdateJobRun(ctx context.Context, run *model.JobRun) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) FindJobsToSchedule(ctx context.Context, now time.Time) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("next_execution IS NULL OR next_execution <= ?", now).
		Order("id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Get(ctx context.Context, param *model.GetJobParam) ([]model.Job, error) {
	query := r.db.WithContext(ctx)
	if len(param.IDs) > 0 {
		query = query.Where("id IN ?", param.IDs)
	}
	if len(param.Types) > 0 {
		query = query.Where("type IN ?", param.Types)
	}
	if param.IsActive != nil {
		query = query.Where("is_active = ?", *param.IsActive)
	}
	if param.Limit != nil {
		query = query.Limit(*param.Limit)
	}

	var jobs []model.Job
	if err := query.Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) UpdateJob(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) CreateJobRun(ctx context.Context, run *model.JobRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *jobRepository) UpdateJobRun(ctx context.Context, run *model.JobRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}
