package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	ID             uint           `gorm:"primaryKey"`
	Name           string         `gorm:"type:varchar(255);not null"`
	Description    string         `gorm:"type:text"`
	Type           string         `gorm:"type:varchar(50);not null"`
	Payload        datatypes.JSON `gorm:"type:jsonb"`
	CronExpression string         `gorm:"type:varchar(64);not null"`
	Timeout        int            `gorm:"default:300"`
	IsActive       bool           `gorm:"default:true"`
	LastExecution  sql.NullTime
	NextExecution  sql.NullTime
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
	Runs           []JobRun  `gorm:"foreignKey:JobID"`
}

func (Job) TableName() string {
	return "jobs"
}

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// JobRun records one execution of a job, carrying the result envelope the
// pipeline returned (HTTP-style exit code plus output body).
type JobRun struct {
	ID           uint   `gorm:"primaryKey"`
	JobID        uint   `gorm:"not null;index"`
	Status       string `gorm:"type:varchar(16);not null"`
	ExitCode     sql.NullInt32
	Output       sql.NullString `gorm:"type:text"`
	ErrorMessage sql.NullString `gorm:"type:text"`
	StartedAt    time.Time      `gorm:"not null"`
	CompletedAt  sql.NullTime
}

func (JobRun) TableName() string {
	return "job_runs"
}

type GetJobParam struct {
	IDs      []uint
	Types    []string
	IsActive *bool
	Limit    *int
}
