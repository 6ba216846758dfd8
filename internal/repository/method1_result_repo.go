package repository

import (
	"context"
	"golang-screener/internal/model"

	"gorm.io/gorm"
)

type Method1ResultRepository interface {
	// ReplaceForDate deletes the date's prior rows and writes the new run's
	// rows in one transaction, so a failed run never leaves only the deletes
	// applied.
	ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.Method1Result) error
	GetByDate(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method1Result, error)
}

type method1ResultRepository struct {
	db *gorm.DB
}

func NewMethod1ResultRepository(db *gorm.DB) Method1ResultRepository {
	return &method1ResultRepository{db: db}
}

func (r *method1ResultRepository) ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.Method1Result) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("screen_date = ?", screenDate).Delete(&model.Method1Result{}).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		for i := range results {
			results[i].RunID = runID
			results[i].ScreenDate = screenDate
		}
		return tx.CreateInBatches(results, 100).Error
	})
}

// GetByDate reads the date's rows, filtered to the latest run generation so
// an interleaved duplicate trigger cannot surface a mixed result set.
func (r *method1ResultRepository) GetByDate(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method1Result, error) {
	var latestRunID string
	err := r.db.WithContext(ctx).Model(&model.Method1Result{}).
		Select("run_id").
		Where("screen_date = ?", screenDate).
		Order("created_at DESC").
		Limit(1).
		Scan(&latestRunID).Error
	if err != nil {
		return nil, err
	}
	if latestRunID == "" {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Where("screen_date = ?", screenDate).
		Where("run_id = ?", latestRunID)
	if passedOnly {
		query = query.Where("passed_method1 = ?", true)
	}

	var results []model.Method1Result
	if err := query.Order("ticker ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
