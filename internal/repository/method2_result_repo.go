package repository

import (
	"context"
	"golang-screener/internal/model"

	"gorm.io/gorm"
)

type Method2ResultRepository interface {
	ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.Method2Result) error
	GetByDate(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method2Result, error)
}

type method2ResultRepository struct {
	db *gorm.DB
}

func NewMethod2ResultRepository(db *gorm.DB) Method2ResultRepository {
	return &method2ResultRepository{db: db}
}

func (r *method2ResultRepository) ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.Method2Result) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("screen_date = ?", screenDate).Delete(&model.Method2Result{}).Error; err != nil {
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

func (r *method2ResultRepository) GetByDate(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method2Result, error) {
	var latestRunID string
	err := r.db.WithContext(ctx).Model(&model.Method2Result{}).
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
		query = query.Where("passed_all_gates = ?", true)
	}

	var results []model.Method2Result
	if err := query.Order("ticker ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
