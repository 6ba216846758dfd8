package repository

import (
	"context"
	"golang-screener/internal/model"

	"gorm.io/gorm"
)

type MergedResultRepository interface {
	ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.MergedResult) error
	GetByDate(ctx context.Context, screenDate string) ([]model.MergedResult, error)
}

type mergedResultRepository struct {
	db *gorm.DB
}

func NewMergedResultRepository(db *gorm.DB) MergedResultRepository {
	return &mergedResultRepository{db: db}
}

func (r *mergedResultRepository) ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.MergedResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("screen_date = ?", screenDate).Delete(&model.MergedResult{}).Error; err != nil {
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

func (r *mergedResultRepository) GetByDate(ctx context.Context, screenDate string) ([]model.MergedResult, error) {
	var latestRunID string
	err := r.db.WithContext(ctx).Model(&model.MergedResult{}).
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

	var results []model.MergedResult
	err = r.db.WithContext(ctx).
		Where("screen_date = ?", screenDate).
		Where("run_id = ?", latestRunID).
		Order("priority_score DESC, ticker ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
