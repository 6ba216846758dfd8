package repository

import (
	"context"
	"errors"
	"golang-screener/config"
	"golang-screener/internal/dto"
	"golang-screener/internal/model"
	"golang-screener/pkg/cache"

	"gorm.io/gorm"
)

const screeningParamCacheKey = "screening_parameters"

type ScreeningParamRepository interface {
	Get(ctx context.Context) (*model.ScreeningParameter, error)
	GetMerged(ctx context.Context, override *dto.ScreeningOverride) (*model.ScreeningParameter, error)
}

type screeningParamRepository struct {
	cfg           *config.Config
	inmemoryCache cache.Cache
	db            *gorm.DB
}

func NewScreeningParamRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB) ScreeningParamRepository {
	return &screeningParamRepository{cfg: cfg, inmemoryCache: inmemoryCache, db: db}
}

// Get returns the configured thresholds, or the built-in defaults when no
// row exists. An absent record is not an error.
func (s *screeningParamRepository) Get(ctx context.Context) (*model.ScreeningParameter, error) {
	if val, found := cache.GetFromCache[*model.ScreeningParameter](screeningParamCacheKey); found {
		return val, nil
	}

	var param model.ScreeningParameter
	if err := s.db.WithContext(ctx).Order("id ASC").First(&param).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultScreeningParameters(), nil
		}
		return nil, err
	}

	s.inmemoryCache.Set(screeningParamCacheKey, &param, s.cfg.Cache.ParamExpDuration)
	return &param, nil
}

// GetMerged overlays a partial per-job override on top of the stored (or
// default) thresholds. The stored row is copied, never mutated.
func (s *screeningParamRepository) GetMerged(ctx context.Context, override *dto.ScreeningOverride) (*model.ScreeningParameter, error) {
	base, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	merged := *base
	if override == nil {
		return &merged, nil
	}

	if override.MinPrice != nil {
		merged.MinPrice = *override.MinPrice
	}
	if override.MaxPrice != nil {
		merged.MaxPrice = *override.MaxPrice
	}
	if override.MinAvgVolume != nil {
		merged.MinAvgVolume = *override.MinAvgVolume
	}
	if override.MinGapPercent != nil {
		merged.MinGapPercent = *override.MinGapPercent
	}
	if override.MaxGapPercent != nil {
		merged.MaxGapPercent = *override.MaxGapPercent
	}
	if override.MinRelativeVolume != nil {
		merged.MinRelativeVolume = *override.MinRelativeVolume
	}
	if override.MinVolumeSpike != nil {
		merged.MinVolumeSpike = *override.MinVolumeSpike
	}
	if override.MinATRPercent != nil {
		merged.MinATRPercent = *override.MinATRPercent
	}
	if override.MaxVIX != nil {
		merged.MaxVIX = *override.MaxVIX
	}
	if override.MinRiskReward != nil {
		merged.MinRiskReward = *override.MinRiskReward
	}
	if override.AccountSize != nil {
		merged.AccountSize = *override.AccountSize
	}
	if override.MaxRiskPercent != nil {
		merged.MaxRiskPercent = *override.MaxRiskPercent
	}
	return &merged, nil
}
