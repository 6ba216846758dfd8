package repository

import (
	"golang-screener/config"
	"golang-screener/pkg/cache"
	"golang-screener/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	JobRepo            JobRepository
	MarketDataRepo     MarketDataRepository
	ScreeningParamRepo ScreeningParamRepository
	Method1ResultRepo  Method1ResultRepository
	Method2ResultRepo  Method2ResultRepository
	MergedResultRepo   MergedResultRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		JobRepo:            NewJobRepository(db),
		MarketDataRepo:     NewMarketDataRepository(cfg, log),
		ScreeningParamRepo: NewScreeningParamRepository(cfg, inmemoryCache, db),
		Method1ResultRepo:  NewMethod1ResultRepository(db),
		Method2ResultRepo:  NewMethod2ResultRepository(db),
		MergedResultRepo:   NewMergedResultRepository(db),
	}, nil
}
