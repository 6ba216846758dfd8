package service

import (
	"context"
	"golang-screener/config"
	"golang-screener/internal/model"
	"golang-screener/internal/repository"
	"golang-screener/pkg/logger"
	"golang-screener/pkg/utils"
)

type ResultService interface {
	GetMethod1Results(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method1Result, error)
	GetMethod2Results(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method2Result, error)
	GetMergedResults(ctx context.Context, screenDate string) ([]model.MergedResult, error)
}

type resultService struct {
	cfg         *config.Config
	log         *logger.Logger
	method1Repo repository.Method1ResultRepository
	method2Repo repository.Method2ResultRepository
	mergedRepo  repository.MergedResultRepository
}

func NewResultService(
	cfg *config.Config,
	log *logger.Logger,
	method1Repo repository.Method1ResultRepository,
	method2Repo repository.Method2ResultRepository,
	mergedRepo repository.MergedResultRepository,
) ResultService {
	return &resultService{
		cfg:         cfg,
		log:         log,
		method1Repo: method1Repo,
		method2Repo: method2Repo,
		mergedRepo:  mergedRepo,
	}
}

func defaultScreenDate(screenDate string) string {
	if screenDate == "" {
		return utils.ScreenDateToday()
	}
	return screenDate
}

func (s *resultService) GetMethod1Results(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method1Result, error) {
	return s.method1Repo.GetByDate(ctx, defaultScreenDate(screenDate), passedOnly)
}

func (s *resultService) GetMethod2Results(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method2Result, error) {
	return s.method2Repo.GetByDate(ctx, defaultScreenDate(screenDate), passedOnly)
}

func (s *resultService) GetMergedResults(ctx context.Context, screenDate string) ([]model.MergedResult, error) {
	return s.mergedRepo.GetByDate(ctx, defaultScreenDate(screenDate))
}
