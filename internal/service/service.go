package service

import (
	"golang-screener/config"
	"golang-screener/internal/repository"
	"golang-screener/internal/screener"
	"golang-screener/pkg/cache"
	"golang-screener/pkg/logger"
)

type Service struct {
	SchedulerService SchedulerService
	TaskExecutor     TaskExecutor
	AnalyzerService  AnalyzerService
	JobService       JobService
	ResultService    ResultService
}

func NewService(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache, repo *repository.Repository) (*Service, error) {
	strategies := []screener.JobExecutionStrategy{
		screener.NewScannerStrategy(cfg, log, repo.MarketDataRepo, repo.ScreeningParamRepo),
		screener.NewMethod1Strategy(cfg, log, repo.MarketDataRepo, repo.Method1ResultRepo, repo.ScreeningParamRepo),
		screener.NewMethod2Strategy(cfg, log, repo.MarketDataRepo, repo.Method2ResultRepo, repo.ScreeningParamRepo),
		screener.NewCombinerStrategy(cfg, log, repo.MarketDataRepo, repo.Method1ResultRepo, repo.Method2ResultRepo, repo.MergedResultRepo),
	}

	executorStrategies := make(map[screener.JobType]screener.JobExecutionStrategy, len(strategies))
	for _, strategy := range strategies {
		executorStrategies[strategy.GetType()] = strategy
	}

	taskExecutor := NewTaskExecutor(cfg, log, repo.JobRepo, executorStrategies)
	schedulerService := NewSchedulerService(cfg, log, repo.JobRepo, taskExecutor)

	return &Service{
		SchedulerService: schedulerService,
		TaskExecutor:     taskExecutor,
		AnalyzerService:  NewAnalyzerService(cfg, log, repo.MarketDataRepo),
		JobService:       NewJobService(cfg, log, repo.JobRepo, schedulerService),
		ResultService:    NewResultService(cfg, log, repo.Method1ResultRepo, repo.Method2ResultRepo, repo.MergedResultRepo),
	}, nil
}
