package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"golang-screener/config"
	"golang-screener/internal/dto"
	"golang-screener/internal/indicator"
	"golang-screener/internal/model"
	"golang-screener/internal/repository"
	"golang-screener/pkg/logger"
	"golang-screener/pkg/utils"
	"sort"

	"github.com/google/uuid"
)

const (
	priorityBase          = 50
	priorityBothMethods   = 30
	prioritySingleMethod  = 15
	priorityPerBullish    = 5
	defaultStopRatio      = 0.97
	fallbackRiskReward    = 1.5
	defaultTargetRMultiple = 1.5
)

var qualityBonus = map[string]int{
	dto.QualityAPlus: 20,
	dto.QualityA:     15,
	dto.QualityB:     10,
	dto.QualityC:     5,
}

// CombinerStrategy merges the day's Method-1 and Method-2 passing sets into
// one prioritized, deduplicated list, fully replacing the prior merged set.
type CombinerStrategy struct {
	cfg            *config.Config
	logger         *logger.Logger
	marketDataRepo repository.MarketDataRepository
	method1Repo    repository.Method1ResultRepository
	method2Repo    repository.Method2ResultRepository
	mergedRepo     repository.MergedResultRepository
}

func NewCombinerStrategy(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	method1Repo repository.Method1ResultRepository,
	method2Repo repository.Method2ResultRepository,
	mergedRepo repository.MergedResultRepository,
) *CombinerStrategy {
	return &CombinerStrategy{
		cfg:            cfg,
		logger:         log,
		marketDataRepo: marketDataRepo,
		method1Repo:    method1Repo,
		method2Repo:    method2Repo,
		mergedRepo:     mergedRepo,
	}
}

func (s *CombinerStrategy) GetType() JobType {
	return JobTypeResultsCombiner
}

func (s *CombinerStrategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
	screenDate := utils.ScreenDateToday()

	method1Rows, err := s.method1Repo.GetByDate(ctx, screenDate, true)
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to read method-1 results: %w", err))
	}
	method2Rows, err := s.method2Repo.GetByDate(ctx, screenDate, true)
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to read method-2 results: %w", err))
	}

	bullishCount := s.countBullishBenchmarks(ctx)

	merged := s.merge(method1Rows, method2Rows, bullishCount)

	runID := uuid.NewString()
	if err := s.mergedRepo.ReplaceForDate(ctx, screenDate, runID, merged); err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to persist merged results: %w", err))
	}

	s.logger.InfoContext(ctx, "Results combined",
		logger.StringField("screen_date", screenDate),
		logger.IntField("method1_count", len(method1Rows)),
		logger.IntField("method2_count", len(method2Rows)),
		logger.IntField("merged_count", len(merged)),
	)

	stats := map[string]int{
		"method1":      len(method1Rows),
		"method2":      len(method2Rows),
		"both_methods": countBoth(merged),
	}
	output, err := json.Marshal(dto.JobOutput{Results: merged, Count: len(merged), Stats: stats})
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to marshal results: %w", err))
	}

	if len(merged) == 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: string(output)}, nil
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(output)}, nil
}

// countBullishBenchmarks checks the two benchmarks independently; a failed
// fetch contributes no bonus rather than failing the merge.
func (s *CombinerStrategy) countBullishBenchmarks(ctx context.Context) int {
	count := 0
	for _, symbol := range []string{s.cfg.Screening.PrimaryBenchmark, s.cfg.Screening.SecondaryBenchmark} {
		snapshot, err := s.marketDataRepo.GetTickerSnapshot(ctx, symbol)
		if err != nil {
			s.logger.WarnContext(ctx, "Benchmark trend fetch failed, no trend bonus",
				logger.StringField("benchmark", symbol),
				logger.ErrorField(err),
			)
			continue
		}
		if indicator.Trend(snapshot.TodaysChangePerc) == dto.TrendBullish {
			count++
		}
	}
	return count
}

func (s *CombinerStrategy) merge(method1Rows []model.Method1Result, method2Rows []model.Method2Result, bullishCount int) []model.MergedResult {
	m1ByTicker := make(map[string]model.Method1Result, len(method1Rows))
	for _, r := range method1Rows {
		m1ByTicker[r.Ticker] = r
	}
	m2ByTicker := make(map[string]model.Method2Result, len(method2Rows))
	for _, r := range method2Rows {
		m2ByTicker[r.Ticker] = r
	}

	tickers := make([]string, 0, len(m1ByTicker)+len(m2ByTicker))
	seen := map[string]bool{}
	for t := range m1ByTicker {
		tickers = append(tickers, t)
		seen[t] = true
	}
	for t := range m2ByTicker {
		if !seen[t] {
			tickers = append(tickers, t)
		}
	}
	sort.Strings(tickers)

	merged := make([]model.MergedResult, 0, len(tickers))
	for _, ticker := range tickers {
		m1, inMethod1 := m1ByTicker[ticker]
		m2, inMethod2 := m2ByTicker[ticker]

		row := model.MergedResult{
			Ticker:        ticker,
			InMethod1:     inMethod1,
			InMethod2:     inMethod2,
			InBothMethods: inMethod1 && inMethod2,
		}

		// Method-2 values win, Method-1 fills the gaps, then
		// price-relative defaults.
		if inMethod2 {
			row.LastPrice = m2.LastPrice
			row.SuggestedEntry = m2.SuggestedEntry
			row.SuggestedStop = m2.SuggestedStop
			row.Target1 = m2.Target1
			row.Target2 = m2.Target2
			row.SetupType = m2.SetupType
			row.SetupQuality = m2.SetupQuality
		}
		if inMethod1 {
			if row.LastPrice == 0 {
				row.LastPrice = m1.LastPrice
			}
			if row.SuggestedEntry == 0 {
				row.SuggestedEntry = m1.SuggestedEntry
			}
			if row.SuggestedStop == 0 {
				row.SuggestedStop = m1.SuggestedStop
			}
			if row.Target1 == 0 {
				row.Target1 = m1.Target1
			}
			if row.Target2 == 0 {
				row.Target2 = m1.Target2
			}
			row.CatalystType = m1.CatalystType
		}
		applyPriceDefaults(&row)

		row.RiskRewardRatio = recomputeRiskReward(row.SuggestedEntry, row.SuggestedStop, row.Target1)
		row.PriorityScore = priorityScore(row.InMethod1, row.InMethod2, row.SetupQuality, row.RiskRewardRatio, bullishCount)

		merged = append(merged, row)
	}
	return merged
}

func applyPriceDefaults(row *model.MergedResult) {
	if row.SuggestedEntry == 0 {
		row.SuggestedEntry = row.LastPrice
	}
	if row.SuggestedStop == 0 {
		row.SuggestedStop = indicator.Round2(row.LastPrice * defaultStopRatio)
	}
	if row.Target1 == 0 {
		row.Target1 = indicator.Round2(row.SuggestedEntry + defaultTargetRMultiple*(row.SuggestedEntry-row.SuggestedStop))
	}
	if row.Target2 == 0 {
		row.Target2 = indicator.Round2(row.SuggestedEntry + 2.5*(row.SuggestedEntry-row.SuggestedStop))
	}
}

// recomputeRiskReward derives the ratio fresh from the chosen levels instead
// of trusting either method's stored value.
func recomputeRiskReward(entry, stop, target1 float64) float64 {
	if entry <= stop {
		return fallbackRiskReward
	}
	return indicator.Round2((target1 - entry) / (entry - stop))
}

// priorityScore is additive and clamped to [0,100]: base 50, membership
// bonus, setup quality bonus, risk/reward bonus, +5 per bullish benchmark.
func priorityScore(inMethod1, inMethod2 bool, setupQuality string, riskReward float64, bullishCount int) int {
	score := priorityBase

	if inMethod1 && inMethod2 {
		score += priorityBothMethods
	} else if inMethod1 || inMethod2 {
		score += prioritySingleMethod
	}

	score += qualityBonus[setupQuality]

	switch {
	case riskReward >= 2.5:
		score += 15
	case riskReward >= 2.0:
		score += 10
	case riskReward >= 1.5:
		score += 5
	}

	score += priorityPerBullish * bullishCount

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func countBoth(rows []model.MergedResult) int {
	count := 0
	for _, r := range rows {
		if r.InBothMethods {
			count++
		}
	}
	return count
}
