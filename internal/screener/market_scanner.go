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
	"sort"
)

const gapReportSize = 20

// ScannerStrategy is the opportunistic morning gap scan. It reports only;
// nothing is persisted and the decision pipelines do not consume its output.
type ScannerStrategy struct {
	cfg            *config.Config
	logger         *logger.Logger
	marketDataRepo repository.MarketDataRepository
	paramRepo      repository.ScreeningParamRepository
}

func NewScannerStrategy(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	paramRepo repository.ScreeningParamRepository,
) *ScannerStrategy {
	return &ScannerStrategy{
		cfg:            cfg,
		logger:         log,
		marketDataRepo: marketDataRepo,
		paramRepo:      paramRepo,
	}
}

func (s *ScannerStrategy) GetType() JobType {
	return JobTypeMarketScanner
}

func (s *ScannerStrategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
	var override dto.ScreeningOverride
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &override); err != nil {
			return failedResult(JOB_EXIT_CODE_BAD_REQUEST, fmt.Errorf("invalid job payload: %w", err))
		}
	}

	params, err := s.paramRepo.GetMerged(ctx, &override)
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to load screening parameters: %w", err))
	}

	snapshot, err := s.marketDataRepo.GetFullSnapshot(ctx)
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to fetch market snapshot: %w", err))
	}

	stats := map[string]int{}
	var entries []dto.GapReportEntry
	for _, t := range snapshot {
		if t.Day == nil || t.PrevDay == nil || t.Day.Close <= 0 || t.PrevDay.Close <= 0 {
			stats[string(dto.SkipMissingData)]++
			continue
		}

		gapPercent := indicator.GapPercent(t.Day.Close, t.PrevDay.Close)
		absGap := gapPercent
		if absGap < 0 {
			absGap = -absGap
		}
		if absGap < params.MinGapPercent {
			continue
		}

		entries = append(entries, dto.GapReportEntry{
			Ticker:        t.Ticker,
			LastPrice:     t.Day.Close,
			PreviousClose: t.PrevDay.Close,
			GapPercent:    indicator.Round2(gapPercent),
			Volume:        t.Day.Volume,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		gi, gj := entries[i].GapPercent, entries[j].GapPercent
		if gi < 0 {
			gi = -gi
		}
		if gj < 0 {
			gj = -gj
		}
		return gi > gj
	})
	if len(entries) > gapReportSize {
		entries = entries[:gapReportSize]
	}

	s.logger.InfoContext(ctx, "Gap scan completed",
		logger.IntField("snapshot_size", len(snapshot)),
		logger.IntField("gappers", len(entries)),
	)

	output, err := json.Marshal(dto.JobOutput{Results: entries, Count: len(entries), Stats: stats})
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to marshal results: %w", err))
	}

	if len(entries) == 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: string(output)}, nil
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(output)}, nil
}
