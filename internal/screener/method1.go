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
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	stageAMaxCandidates = 50
	catalystNewsLimit   = 5
	minDailyBars        = 5
	momentumGapPercent  = 5
)

// catalystKeywords is checked in order against the most recent headline and
// description; the first match wins and determines the catalyst type.
var catalystKeywords = []string{
	"earnings", "beat", "upgrade", "fda", "approval", "contract", "acquisition", "guidance",
}

// Method1Strategy runs the 3-stage pipeline: liquidity/volatility scan,
// catalyst detection, technical setup validation. Only tickers surviving all
// three stages are persisted.
type Method1Strategy struct {
	cfg            *config.Config
	logger         *logger.Logger
	marketDataRepo repository.MarketDataRepository
	method1Repo    repository.Method1ResultRepository
	paramRepo      repository.ScreeningParamRepository
}

func NewMethod1Strategy(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	method1Repo repository.Method1ResultRepository,
	paramRepo repository.ScreeningParamRepository,
) *Method1Strategy {
	return &Method1Strategy{
		cfg:            cfg,
		logger:         log,
		marketDataRepo: marketDataRepo,
		method1Repo:    method1Repo,
		paramRepo:      paramRepo,
	}
}

func (s *Method1Strategy) GetType() JobType {
	return JobTypeMethod1Screener
}

func (s *Method1Strategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
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
	candidates := s.stageALiquidity(snapshot, params, stats)
	s.logger.InfoContext(ctx, "Method-1 stage A completed",
		logger.IntField("snapshot_size", len(snapshot)),
		logger.IntField("survivors", len(candidates)),
	)

	candidates = s.stageBCatalyst(ctx, candidates, stats)
	s.logger.InfoContext(ctx, "Method-1 stage B completed", logger.IntField("survivors", len(candidates)))

	survivors := s.stageCTechnical(ctx, candidates, stats)
	s.logger.InfoContext(ctx, "Method-1 stage C completed", logger.IntField("survivors", len(survivors)))

	screenDate := utils.ScreenDateToday()
	runID := uuid.NewString()
	rows := make([]model.Method1Result, 0, len(survivors))
	for _, c := range survivors {
		rows = append(rows, model.Method1Result{
			Ticker:               c.Ticker,
			LastPrice:            c.LastPrice,
			PreviousClose:        c.PreviousClose,
			GapPercent:           indicator.Round2(c.GapPercent),
			Volume:               c.Volume,
			AvgVolume:            c.AvgVolume,
			RelativeVolume:       c.RelativeVolume,
			LiquidityPassed:      true,
			CatalystPassed:       true,
			TechnicalSetupPassed: true,
			PassedMethod1:        true,
			CatalystType:         c.CatalystType,
			CatalystHeadline:     c.CatalystHeadline,
			ATR:                  indicator.Round2(c.ATR),
			VWAP:                 indicator.Round2(c.VWAP),
			EMA9:                 indicator.Round2(c.EMA9),
			EMA20:                indicator.Round2(c.EMA20),
			SuggestedEntry:       c.SuggestedEntry,
			SuggestedStop:        c.SuggestedStop,
			Target1:              c.Target1,
			Target2:              c.Target2,
		})
	}

	// Full replace for the day even when nothing survived, so a re-run is a
	// clean supersede rather than an accumulation.
	if err := s.method1Repo.ReplaceForDate(ctx, screenDate, runID, rows); err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to persist method-1 results: %w", err))
	}

	output, err := json.Marshal(dto.JobOutput{Results: rows, Count: len(rows), Stats: stats})
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to marshal results: %w", err))
	}

	if len(rows) == 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: string(output)}, nil
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(output)}, nil
}

// stageALiquidity filters the full snapshot on price bounds, absolute gap
// bounds, average volume and relative volume, then truncates to the top 50
// by relative volume. The truncation is a resource bound, not a quality
// filter; sorting first keeps the cutoff deterministic.
func (s *Method1Strategy) stageALiquidity(snapshot []dto.SnapshotTicker, params *model.ScreeningParameter, stats map[string]int) []dto.CandidateStock {
	var candidates []dto.CandidateStock

	for _, t := range snapshot {
		if t.Day == nil || t.PrevDay == nil || t.Day.Close <= 0 || t.PrevDay.Close <= 0 {
			stats[string(dto.SkipMissingData)]++
			continue
		}

		lastPrice := t.Day.Close
		previousClose := t.PrevDay.Close
		if lastPrice < params.MinPrice || lastPrice > params.MaxPrice {
			stats[string(dto.SkipPriceBounds)]++
			continue
		}

		gapPercent := indicator.GapPercent(lastPrice, previousClose)
		absGap := gapPercent
		if absGap < 0 {
			absGap = -absGap
		}
		if absGap < params.MinGapPercent || absGap > params.MaxGapPercent {
			stats[string(dto.SkipGapBounds)]++
			continue
		}

		// The snapshot carries no trailing 30-day average; the previous
		// session's volume is the baseline.
		avgVolume := t.PrevDay.Volume
		if avgVolume < params.MinAvgVolume {
			stats[string(dto.SkipAvgVolume)]++
			continue
		}

		relativeVolume := indicator.RelativeVolume(t.Day.Volume, avgVolume)
		if relativeVolume < params.MinRelativeVolume {
			stats[string(dto.SkipRelativeVolume)]++
			continue
		}

		candidates = append(candidates, dto.CandidateStock{
			Ticker:         t.Ticker,
			LastPrice:      lastPrice,
			PreviousClose:  previousClose,
			Volume:         t.Day.Volume,
			AvgVolume:      avgVolume,
			RelativeVolume: relativeVolume,
			GapPercent:     gapPercent,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].RelativeVolume > candidates[j].RelativeVolume
	})
	if len(candidates) > stageAMaxCandidates {
		candidates = candidates[:stageAMaxCandidates]
	}
	return candidates
}

// stageBCatalyst checks the latest news item for catalyst keywords. A strong
// gap substitutes for a missing catalyst, and a news fetch failure fails
// open to the gap fallback so strong gappers aren't lost to stale news.
func (s *Method1Strategy) stageBCatalyst(ctx context.Context, candidates []dto.CandidateStock, stats map[string]int) []dto.CandidateStock {
	var survivors []dto.CandidateStock

	for _, c := range candidates {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}

		news, err := s.marketDataRepo.GetNews(ctx, c.Ticker, catalystNewsLimit)
		pause(ctx, s.cfg.MarketData.CallDelay)
		if err != nil {
			s.logger.WarnContext(ctx, "News fetch failed, applying gap fallback only",
				logger.StringField("ticker", c.Ticker),
				logger.ErrorField(err),
			)
			news = nil
		}

		catalystType, headline := matchCatalyst(news)
		if catalystType == "" && c.GapPercent > momentumGapPercent {
			catalystType = dto.CatalystSectorMomentum
		}
		if catalystType == "" {
			stats[string(dto.SkipNoCatalyst)]++
			continue
		}

		c.CatalystType = catalystType
		c.CatalystHeadline = headline
		survivors = append(survivors, c)
	}
	return survivors
}

func matchCatalyst(news []dto.NewsItem) (catalystType, headline string) {
	if len(news) == 0 {
		return "", ""
	}
	latest := news[0]
	text := strings.ToLower(latest.Title + " " + latest.Description)

	for _, keyword := range catalystKeywords {
		if !strings.Contains(text, keyword) {
			continue
		}
		switch keyword {
		case "earnings":
			return dto.CatalystEarnings, latest.Title
		case "upgrade":
			return dto.CatalystAnalystUpgrade, latest.Title
		default:
			return dto.CatalystOther, latest.Title
		}
	}
	return "", ""
}

// stageCTechnical validates the intraday setup: price above VWAP and EMA9
// with the gap direction matching the benchmark's intraday direction. Both
// fetches per ticker run concurrently and are awaited jointly.
func (s *Method1Strategy) stageCTechnical(ctx context.Context, candidates []dto.CandidateStock, stats map[string]int) []dto.CandidateStock {
	var survivors []dto.CandidateStock

	now := utils.TimeNowET()
	from := utils.DaysAgo(now, 30)
	to := utils.ScreenDate(now)

	for _, c := range candidates {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}

		var (
			bars      []dto.AggBar
			benchmark *dto.SnapshotTicker
		)

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			bars, err = s.marketDataRepo.GetDailyBars(gCtx, c.Ticker, from, to)
			return err
		})
		g.Go(func() error {
			var err error
			benchmark, err = s.marketDataRepo.GetTickerSnapshot(gCtx, s.cfg.Screening.PrimaryBenchmark)
			return err
		})
		err := g.Wait()
		pause(ctx, s.cfg.MarketData.CallDelay)
		if err != nil {
			s.logger.WarnContext(ctx, "Technical data fetch failed, skipping ticker",
				logger.StringField("ticker", c.Ticker),
				logger.ErrorField(err),
			)
			stats[string(dto.SkipFetchFailed)]++
			continue
		}

		if len(bars) < minDailyBars {
			stats[string(dto.SkipTooFewBars)]++
			continue
		}

		closes := indicator.Closes(bars)
		c.EMA20 = indicator.SimpleAverageEMA(closes, indicator.EMA20Len)
		c.EMA9 = indicator.SimpleAverageEMA(closes, indicator.EMA9Len)
		c.VWAP = indicator.VWAP(bars, c.LastPrice)
		c.ATR = indicator.ATR(bars, indicator.ATRPeriod)
		c.ATRPercent = indicator.Round2(c.ATR / c.LastPrice * 100)

		if c.LastPrice <= c.VWAP || c.LastPrice <= c.EMA9 {
			stats[string(dto.SkipBelowIndicator)]++
			continue
		}
		if !indicator.SameDirection(c.GapPercent, benchmark.TodaysChangePerc) {
			stats[string(dto.SkipNotAligned)]++
			continue
		}

		entry := c.VWAP + 0.02*c.LastPrice
		stop := c.VWAP - c.ATR
		risk := entry - stop
		c.SuggestedEntry = indicator.Round2(entry)
		c.SuggestedStop = indicator.Round2(stop)
		c.Target1 = indicator.Round2(entry + 1.5*risk)
		c.Target2 = indicator.Round2(entry + 2.5*risk)

		survivors = append(survivors, c)
	}
	return survivors
}

func failedResult(exitCode int32, err error) (JobResult, error) {
	output, marshalErr := json.Marshal(dto.JobOutput{Error: err.Error()})
	if marshalErr != nil {
		output = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return JobResult{ExitCode: exitCode, Output: string(output)}, err
}
