package screener

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"golang-screener/config"
	"golang-screener/internal/dto"
	"golang-screener/internal/indicator"
	"golang-screener/internal/model"
	"golang-screener/internal/repository"
	"golang-screener/pkg/logger"
	"golang-screener/pkg/utils"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	gainersUniverseSize     = 30
	gate3MinRelativeVolume  = 2.0
	gate3VWAPHoldRatio      = 0.995
	gateMinShares           = 10
	gapAndGoVolumeSpike     = 3.0
	qualityAPlusThreshold   = 6
	qualityAThreshold       = 4
	qualityBThreshold       = 2
	targetATRMultiple       = 2.0
	secondTargetATRMultiple = 3.0
)

// Method2Strategy is the 4-gate state machine: pre-market filter, technical
// alignment, execution confirmation, risk validation. A ticker only proceeds
// to gate N+1 when gate N passed; every ticker reaching Gate 4 is persisted
// regardless of final admission.
type Method2Strategy struct {
	cfg            *config.Config
	logger         *logger.Logger
	marketDataRepo repository.MarketDataRepository
	method2Repo    repository.Method2ResultRepository
	paramRepo      repository.ScreeningParamRepository
}

func NewMethod2Strategy(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	method2Repo repository.Method2ResultRepository,
	paramRepo repository.ScreeningParamRepository,
) *Method2Strategy {
	return &Method2Strategy{
		cfg:            cfg,
		logger:         log,
		marketDataRepo: marketDataRepo,
		method2Repo:    method2Repo,
		paramRepo:      paramRepo,
	}
}

func (s *Method2Strategy) GetType() JobType {
	return JobTypeMethod2Screener
}

func (s *Method2Strategy) Execute(ctx context.Context, job *model.Job) (JobResult, error) {
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

	gainers, err := s.marketDataRepo.GetGainersSnapshot(ctx)
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to fetch gainers snapshot: %w", err))
	}
	if len(gainers) > gainersUniverseSize {
		gainers = gainers[:gainersUniverseSize]
	}

	vixLevel, vixOK := s.fetchVolatilityIndex(ctx, params.MaxVIX)

	stats := map[string]int{}
	var gate4Candidates []dto.GateCandidate

	for _, t := range gainers {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}

		candidate, reason := s.gate1PreMarketFilter(t, params)
		if reason != dto.SkipNone {
			stats[string(reason)]++
			continue
		}

		reason = s.gate2TechnicalAlignment(ctx, candidate, params)
		if reason != dto.SkipNone {
			stats[string(reason)]++
			continue
		}

		reason = s.gate3ExecutionConfirmation(candidate)
		if reason != dto.SkipNone {
			stats[string(reason)]++
			continue
		}

		s.gate4RiskValidation(candidate, params, vixLevel, vixOK)
		gate4Candidates = append(gate4Candidates, *candidate)
	}

	screenDate := utils.ScreenDateToday()
	runID := uuid.NewString()
	rows := make([]model.Method2Result, 0, len(gate4Candidates))
	passedCount := 0
	for _, c := range gate4Candidates {
		if c.PassedAllGates {
			passedCount++
		}
		rows = append(rows, model.Method2Result{
			Ticker:          c.Ticker,
			LastPrice:       c.LastPrice,
			VolumeSpike:     c.VolumeSpike,
			ATRPercent:      indicator.Round2(c.ATRPercent),
			RelativeVolume:  c.RelativeVolume,
			VWAP:            indicator.Round2(c.VWAP),
			EMA9:            indicator.Round2(c.EMA9),
			EMA20:           indicator.Round2(c.EMA20),
			PassedGate1:     c.PassedGate1,
			PassedGate2:     c.PassedGate2,
			PassedGate3:     c.PassedGate3,
			PassedGate4:     c.PassedGate4,
			Gate1At:         sql.NullTime{Time: c.Gate1At, Valid: !c.Gate1At.IsZero()},
			Gate2At:         sql.NullTime{Time: c.Gate2At, Valid: !c.Gate2At.IsZero()},
			Gate3At:         sql.NullTime{Time: c.Gate3At, Valid: !c.Gate3At.IsZero()},
			Gate4At:         sql.NullTime{Time: c.Gate4At, Valid: !c.Gate4At.IsZero()},
			PassedAllGates:  c.PassedAllGates,
			RiskPerShare:    indicator.Round2(c.RiskPerShare),
			MaxShares:       c.MaxShares,
			RiskRewardRatio: indicator.Round2(c.RiskRewardRatio),
			SuggestedEntry:  indicator.Round2(c.SuggestedEntry),
			SuggestedStop:   indicator.Round2(c.SuggestedStop),
			Target1:         indicator.Round2(c.Target1),
			Target2:         indicator.Round2(c.Target2),
			SetupType:       c.SetupType,
			SetupQuality:    c.SetupQuality,
			QualityScore:    c.QualityScore,
			PrimaryTrend:    c.PrimaryTrend,
			SecondaryTrend:  c.SecondaryTrend,
			VIXLevel:        c.VIXLevel,
		})
	}

	if err := s.method2Repo.ReplaceForDate(ctx, screenDate, runID, rows); err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to persist method-2 results: %w", err))
	}

	s.logger.InfoContext(ctx, "Method-2 screening completed",
		logger.IntField("universe", len(gainers)),
		logger.IntField("reached_gate4", len(rows)),
		logger.IntField("passed_all_gates", passedCount),
	)

	output, err := json.Marshal(dto.JobOutput{Results: rows, Count: len(rows), Stats: stats})
	if err != nil {
		return failedResult(JOB_EXIT_CODE_FAILED, fmt.Errorf("failed to marshal results: %w", err))
	}

	if len(rows) == 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: string(output)}, nil
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(output)}, nil
}

// fetchVolatilityIndex reads the volatility index level once per run. On
// fetch failure the volatility check fails closed for every candidate.
func (s *Method2Strategy) fetchVolatilityIndex(ctx context.Context, maxVIX float64) (float64, bool) {
	snapshot, err := s.marketDataRepo.GetTickerSnapshot(ctx, s.cfg.Screening.VolatilityIndex)
	if err != nil || snapshot.Day == nil {
		s.logger.WarnContext(ctx, "Volatility index fetch failed, volatility check will fail",
			logger.ErrorField(err),
		)
		return 0, false
	}
	return snapshot.Day.Close, snapshot.Day.Close < maxVIX
}

// gate1PreMarketFilter screens the gainers universe on price bounds, volume
// spike and intraday range.
func (s *Method2Strategy) gate1PreMarketFilter(t dto.SnapshotTicker, params *model.ScreeningParameter) (*dto.GateCandidate, dto.SkipReason) {
	if t.Day == nil || t.PrevDay == nil || t.Day.Close <= 0 || t.PrevDay.Close <= 0 {
		return nil, dto.SkipMissingData
	}

	lastPrice := t.Day.Close
	if lastPrice < params.MinPrice || lastPrice > params.MaxPrice {
		return nil, dto.SkipPriceBounds
	}

	// Previous session volume stands in for the 30-day average baseline.
	avgVolume := t.PrevDay.Volume
	volumeSpike := indicator.RelativeVolume(t.Day.Volume, avgVolume)
	if volumeSpike < params.MinVolumeSpike {
		return nil, dto.SkipVolumeSpike
	}

	atrPercent := (t.Day.High - t.Day.Low) / lastPrice * 100
	if atrPercent < params.MinATRPercent {
		return nil, dto.SkipATRPercent
	}

	return &dto.GateCandidate{
		Ticker:        t.Ticker,
		LastPrice:     lastPrice,
		PreviousClose: t.PrevDay.Close,
		PreMarketVol:  t.Day.Volume,
		AvgVolume:     avgVolume,
		VolumeSpike:   volumeSpike,
		ATRPercent:    atrPercent,
		PassedGate1:   true,
		Gate1At:       utils.TimeNowET(),
	}, dto.SkipNone
}

// gate2TechnicalAlignment requires price above VWAP and EMA9, agreement with
// at least one benchmark's intraday direction, and relative volume at or
// above threshold. The ticker bars and the benchmark trends are fetched
// concurrently and awaited jointly.
func (s *Method2Strategy) gate2TechnicalAlignment(ctx context.Context, c *dto.GateCandidate, params *model.ScreeningParameter) dto.SkipReason {
	now := utils.TimeNowET()
	from := utils.DaysAgo(now, 30)
	to := utils.ScreenDate(now)

	var (
		bars               []dto.AggBar
		primary, secondary *dto.SnapshotTicker
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bars, err = s.marketDataRepo.GetDailyBars(gCtx, c.Ticker, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		primary, err = s.marketDataRepo.GetTickerSnapshot(gCtx, s.cfg.Screening.PrimaryBenchmark)
		if err != nil {
			return err
		}
		secondary, err = s.marketDataRepo.GetTickerSnapshot(gCtx, s.cfg.Screening.SecondaryBenchmark)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "Gate-2 data fetch failed, skipping ticker",
			logger.StringField("ticker", c.Ticker),
			logger.ErrorField(err),
		)
		return dto.SkipFetchFailed
	}

	if len(bars) < minDailyBars {
		return dto.SkipTooFewBars
	}

	closes := indicator.Closes(bars)
	c.EMA20 = indicator.SimpleAverageEMA(closes, indicator.EMA20Len)
	c.EMA9 = indicator.SimpleAverageEMA(closes, indicator.EMA9Len)
	c.VWAP = indicator.VWAP(bars, c.LastPrice)
	c.PrimaryTrend = indicator.Trend(primary.TodaysChangePerc)
	c.SecondaryTrend = indicator.Trend(secondary.TodaysChangePerc)

	// Same formula as gate 1's volume spike, recomputed by contract.
	c.RelativeVolume = indicator.RelativeVolume(c.PreMarketVol, c.AvgVolume)

	if c.LastPrice <= c.VWAP || c.LastPrice <= c.EMA9 {
		return dto.SkipBelowIndicator
	}

	tickerChange := c.LastPrice - c.PreviousClose
	aligned := indicator.SameDirection(tickerChange, primary.TodaysChangePerc) ||
		indicator.SameDirection(tickerChange, secondary.TodaysChangePerc)
	if !aligned {
		return dto.SkipNotAligned
	}

	if c.RelativeVolume < params.MinRelativeVolume {
		return dto.SkipRelativeVolume
	}

	c.PassedGate2 = true
	c.Gate2At = utils.TimeNowET()
	return dto.SkipNone
}

// gate3ExecutionConfirmation requires price holding within 0.5% below VWAP,
// stricter relative volume, and the primary benchmark not bearish.
func (s *Method2Strategy) gate3ExecutionConfirmation(c *dto.GateCandidate) dto.SkipReason {
	if c.LastPrice <= c.VWAP*gate3VWAPHoldRatio {
		return dto.SkipVWAPHold
	}
	if c.RelativeVolume < gate3MinRelativeVolume {
		return dto.SkipRelativeVolume
	}
	if c.PrimaryTrend == dto.TrendBearish {
		return dto.SkipMarketBearish
	}

	// noRejectionWick is a placeholder that always passes; real wick
	// rejection logic was never specified and changing it would change
	// screening outcomes.
	noRejectionWick := true
	_ = noRejectionWick

	c.PassedGate3 = true
	c.Gate3At = utils.TimeNowET()
	return dto.SkipNone
}

// gate4RiskValidation sizes the position, checks the volatility index, and
// classifies setup type and quality. Candidates reaching this gate are
// always persisted, pass or fail.
func (s *Method2Strategy) gate4RiskValidation(c *dto.GateCandidate, params *model.ScreeningParameter, vixLevel float64, vixOK bool) {
	atrMove := c.ATRPercent / 100 * c.LastPrice
	c.SuggestedEntry = c.VWAP + 0.01*c.LastPrice
	c.SuggestedStop = c.VWAP - atrMove
	c.RiskPerShare = c.SuggestedEntry - c.SuggestedStop
	c.Target1 = c.SuggestedEntry + targetATRMultiple*atrMove
	c.Target2 = c.SuggestedEntry + secondTargetATRMultiple*atrMove

	maxRiskDollars := params.AccountSize * params.MaxRiskPercent / 100
	if c.RiskPerShare > 0 {
		c.MaxShares = int(math.Floor(maxRiskDollars / c.RiskPerShare))
		c.RiskRewardRatio = (c.Target1 - c.SuggestedEntry) / c.RiskPerShare
	} else {
		c.MaxShares = 0
		c.RiskRewardRatio = 0
	}
	c.RiskCheckPassed = c.MaxShares >= gateMinShares && c.RiskPerShare > 0

	c.VIXLevel = vixLevel
	c.VolatilityOK = vixOK

	switch {
	case c.VolumeSpike > gapAndGoVolumeSpike:
		c.SetupType = dto.SetupGapAndGo
	case c.LastPrice > c.EMA20 && c.LastPrice > c.EMA9:
		c.SetupType = dto.SetupTrendContinuation
	default:
		c.SetupType = dto.SetupVWAPReclaim
	}

	c.QualityScore = qualityScore(c.VolumeSpike, c.PrimaryTrend, c.SecondaryTrend, c.RiskRewardRatio)
	c.SetupQuality = setupQuality(c.QualityScore)

	c.PassedGate4 = c.RiskCheckPassed && c.VolatilityOK
	c.Gate4At = utils.TimeNowET()
	c.PassedAllGates = c.PassedGate4 && c.RiskRewardRatio >= params.MinRiskReward
}

// qualityScore is a 0-7 additive score: volume spike tier (0/1/2), primary
// trend tier (0/1/2), secondary trend tier (0/1), risk/reward tier (0/1/2).
func qualityScore(volumeSpike float64, primaryTrend, secondaryTrend string, riskReward float64) int {
	score := 0

	switch {
	case volumeSpike >= 3:
		score += 2
	case volumeSpike >= 2:
		score += 1
	}

	switch primaryTrend {
	case dto.TrendBullish:
		score += 2
	case dto.TrendNeutral:
		score += 1
	}

	if secondaryTrend == dto.TrendBullish {
		score += 1
	}

	switch {
	case riskReward >= 2.5:
		score += 2
	case riskReward >= 2.0:
		score += 1
	}

	return score
}

func setupQuality(score int) string {
	switch {
	case score >= qualityAPlusThreshold:
		return dto.QualityAPlus
	case score >= qualityAThreshold:
		return dto.QualityA
	case score >= qualityBThreshold:
		return dto.QualityB
	default:
		return dto.QualityC
	}
}
