package service

import (
	"context"
	"fmt"
	"golang-screener/config"
	"golang-screener/internal/dto"
	"golang-screener/internal/indicator"
	"golang-screener/internal/repository"
	"golang-screener/pkg/logger"
	"golang-screener/pkg/utils"

	"golang.org/x/sync/errgroup"
)

type AnalyzerService interface {
	AnalyzeStock(ctx context.Context, ticker string) (*dto.StockReport, error)
}

// analyzerService builds the on-demand multi-indicator report for one
// ticker. Reporting only; it writes nothing.
type analyzerService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
}

func NewAnalyzerService(cfg *config.Config, log *logger.Logger, marketDataRepo repository.MarketDataRepository) AnalyzerService {
	return &analyzerService{cfg: cfg, log: log, marketDataRepo: marketDataRepo}
}

func (s *analyzerService) AnalyzeStock(ctx context.Context, ticker string) (*dto.StockReport, error) {
	now := utils.TimeNowET()
	from := utils.DaysAgo(now, 30)
	to := utils.ScreenDate(now)

	var (
		snapshot *dto.SnapshotTicker
		bars     []dto.AggBar
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.marketDataRepo.GetTickerSnapshot(gCtx, ticker)
		return err
	})
	g.Go(func() error {
		var err error
		bars, err = s.marketDataRepo.GetDailyBars(gCtx, ticker, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch data for %s: %w", ticker, err)
	}

	if snapshot.Day == nil || snapshot.PrevDay == nil {
		return nil, fmt.Errorf("no snapshot data available for %s", ticker)
	}

	lastPrice := snapshot.Day.Close
	previousClose := snapshot.PrevDay.Close
	avgVolume := snapshot.PrevDay.Volume

	closes := indicator.Closes(bars)
	vwap := indicator.VWAP(bars, lastPrice)
	ema9 := indicator.SimpleAverageEMA(closes, indicator.EMA9Len)
	ema20 := indicator.SimpleAverageEMA(closes, indicator.EMA20Len)
	atr := indicator.ATR(bars, indicator.ATRPeriod)

	atrPercent := 0.0
	if lastPrice > 0 {
		atrPercent = indicator.Round2(atr / lastPrice * 100)
	}

	report := &dto.StockReport{
		Ticker:         ticker,
		LastPrice:      lastPrice,
		PreviousClose:  previousClose,
		GapPercent:     indicator.Round2(indicator.GapPercent(lastPrice, previousClose)),
		Volume:         snapshot.Day.Volume,
		AvgVolume:      avgVolume,
		RelativeVolume: indicator.RelativeVolume(snapshot.Day.Volume, avgVolume),
		VWAP:           indicator.Round2(vwap),
		EMA9:           indicator.Round2(ema9),
		EMA20:          indicator.Round2(ema20),
		ATR:            indicator.Round2(atr),
		ATRPercent:     atrPercent,
		AboveVWAP:      lastPrice > vwap,
		AboveEMA9:      lastPrice > ema9,
		AboveEMA20:     lastPrice > ema20,
		BarCount:       len(bars),
	}

	s.log.DebugContext(ctx, "Stock analyzed",
		logger.StringField("ticker", ticker),
		logger.IntField("bar_count", len(bars)),
	)
	return report, nil
}
