package screener

import (
	"context"
	"errors"
	"golang-screener/config"
	"golang-screener/internal/dto"
	"golang-screener/internal/model"
	"golang-screener/pkg/logger"

	"go.uber.org/zap"
)

// fakeMarketDataRepo implements repository.MarketDataRepository with
// per-method function fields; unset methods return a sentinel error.
type fakeMarketDataRepo struct {
	fullSnapshotFn   func(ctx context.Context) ([]dto.SnapshotTicker, error)
	gainersFn        func(ctx context.Context) ([]dto.SnapshotTicker, error)
	tickerSnapshotFn func(ctx context.Context, ticker string) (*dto.SnapshotTicker, error)
	dailyBarsFn      func(ctx context.Context, ticker, from, to string) ([]dto.AggBar, error)
	newsFn           func(ctx context.Context, ticker string, limit int) ([]dto.NewsItem, error)
}

var errNotStubbed = errors.New("method not stubbed")

func (f *fakeMarketDataRepo) GetFullSnapshot(ctx context.Context) ([]dto.SnapshotTicker, error) {
	if f.fullSnapshotFn == nil {
		return nil, errNotStubbed
	}
	return f.fullSnapshotFn(ctx)
}

func (f *fakeMarketDataRepo) GetGainersSnapshot(ctx context.Context) ([]dto.SnapshotTicker, error) {
	if f.gainersFn == nil {
		return nil, errNotStubbed
	}
	return f.gainersFn(ctx)
}

func (f *fakeMarketDataRepo) GetTickerSnapshot(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
	if f.tickerSnapshotFn == nil {
		return nil, errNotStubbed
	}
	return f.tickerSnapshotFn(ctx, ticker)
}

func (f *fakeMarketDataRepo) GetDailyBars(ctx context.Context, ticker, from, to string) ([]dto.AggBar, error) {
	if f.dailyBarsFn == nil {
		return nil, errNotStubbed
	}
	return f.dailyBarsFn(ctx, ticker, from, to)
}

func (f *fakeMarketDataRepo) GetNews(ctx context.Context, ticker string, limit int) ([]dto.NewsItem, error) {
	if f.newsFn == nil {
		return nil, errNotStubbed
	}
	return f.newsFn(ctx, ticker, limit)
}

type fakeParamRepo struct {
	params *model.ScreeningParameter
}

func (f *fakeParamRepo) Get(ctx context.Context) (*model.ScreeningParameter, error) {
	if f.params == nil {
		return model.DefaultScreeningParameters(), nil
	}
	return f.params, nil
}

func (f *fakeParamRepo) GetMerged(ctx context.Context, override *dto.ScreeningOverride) (*model.ScreeningParameter, error) {
	return f.Get(ctx)
}

type fakeMethod1Repo struct {
	replacedDate string
	replacedRows []model.Method1Result
	rows         []model.Method1Result
}

func (f *fakeMethod1Repo) ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.Method1Result) error {
	f.replacedDate = screenDate
	f.replacedRows = results
	return nil
}

func (f *fakeMethod1Repo) GetByDate(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method1Result, error) {
	return f.rows, nil
}

type fakeMethod2Repo struct {
	replacedDate string
	replacedRows []model.Method2Result
	rows         []model.Method2Result
}

func (f *fakeMethod2Repo) ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.Method2Result) error {
	f.replacedDate = screenDate
	f.replacedRows = results
	return nil
}

func (f *fakeMethod2Repo) GetByDate(ctx context.Context, screenDate string, passedOnly bool) ([]model.Method2Result, error) {
	return f.rows, nil
}

type fakeMergedRepo struct {
	replacedDate string
	replacedRows []model.MergedResult
}

func (f *fakeMergedRepo) ReplaceForDate(ctx context.Context, screenDate, runID string, results []model.MergedResult) error {
	f.replacedDate = screenDate
	f.replacedRows = results
	return nil
}

func (f *fakeMergedRepo) GetByDate(ctx context.Context, screenDate string) ([]model.MergedResult, error) {
	return f.replacedRows, nil
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func testConfig() *config.Config {
	return &config.Config{
		Screening: config.Screening{
			PrimaryBenchmark:   "SPY",
			SecondaryBenchmark: "QQQ",
			VolatilityIndex:    "I:VIX",
		},
	}
}

// flatBars builds n identical bars: high 10, low 9, close/vwap 9.5. With
// every true range equal to 1 the ATR is exactly 1 regardless of period.
func flatBars(n int) []dto.AggBar {
	bars := make([]dto.AggBar, n)
	for i := range bars {
		bars[i] = dto.AggBar{Open: 9.2, High: 10, Low: 9, Close: 9.5, Volume: 100000, VWAP: 9.5}
	}
	return bars
}

func snapshotTicker(ticker string, dayClose, prevClose, dayVol, prevVol float64) dto.SnapshotTicker {
	return dto.SnapshotTicker{
		Ticker:  ticker,
		Day:     &dto.SnapshotBar{Open: prevClose, High: dayClose * 1.02, Low: prevClose * 0.99, Close: dayClose, Volume: dayVol},
		PrevDay: &dto.SnapshotBar{Open: prevClose, High: prevClose, Low: prevClose, Close: prevClose, Volume: prevVol},
	}
}
