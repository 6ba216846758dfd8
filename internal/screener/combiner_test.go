package screener

import (
	"context"
	"errors"
	"golang-screener/internal/dto"
	"golang-screener/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCombinerForTest(market *fakeMarketDataRepo, m1 *fakeMethod1Repo, m2 *fakeMethod2Repo, merged *fakeMergedRepo) *CombinerStrategy {
	return NewCombinerStrategy(testConfig(), testLogger(), market, m1, m2, merged)
}

func bullishBenchmarks() *fakeMarketDataRepo {
	return &fakeMarketDataRepo{
		tickerSnapshotFn: func(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
			return &dto.SnapshotTicker{Ticker: ticker, TodaysChangePerc: 1.0}, nil
		},
	}
}

func TestCombinerMerge(t *testing.T) {
	s := newCombinerForTest(bullishBenchmarks(), &fakeMethod1Repo{}, &fakeMethod2Repo{}, &fakeMergedRepo{})

	m1Rows := []model.Method1Result{
		{Ticker: "BOTH", LastPrice: 10, SuggestedEntry: 9.7, SuggestedStop: 8.5, Target1: 11.5, Target2: 12.7, CatalystType: dto.CatalystEarnings},
		{Ticker: "ONLY1", LastPrice: 20, SuggestedEntry: 20.5, SuggestedStop: 19.5, Target1: 22, Target2: 23, CatalystType: dto.CatalystOther},
	}
	m2Rows := []model.Method2Result{
		{Ticker: "BOTH", LastPrice: 10.1, SuggestedEntry: 10, SuggestedStop: 9.4, Target1: 11, Target2: 11.5, SetupType: dto.SetupGapAndGo, SetupQuality: dto.QualityAPlus},
		{Ticker: "ONLY2", LastPrice: 30, SuggestedEntry: 30.3, SuggestedStop: 29.1, Target1: 32.7, Target2: 33.9, SetupType: dto.SetupVWAPReclaim, SetupQuality: dto.QualityB},
	}

	merged := s.merge(m1Rows, m2Rows, 0)
	require.Len(t, merged, 3)

	byTicker := map[string]model.MergedResult{}
	for _, row := range merged {
		byTicker[row.Ticker] = row
		assert.Equal(t, row.InMethod1 && row.InMethod2, row.InBothMethods)
		assert.GreaterOrEqual(t, row.PriorityScore, 0)
		assert.LessOrEqual(t, row.PriorityScore, 100)
	}

	both := byTicker["BOTH"]
	assert.True(t, both.InBothMethods)
	// Method-2 levels win when both methods carry the ticker.
	assert.Equal(t, 10.0, both.SuggestedEntry)
	assert.Equal(t, 9.4, both.SuggestedStop)
	assert.Equal(t, 11.0, both.Target1)
	assert.Equal(t, dto.SetupGapAndGo, both.SetupType)
	// Method-1's catalyst survives the merge.
	assert.Equal(t, dto.CatalystEarnings, both.CatalystType)
	// Ratio is recomputed from the chosen levels: (11-10)/(10-9.4).
	assert.InDelta(t, 1.67, both.RiskRewardRatio, 1e-9)

	only1 := byTicker["ONLY1"]
	assert.True(t, only1.InMethod1)
	assert.False(t, only1.InMethod2)
	assert.Equal(t, 20.5, only1.SuggestedEntry)

	only2 := byTicker["ONLY2"]
	assert.False(t, only2.InMethod1)
	assert.True(t, only2.InMethod2)
	assert.Equal(t, dto.QualityB, only2.SetupQuality)
}

func TestApplyPriceDefaults(t *testing.T) {
	row := model.MergedResult{Ticker: "BARE", LastPrice: 10}
	applyPriceDefaults(&row)

	assert.Equal(t, 10.0, row.SuggestedEntry)
	assert.InDelta(t, 9.7, row.SuggestedStop, 1e-9)
	assert.InDelta(t, 10.45, row.Target1, 1e-9)
	assert.InDelta(t, 10.75, row.Target2, 1e-9)
}

func TestRecomputeRiskReward(t *testing.T) {
	assert.InDelta(t, 2.0, recomputeRiskReward(10, 9, 12), 1e-9)
	// Inverted or flat levels fall back instead of going negative.
	assert.Equal(t, fallbackRiskReward, recomputeRiskReward(10, 10, 12))
	assert.Equal(t, fallbackRiskReward, recomputeRiskReward(10, 11, 12))
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name         string
		inM1, inM2   bool
		quality      string
		riskReward   float64
		bullishCount int
		want         int
	}{
		{"single method floor", true, false, "", 1.0, 0, 65},
		{"other single method", false, true, "", 1.0, 0, 65},
		{"both methods", true, true, "", 1.0, 0, 80},
		{"quality bonus", false, true, dto.QualityA, 1.0, 0, 80},
		{"risk reward tiers", true, false, "", 2.0, 0, 75},
		{"bullish benchmarks", true, false, "", 1.0, 2, 75},
		{"clamped at 100", true, true, dto.QualityAPlus, 2.5, 2, 100},
		{"no methods keeps the base", false, false, "", 1.0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := priorityScore(tt.inM1, tt.inM2, tt.quality, tt.riskReward, tt.bullishCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountBullishBenchmarks(t *testing.T) {
	t.Run("each bullish benchmark counts once", func(t *testing.T) {
		market := &fakeMarketDataRepo{
			tickerSnapshotFn: func(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
				change := 1.0
				if ticker == "QQQ" {
					change = -1.0
				}
				return &dto.SnapshotTicker{Ticker: ticker, TodaysChangePerc: change}, nil
			},
		}
		s := newCombinerForTest(market, &fakeMethod1Repo{}, &fakeMethod2Repo{}, &fakeMergedRepo{})
		assert.Equal(t, 1, s.countBullishBenchmarks(context.Background()))
	})

	t.Run("fetch failure contributes no bonus", func(t *testing.T) {
		market := &fakeMarketDataRepo{
			tickerSnapshotFn: func(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
				return nil, errors.New("provider down")
			},
		}
		s := newCombinerForTest(market, &fakeMethod1Repo{}, &fakeMethod2Repo{}, &fakeMergedRepo{})
		assert.Equal(t, 0, s.countBullishBenchmarks(context.Background()))
	})
}

func TestCombinerExecute(t *testing.T) {
	t.Run("merged set fully replaces the day", func(t *testing.T) {
		m1 := &fakeMethod1Repo{rows: []model.Method1Result{
			{Ticker: "ABCD", LastPrice: 10, SuggestedEntry: 9.7, SuggestedStop: 8.5, Target1: 11.5, Target2: 12.7, CatalystType: dto.CatalystEarnings},
		}}
		m2 := &fakeMethod2Repo{rows: []model.Method2Result{
			{Ticker: "ABCD", LastPrice: 10.1, SuggestedEntry: 10, SuggestedStop: 9.4, Target1: 11, Target2: 11.5, SetupQuality: dto.QualityAPlus},
		}}
		merged := &fakeMergedRepo{}
		s := newCombinerForTest(bullishBenchmarks(), m1, m2, merged)

		result, err := s.Execute(context.Background(), &model.Job{})
		require.NoError(t, err)
		assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), result.ExitCode)

		require.Len(t, merged.replacedRows, 1)
		row := merged.replacedRows[0]
		assert.True(t, row.InBothMethods)
		// base 50 + both 30 + A_PLUS 20 + rr 1.67 tier 5 + two bullish 10, clamped.
		assert.Equal(t, 100, row.PriorityScore)
		assert.NotEmpty(t, merged.replacedDate)
	})

	t.Run("empty inputs still replace and report nothing to do", func(t *testing.T) {
		merged := &fakeMergedRepo{}
		s := newCombinerForTest(bullishBenchmarks(), &fakeMethod1Repo{}, &fakeMethod2Repo{}, merged)

		result, err := s.Execute(context.Background(), &model.Job{})
		require.NoError(t, err)
		assert.Equal(t, int32(JOB_EXIT_CODE_SKIPPED), result.ExitCode)
		assert.NotEmpty(t, merged.replacedDate)
		assert.Empty(t, merged.replacedRows)
	})
}

func TestScannerExecute(t *testing.T) {
	market := &fakeMarketDataRepo{
		fullSnapshotFn: func(ctx context.Context) ([]dto.SnapshotTicker, error) {
			return []dto.SnapshotTicker{
				snapshotTicker("UPBIG", 11, 10, 500000, 400000),
				snapshotTicker("DOWNBIG", 8, 10, 500000, 400000),
				snapshotTicker("FLAT", 10.1, 10, 500000, 400000),
			}, nil
		},
	}
	s := NewScannerStrategy(testConfig(), testLogger(), market, &fakeParamRepo{})

	result, err := s.Execute(context.Background(), &model.Job{})
	require.NoError(t, err)
	assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), result.ExitCode)
	// The 1% mover is below the gap threshold; the others are reported with
	// the largest absolute gap first.
	assert.Contains(t, result.Output, "DOWNBIG")
	assert.Contains(t, result.Output, "UPBIG")
	assert.NotContains(t, result.Output, "FLAT")
}
