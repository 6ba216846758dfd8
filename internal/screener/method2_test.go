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

func newMethod2ForTest(market *fakeMarketDataRepo, results *fakeMethod2Repo) *Method2Strategy {
	return NewMethod2Strategy(testConfig(), testLogger(), market, results, &fakeParamRepo{})
}

func TestMethod2Gate1PreMarketFilter(t *testing.T) {
	s := newMethod2ForTest(&fakeMarketDataRepo{}, &fakeMethod2Repo{})
	params := model.DefaultScreeningParameters()

	t.Run("volume spike with range passes", func(t *testing.T) {
		c, reason := s.gate1PreMarketFilter(snapshotTicker("ABCD", 10, 9, 800000, 400000), params)
		require.Equal(t, dto.SkipNone, reason)
		assert.True(t, c.PassedGate1)
		assert.False(t, c.Gate1At.IsZero())
		assert.InDelta(t, 2.0, c.VolumeSpike, 1e-9)
	})

	t.Run("volume spike below threshold", func(t *testing.T) {
		_, reason := s.gate1PreMarketFilter(snapshotTicker("MEH", 10, 9, 700000, 400000), params)
		assert.Equal(t, dto.SkipVolumeSpike, reason)
	})

	t.Run("intraday range too tight", func(t *testing.T) {
		tight := dto.SnapshotTicker{
			Ticker:  "TIGHT",
			Day:     &dto.SnapshotBar{Open: 10, High: 10.1, Low: 10, Close: 10, Volume: 800000},
			PrevDay: &dto.SnapshotBar{Close: 9, Volume: 400000},
		}
		_, reason := s.gate1PreMarketFilter(tight, params)
		assert.Equal(t, dto.SkipATRPercent, reason)
	})

	t.Run("price out of bounds", func(t *testing.T) {
		_, reason := s.gate1PreMarketFilter(snapshotTicker("BIG", 120, 100, 800000, 400000), params)
		assert.Equal(t, dto.SkipPriceBounds, reason)
	})

	t.Run("missing data", func(t *testing.T) {
		_, reason := s.gate1PreMarketFilter(dto.SnapshotTicker{Ticker: "NODATA"}, params)
		assert.Equal(t, dto.SkipMissingData, reason)
	})
}

func TestMethod2Gate2TechnicalAlignment(t *testing.T) {
	params := model.DefaultScreeningParameters()

	marketWith := func(primaryChange, secondaryChange float64) *fakeMarketDataRepo {
		return &fakeMarketDataRepo{
			dailyBarsFn: func(ctx context.Context, ticker, from, to string) ([]dto.AggBar, error) {
				return flatBars(10), nil
			},
			tickerSnapshotFn: func(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
				change := primaryChange
				if ticker == "QQQ" {
					change = secondaryChange
				}
				return &dto.SnapshotTicker{Ticker: ticker, TodaysChangePerc: change}, nil
			},
		}
	}

	gate1Candidate := func() *dto.GateCandidate {
		return &dto.GateCandidate{
			Ticker:        "ABCD",
			LastPrice:     10,
			PreviousClose: 9,
			PreMarketVol:  800000,
			AvgVolume:     400000,
			PassedGate1:   true,
		}
	}

	t.Run("aligned with one benchmark is enough", func(t *testing.T) {
		s := newMethod2ForTest(marketWith(-1.0, 0.5), &fakeMethod2Repo{})
		c := gate1Candidate()
		reason := s.gate2TechnicalAlignment(context.Background(), c, params)
		require.Equal(t, dto.SkipNone, reason)
		assert.True(t, c.PassedGate2)
		assert.Equal(t, dto.TrendBearish, c.PrimaryTrend)
		assert.Equal(t, dto.TrendBullish, c.SecondaryTrend)
		assert.InDelta(t, 2.0, c.RelativeVolume, 1e-9)
	})

	t.Run("aligned with neither benchmark fails", func(t *testing.T) {
		s := newMethod2ForTest(marketWith(-1.0, -0.5), &fakeMethod2Repo{})
		reason := s.gate2TechnicalAlignment(context.Background(), gate1Candidate(), params)
		assert.Equal(t, dto.SkipNotAligned, reason)
	})

	t.Run("price below vwap fails", func(t *testing.T) {
		s := newMethod2ForTest(marketWith(1.0, 1.0), &fakeMethod2Repo{})
		c := gate1Candidate()
		c.LastPrice = 9.4
		reason := s.gate2TechnicalAlignment(context.Background(), c, params)
		assert.Equal(t, dto.SkipBelowIndicator, reason)
	})

	t.Run("fetch failure skips the ticker", func(t *testing.T) {
		market := &fakeMarketDataRepo{
			dailyBarsFn: func(ctx context.Context, ticker, from, to string) ([]dto.AggBar, error) {
				return nil, errors.New("provider down")
			},
			tickerSnapshotFn: func(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
				return &dto.SnapshotTicker{Ticker: ticker, TodaysChangePerc: 1.0}, nil
			},
		}
		s := newMethod2ForTest(market, &fakeMethod2Repo{})
		reason := s.gate2TechnicalAlignment(context.Background(), gate1Candidate(), params)
		assert.Equal(t, dto.SkipFetchFailed, reason)
	})
}

func TestMethod2Gate3ExecutionConfirmation(t *testing.T) {
	s := newMethod2ForTest(&fakeMarketDataRepo{}, &fakeMethod2Repo{})

	base := func() *dto.GateCandidate {
		return &dto.GateCandidate{
			Ticker:         "ABCD",
			LastPrice:      10,
			VWAP:           9.5,
			RelativeVolume: 2.0,
			PrimaryTrend:   dto.TrendBullish,
		}
	}

	t.Run("holding vwap with volume and a non-bearish market passes", func(t *testing.T) {
		c := base()
		require.Equal(t, dto.SkipNone, s.gate3ExecutionConfirmation(c))
		assert.True(t, c.PassedGate3)
	})

	t.Run("price below the vwap hold band fails", func(t *testing.T) {
		c := base()
		c.VWAP = 10.1
		assert.Equal(t, dto.SkipVWAPHold, s.gate3ExecutionConfirmation(c))
	})

	t.Run("relative volume below the stricter bar fails", func(t *testing.T) {
		c := base()
		c.RelativeVolume = 1.8
		assert.Equal(t, dto.SkipRelativeVolume, s.gate3ExecutionConfirmation(c))
	})

	t.Run("bearish primary benchmark fails", func(t *testing.T) {
		c := base()
		c.PrimaryTrend = dto.TrendBearish
		assert.Equal(t, dto.SkipMarketBearish, s.gate3ExecutionConfirmation(c))
	})

	t.Run("neutral primary benchmark is acceptable", func(t *testing.T) {
		c := base()
		c.PrimaryTrend = dto.TrendNeutral
		assert.Equal(t, dto.SkipNone, s.gate3ExecutionConfirmation(c))
	})
}

func TestMethod2Gate4RiskValidation(t *testing.T) {
	s := newMethod2ForTest(&fakeMarketDataRepo{}, &fakeMethod2Repo{})
	params := model.DefaultScreeningParameters()

	base := func() *dto.GateCandidate {
		return &dto.GateCandidate{
			Ticker:         "ABCD",
			LastPrice:      10,
			ATRPercent:     5,
			VWAP:           9.9,
			VolumeSpike:    2.5,
			EMA9:           9.5,
			EMA20:          9,
			PrimaryTrend:   dto.TrendBullish,
			SecondaryTrend: dto.TrendBullish,
		}
	}

	t.Run("position sizing and admission", func(t *testing.T) {
		c := base()
		s.gate4RiskValidation(c, params, 15, true)

		assert.InDelta(t, 10.0, c.SuggestedEntry, 1e-9)
		assert.InDelta(t, 9.4, c.SuggestedStop, 1e-9)
		assert.InDelta(t, 0.6, c.RiskPerShare, 1e-9)
		assert.InDelta(t, 11.0, c.Target1, 1e-9)
		assert.InDelta(t, 11.5, c.Target2, 1e-9)
		assert.Equal(t, 1666, c.MaxShares)
		assert.InDelta(t, 1.6667, c.RiskRewardRatio, 0.001)

		assert.True(t, c.RiskCheckPassed)
		assert.True(t, c.PassedGate4)
		assert.True(t, c.PassedAllGates)
		assert.Equal(t, 15.0, c.VIXLevel)
		assert.Equal(t, dto.SetupTrendContinuation, c.SetupType)
		assert.Equal(t, 4, c.QualityScore)
		assert.Equal(t, dto.QualityA, c.SetupQuality)
	})

	t.Run("half dollar risk sizes two thousand shares", func(t *testing.T) {
		c := base()
		c.ATRPercent = 4
		s.gate4RiskValidation(c, params, 15, true)

		assert.InDelta(t, 0.5, c.RiskPerShare, 1e-9)
		assert.Equal(t, 2000, c.MaxShares)
		assert.True(t, c.RiskCheckPassed)
	})

	t.Run("non-positive risk per share never divides by zero", func(t *testing.T) {
		c := base()
		c.ATRPercent = -2
		s.gate4RiskValidation(c, params, 15, true)

		assert.LessOrEqual(t, c.RiskPerShare, 0.0)
		assert.Equal(t, 0, c.MaxShares)
		assert.Equal(t, 0.0, c.RiskRewardRatio)
		assert.False(t, c.RiskCheckPassed)
		assert.False(t, c.PassedGate4)
		assert.False(t, c.PassedAllGates)
	})

	t.Run("volatility check failing closed blocks admission", func(t *testing.T) {
		c := base()
		s.gate4RiskValidation(c, params, 0, false)

		assert.True(t, c.RiskCheckPassed)
		assert.False(t, c.PassedGate4)
		assert.False(t, c.PassedAllGates)
	})

	t.Run("gap and go wins over trend continuation", func(t *testing.T) {
		c := base()
		c.VolumeSpike = 3.5
		s.gate4RiskValidation(c, params, 15, true)
		assert.Equal(t, dto.SetupGapAndGo, c.SetupType)
	})

	t.Run("price below averages falls back to vwap reclaim", func(t *testing.T) {
		c := base()
		c.EMA20 = 10.5
		s.gate4RiskValidation(c, params, 15, true)
		assert.Equal(t, dto.SetupVWAPReclaim, c.SetupType)
	})
}

func TestSetupQuality(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{7, dto.QualityAPlus},
		{6, dto.QualityAPlus},
		{5, dto.QualityA},
		{4, dto.QualityA},
		{3, dto.QualityB},
		{2, dto.QualityB},
		{1, dto.QualityC},
		{0, dto.QualityC},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, setupQuality(tt.score), "score %d", tt.score)
	}
}

func TestQualityScore(t *testing.T) {
	assert.Equal(t, 7, qualityScore(3.5, dto.TrendBullish, dto.TrendBullish, 2.5))
	assert.Equal(t, 4, qualityScore(2.5, dto.TrendBullish, dto.TrendBearish, 2.0))
	assert.Equal(t, 1, qualityScore(1.0, dto.TrendNeutral, dto.TrendBearish, 1.0))
	assert.Equal(t, 0, qualityScore(1.0, dto.TrendBearish, dto.TrendBearish, 1.0))
}

func TestMethod2Execute(t *testing.T) {
	marketFor := func(vixErr error) *fakeMarketDataRepo {
		return &fakeMarketDataRepo{
			gainersFn: func(ctx context.Context) ([]dto.SnapshotTicker, error) {
				return []dto.SnapshotTicker{
					snapshotTicker("ABCD", 10, 9, 800000, 400000),
					snapshotTicker("MEH", 10, 9, 700000, 400000),
				}, nil
			},
			dailyBarsFn: func(ctx context.Context, ticker, from, to string) ([]dto.AggBar, error) {
				return flatBars(10), nil
			},
			tickerSnapshotFn: func(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
				switch ticker {
				case "I:VIX":
					if vixErr != nil {
						return nil, vixErr
					}
					return &dto.SnapshotTicker{Ticker: ticker, Day: &dto.SnapshotBar{Close: 15}}, nil
				case "QQQ":
					return &dto.SnapshotTicker{Ticker: ticker, TodaysChangePerc: 0.5}, nil
				default:
					return &dto.SnapshotTicker{Ticker: ticker, TodaysChangePerc: 1.0}, nil
				}
			},
		}
	}

	t.Run("survivor reaches gate 4 and is admitted", func(t *testing.T) {
		results := &fakeMethod2Repo{}
		s := newMethod2ForTest(marketFor(nil), results)

		result, err := s.Execute(context.Background(), &model.Job{})
		require.NoError(t, err)
		assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), result.ExitCode)

		require.Len(t, results.replacedRows, 1)
		row := results.replacedRows[0]
		assert.Equal(t, "ABCD", row.Ticker)
		assert.True(t, row.PassedGate1)
		assert.True(t, row.PassedGate2)
		assert.True(t, row.PassedGate3)
		assert.True(t, row.PassedGate4)
		assert.True(t, row.PassedAllGates)
		assert.True(t, row.Gate4At.Valid)
		assert.Equal(t, 15.0, row.VIXLevel)
		assert.GreaterOrEqual(t, row.MaxShares, gateMinShares)
	})

	t.Run("gate flags stay monotonic", func(t *testing.T) {
		results := &fakeMethod2Repo{}
		s := newMethod2ForTest(marketFor(nil), results)

		_, err := s.Execute(context.Background(), &model.Job{})
		require.NoError(t, err)
		for _, row := range results.replacedRows {
			if row.PassedGate4 {
				assert.True(t, row.PassedGate3)
			}
			if row.PassedGate3 {
				assert.True(t, row.PassedGate2)
			}
			if row.PassedGate2 {
				assert.True(t, row.PassedGate1)
			}
		}
	})

	t.Run("volatility index failure persists candidates without admitting them", func(t *testing.T) {
		results := &fakeMethod2Repo{}
		s := newMethod2ForTest(marketFor(errors.New("provider down")), results)

		result, err := s.Execute(context.Background(), &model.Job{})
		require.NoError(t, err)
		assert.Equal(t, int32(JOB_EXIT_CODE_SUCCESS), result.ExitCode)

		require.Len(t, results.replacedRows, 1)
		row := results.replacedRows[0]
		assert.True(t, row.PassedGate3)
		assert.False(t, row.PassedGate4)
		assert.False(t, row.PassedAllGates)
	})
}
