package dto

// Catalyst types detected in Method-1 Stage B.
const (
	CatalystEarnings       = "EARNINGS"
	CatalystAnalystUpgrade = "ANALYST_UPGRADE"
	CatalystSectorMomentum = "SECTOR_MOMENTUM"
	CatalystOther          = "OTHER"
)

// Benchmark index trends, threshold +-0.3% intraday change.
const (
	TrendBullish = "BULLISH"
	TrendBearish = "BEARISH"
	TrendNeutral = "NEUTRAL"
)

// Method-2 setup classification.
const (
	SetupGapAndGo          = "GAP_AND_GO"
	SetupTrendContinuation = "TREND_CONTINUATION"
	SetupVWAPReclaim       = "VWAP_RECLAIM"
)

// Ordinal setup quality, A_PLUS > A > B > C.
const (
	QualityAPlus = "A_PLUS"
	QualityA     = "A"
	QualityB     = "B"
	QualityC     = "C"
)

// SkipReason explains why a ticker was dropped from a pipeline, so drops are
// observable instead of silently absent from the output.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipMissingData    SkipReason = "data_missing"
	SkipPriceBounds    SkipReason = "price_out_of_bounds"
	SkipGapBounds      SkipReason = "gap_out_of_bounds"
	SkipAvgVolume      SkipReason = "avg_volume_too_low"
	SkipRelativeVolume SkipReason = "relative_volume_too_low"
	SkipNoCatalyst     SkipReason = "no_catalyst"
	SkipFetchFailed    SkipReason = "fetch_failed"
	SkipTooFewBars     SkipReason = "too_few_bars"
	SkipBelowIndicator SkipReason = "below_vwap_or_ema"
	SkipNotAligned     SkipReason = "market_not_aligned"
	SkipVolumeSpike    SkipReason = "volume_spike_too_low"
	SkipATRPercent     SkipReason = "atr_percent_too_low"
	SkipVWAPHold       SkipReason = "not_holding_vwap"
	SkipMarketBearish  SkipReason = "market_bearish"
)
