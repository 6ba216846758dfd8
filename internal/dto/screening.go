package dto

import "time"

// CandidateStock accumulates fields as a ticker survives pipeline stages.
// Fields belonging to a later stage are only meaningful once that stage ran;
// a zero value means "not yet evaluated", not "failed".
type CandidateStock struct {
	Ticker         string  `json:"ticker"`
	LastPrice      float64 `json:"last_price"`
	PreviousClose  float64 `json:"previous_close"`
	Volume         float64 `json:"volume"`
	AvgVolume      float64 `json:"avg_volume"`
	RelativeVolume float64 `json:"relative_volume"`
	GapPercent     float64 `json:"gap_percent"`

	// Stage B
	CatalystType     string `json:"catalyst_type,omitempty"`
	CatalystHeadline string `json:"catalyst_headline,omitempty"`

	// Stage C
	ATR        float64 `json:"atr,omitempty"`
	ATRPercent float64 `json:"atr_percent,omitempty"`
	VWAP       float64 `json:"vwap,omitempty"`
	EMA9       float64 `json:"ema9,omitempty"`
	EMA20      float64 `json:"ema20,omitempty"`

	SuggestedEntry float64 `json:"suggested_entry,omitempty"`
	SuggestedStop  float64 `json:"suggested_stop,omitempty"`
	Target1        float64 `json:"target1,omitempty"`
	Target2        float64 `json:"target2,omitempty"`
}

// GateCandidate is Method-2's per-ticker state as it moves through the gates.
type GateCandidate struct {
	Ticker         string
	LastPrice      float64
	PreviousClose  float64
	PreMarketVol   float64
	AvgVolume      float64
	VolumeSpike    float64
	ATRPercent     float64
	RelativeVolume float64
	VWAP           float64
	EMA9           float64
	EMA20          float64

	PassedGate1 bool
	PassedGate2 bool
	PassedGate3 bool
	PassedGate4 bool
	Gate1At     time.Time
	Gate2At     time.Time
	Gate3At     time.Time
	Gate4At     time.Time

	PrimaryTrend   string
	SecondaryTrend string

	SuggestedEntry  float64
	SuggestedStop   float64
	Target1         float64
	Target2         float64
	RiskPerShare    float64
	MaxShares       int
	RiskRewardRatio float64
	VIXLevel        float64

	RiskCheckPassed bool
	VolatilityOK    bool
	SetupType       string
	QualityScore    int
	SetupQuality    string
	PassedAllGates  bool
}

// ScreeningOverride is a partial per-job override of the persisted screening
// parameters, carried in the job payload and merged over the stored values.
type ScreeningOverride struct {
	MinPrice          *float64 `json:"min_price,omitempty"`
	MaxPrice          *float64 `json:"max_price,omitempty"`
	MinAvgVolume      *float64 `json:"min_avg_volume,omitempty"`
	MinGapPercent     *float64 `json:"min_gap_percent,omitempty"`
	MaxGapPercent     *float64 `json:"max_gap_percent,omitempty"`
	MinRelativeVolume *float64 `json:"min_relative_volume,omitempty"`
	MinVolumeSpike    *float64 `json:"min_volume_spike,omitempty"`
	MinATRPercent     *float64 `json:"min_atr_percent,omitempty"`
	MaxVIX            *float64 `json:"max_vix,omitempty"`
	MinRiskReward     *float64 `json:"min_risk_reward,omitempty"`
	AccountSize       *float64 `json:"account_size,omitempty"`
	MaxRiskPercent    *float64 `json:"max_risk_percent,omitempty"`
}

// GapReportEntry is one row of the market scanner's report output.
type GapReportEntry struct {
	Ticker        string  `json:"ticker"`
	LastPrice     float64 `json:"last_price"`
	PreviousClose float64 `json:"previous_close"`
	GapPercent    float64 `json:"gap_percent"`
	Volume        float64 `json:"volume"`
}

// StockReport is the stock analyzer's on-demand multi-indicator report.
type StockReport struct {
	Ticker         string  `json:"ticker"`
	LastPrice      float64 `json:"last_price"`
	PreviousClose  float64 `json:"previous_close"`
	GapPercent     float64 `json:"gap_percent"`
	Volume         float64 `json:"volume"`
	AvgVolume      float64 `json:"avg_volume"`
	RelativeVolume float64 `json:"relative_volume"`
	VWAP           float64 `json:"vwap"`
	EMA9           float64 `json:"ema9"`
	EMA20          float64 `json:"ema20"`
	ATR            float64 `json:"atr"`
	ATRPercent     float64 `json:"atr_percent"`
	AboveVWAP      bool    `json:"above_vwap"`
	AboveEMA9      bool    `json:"above_ema9"`
	AboveEMA20     bool    `json:"above_ema20"`
	BarCount       int     `json:"bar_count"`
}
