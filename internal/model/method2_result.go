package model

import (
	"database/sql"
	"time"
)

// Method2Result is one row per ticker per screen date for every candidate
// that reached Gate 4, regardless of final admission. Gate flags are
// monotonic: a row cannot pass a later gate without all earlier ones.
type Method2Result struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"type:uuid;not null;index"`
	Ticker     string    `gorm:"type:varchar(12);not null;index:idx_method2_date_ticker"`
	ScreenDate string    `gorm:"type:date;not null;index:idx_method2_date_ticker"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	LastPrice      float64 `gorm:"not null"`
	VolumeSpike    float64 `gorm:"not null"`
	ATRPercent     float64 `gorm:"not null"`
	RelativeVolume float64 `gorm:"not null"`
	VWAP           float64
	EMA9           float64
	EMA20          float64

	PassedGate1 bool         `gorm:"not null"`
	PassedGate2 bool         `gorm:"not null"`
	PassedGate3 bool         `gorm:"not null"`
	PassedGate4 bool         `gorm:"not null"`
	Gate1At     sql.NullTime `gorm:"type:timestamptz"`
	Gate2At     sql.NullTime `gorm:"type:timestamptz"`
	Gate3At     sql.NullTime `gorm:"type:timestamptz"`
	Gate4At     sql.NullTime `gorm:"type:timestamptz"`

	PassedAllGates bool `gorm:"not null;index"`

	RiskPerShare    float64
	MaxShares       int
	RiskRewardRatio float64
	SuggestedEntry  float64
	SuggestedStop   float64
	Target1         float64
	Target2         float64

	SetupType      string `gorm:"type:varchar(32)"`
	SetupQuality   string `gorm:"type:varchar(8)"`
	QualityScore   int
	PrimaryTrend   string `gorm:"type:varchar(8)"`
	SecondaryTrend string `gorm:"type:varchar(8)"`
	VIXLevel       float64
}

func (Method2Result) TableName() string {
	return "method2_results"
}
