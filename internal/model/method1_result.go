package model

import "time"

// Method1Result is one row per ticker per screen date that survived the full
// 3-stage pipeline. Rows are never mutated after creation; the next day's run
// (or a re-run of the same day) fully replaces them.
type Method1Result struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"type:uuid;not null;index"`
	Ticker     string    `gorm:"type:varchar(12);not null;index:idx_method1_date_ticker"`
	ScreenDate string    `gorm:"type:date;not null;index:idx_method1_date_ticker"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	LastPrice      float64 `gorm:"not null"`
	PreviousClose  float64 `gorm:"not null"`
	GapPercent     float64 `gorm:"not null"`
	Volume         float64 `gorm:"not null"`
	AvgVolume      float64 `gorm:"not null"`
	RelativeVolume float64 `gorm:"not null"`

	LiquidityPassed      bool `gorm:"not null"`
	CatalystPassed       bool `gorm:"not null"`
	TechnicalSetupPassed bool `gorm:"not null"`
	PassedMethod1        bool `gorm:"not null;index"`

	CatalystType     string `gorm:"type:varchar(32)"`
	CatalystHeadline string `gorm:"type:text"`

	ATR   float64
	VWAP  float64
	EMA9  float64
	EMA20 float64

	SuggestedEntry float64
	SuggestedStop  float64
	Target1        float64
	Target2        float64
}

func (Method1Result) TableName() string {
	return "method1_results"
}
