package model

import "time"

// MergedResult is the externally visible artifact: one row per ticker per
// screen date for the union of tickers that passed either method.
// Invariant: InBothMethods == InMethod1 && InMethod2; PriorityScore in [0,100].
type MergedResult struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"type:uuid;not null;index"`
	Ticker     string    `gorm:"type:varchar(12);not null;index:idx_merged_date_ticker"`
	ScreenDate string    `gorm:"type:date;not null;index:idx_merged_date_ticker"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	InMethod1     bool `gorm:"not null"`
	InMethod2     bool `gorm:"not null"`
	InBothMethods bool `gorm:"not null"`

	LastPrice       float64
	SuggestedEntry  float64
	SuggestedStop   float64
	Target1         float64
	Target2         float64
	RiskRewardRatio float64

	CatalystType string `gorm:"type:varchar(32)"`
	SetupType    string `gorm:"type:varchar(32)"`
	SetupQuality string `gorm:"type:varchar(8)"`

	PriorityScore int `gorm:"not null"`
}

func (MergedResult) TableName() string {
	return "merged_results"
}
