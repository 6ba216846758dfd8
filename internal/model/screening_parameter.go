package model

import "time"

// ScreeningParameter is the singleton row of externally configurable
// thresholds read by the pipelines. An absent row means "use built-in
// defaults", never an error.
type ScreeningParameter struct {
	ID                uint      `gorm:"primaryKey"`
	MinPrice          float64   `gorm:"not null"`
	MaxPrice          float64   `gorm:"not null"`
	MinAvgVolume      float64   `gorm:"not null"`
	MinGapPercent     float64   `gorm:"not null"`
	MaxGapPercent     float64   `gorm:"not null"`
	MinRelativeVolume float64   `gorm:"not null"`
	MinVolumeSpike    float64   `gorm:"not null"`
	MinATRPercent     float64   `gorm:"not null"`
	MaxVIX            float64   `gorm:"not null"`
	MinRiskReward     float64   `gorm:"not null"`
	AccountSize       float64   `gorm:"not null"`
	MaxRiskPercent    float64   `gorm:"not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (ScreeningParameter) TableName() string {
	return "screening_parameters"
}

// DefaultScreeningParameters returns the built-in thresholds used when no
// row has been configured.
func DefaultScreeningParameters() *ScreeningParameter {
	return &ScreeningParameter{
		MinPrice:          2,
		MaxPrice:          50,
		MinAvgVolume:      300_000,
		MinGapPercent:     3,
		MaxGapPercent:     30,
		MinRelativeVolume: 1.5,
		MinVolumeSpike:    2,
		MinATRPercent:     2,
		MaxVIX:            30,
		MinRiskReward:     1.5,
		AccountSize:       100_000,
		MaxRiskPercent:    1,
	}
}
