package models

// IrrigationSetting stores the global irrigation thresholds and the
// dashboard refresh interval.
type IrrigationSetting struct {
	ID                    uint    `json:"id" gorm:"primaryKey"`
	MoistureThresholdLow  float64 `json:"moisture_threshold_low" gorm:"default:25"`
	MoistureThresholdHigh float64 `json:"moisture_threshold_high" gorm:"default:40"`
	UpdateIntervalSeconds int     `json:"update_interval_seconds" gorm:"default:30"`
}
