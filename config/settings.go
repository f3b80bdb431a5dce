package config

import (
	"sync"

	"agrosense/models"

	"gorm.io/gorm"
)

// irrigationSettingsCache holds the current irrigation thresholds in memory
// and is synchronized with the database.
type irrigationSettingsCache struct {
	MoistureThresholdLow  float64
	MoistureThresholdHigh float64
	UpdateIntervalSeconds int
}

var (
	currentSettings irrigationSettingsCache
	settingsMutex   sync.Mutex
)

const irrigationSettingID = 1 // single global settings row

// InitIrrigationSettings loads the irrigation settings from the database
// or creates a default entry if one doesn't exist.
// This should be called on application startup.
func InitIrrigationSettings(db *gorm.DB) error {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	var setting models.IrrigationSetting
	result := db.First(&setting, irrigationSettingID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			setting = models.IrrigationSetting{
				ID:                    irrigationSettingID,
				MoistureThresholdLow:  25,
				MoistureThresholdHigh: 40,
				UpdateIntervalSeconds: 30,
			}
			if err := db.Create(&setting).Error; err != nil {
				return err
			}
		} else {
			return result.Error
		}
	}

	currentSettings.MoistureThresholdLow = setting.MoistureThresholdLow
	currentSettings.MoistureThresholdHigh = setting.MoistureThresholdHigh
	currentSettings.UpdateIntervalSeconds = setting.UpdateIntervalSeconds
	return nil
}

// GetIrrigationSettings returns the current cached irrigation settings.
func GetIrrigationSettings() (low, high float64, intervalSeconds int) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	return currentSettings.MoistureThresholdLow, currentSettings.MoistureThresholdHigh, currentSettings.UpdateIntervalSeconds
}

// SetIrrigationSettings updates the irrigation settings in both the database and the cache.
func SetIrrigationSettings(db *gorm.DB, low, high float64, intervalSeconds int) error {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	setting := models.IrrigationSetting{
		ID:                    irrigationSettingID,
		MoistureThresholdLow:  low,
		MoistureThresholdHigh: high,
		UpdateIntervalSeconds: intervalSeconds,
	}

	if err := db.Save(&setting).Error; err != nil {
		return err
	}

	currentSettings.MoistureThresholdLow = low
	currentSettings.MoistureThresholdHigh = high
	currentSettings.UpdateIntervalSeconds = intervalSeconds
	return nil
}
