package config

import (
	"fmt"
	"testing"

	"agrosense/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.IrrigationSetting{}))
	return db
}

func TestInitIrrigationSettingsCreatesDefaults(t *testing.T) {
	db := openSettingsDB(t)
	require.NoError(t, InitIrrigationSettings(db))

	low, high, interval := GetIrrigationSettings()
	assert.Equal(t, 25.0, low)
	assert.Equal(t, 40.0, high)
	assert.Equal(t, 30, interval)

	var setting models.IrrigationSetting
	require.NoError(t, db.First(&setting, 1).Error)
	assert.Equal(t, 25.0, setting.MoistureThresholdLow)
}

func TestInitIrrigationSettingsLoadsExisting(t *testing.T) {
	db := openSettingsDB(t)
	require.NoError(t, db.Create(&models.IrrigationSetting{
		ID: 1, MoistureThresholdLow: 33, MoistureThresholdHigh: 48, UpdateIntervalSeconds: 15,
	}).Error)

	require.NoError(t, InitIrrigationSettings(db))
	low, high, interval := GetIrrigationSettings()
	assert.Equal(t, 33.0, low)
	assert.Equal(t, 48.0, high)
	assert.Equal(t, 15, interval)
}

func TestSetIrrigationSettingsPersistsAndCaches(t *testing.T) {
	db := openSettingsDB(t)
	require.NoError(t, InitIrrigationSettings(db))

	require.NoError(t, SetIrrigationSettings(db, 28, 45, 120))

	low, high, interval := GetIrrigationSettings()
	assert.Equal(t, 28.0, low)
	assert.Equal(t, 45.0, high)
	assert.Equal(t, 120, interval)

	// A fresh init from the same database sees the saved values.
	require.NoError(t, InitIrrigationSettings(db))
	low, _, _ = GetIrrigationSettings()
	assert.Equal(t, 28.0, low)
}
