package controllers

import (
	"agrosense/config"
	"agrosense/models"

	"gorm.io/gorm"
)

// MigrateModels runs the database migrations
func MigrateModels(db *gorm.DB) error {
	config.DB = db
	return db.AutoMigrate(
		&models.User{},
		&models.IrrigationSetting{},
		&models.SensorType{},
		&models.Sensor{},
		&models.SensorReading{},
		&models.SystemStatus{},
		&models.WeatherData{},
		&models.WeatherForecast{},
		&models.PlantType{},
		&models.Plant{},
		&models.IrrigationEvent{},
		&models.PlantCareLog{},
		&models.IrrigationZone{},
		&models.AIModel{},
		&models.AIPrediction{},
		&models.AIAnalysisSession{},
		&models.AIInsight{},
	)
}
