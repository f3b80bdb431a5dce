package models

import "time"

// SensorType describes a category of sensor (soil moisture, pH, ...).
type SensorType struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"unique;not null"`
	Unit        string `json:"unit"` // %, °C, mm, etc.
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Sensor struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	SensorID     string     `json:"sensor_id" gorm:"unique;not null"`
	Name         string     `json:"name" gorm:"not null"`
	SensorTypeID uint       `json:"sensor_type" gorm:"not null"`
	SensorType   SensorType `json:"sensor_type_detail" gorm:"foreignKey:SensorTypeID"`
	Location     string     `json:"location"`
	Depth        *float64   `json:"depth"` // for soil sensors, cm
	Status       string     `json:"status" gorm:"default:active"` // active, inactive, maintenance, error
	LastUpdated  time.Time  `json:"last_updated" gorm:"autoUpdateTime"`
	IsCritical   bool       `json:"is_critical" gorm:"default:false"`
}

type SensorReading struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SensorID  uint      `json:"sensor" gorm:"not null;index"`
	Sensor    *Sensor   `json:"sensor_detail,omitempty" gorm:"foreignKey:SensorID"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	IsAnomaly bool      `json:"is_anomaly" gorm:"default:false"`
}

type SystemStatus struct {
	ID                   uint       `json:"id" gorm:"primaryKey"`
	Status               string     `json:"status" gorm:"default:active"` // active, maintenance, error, offline
	CPUUsage             float64    `json:"cpu_usage"`
	MemoryUsage          float64    `json:"memory_usage"`
	DiskUsage            float64    `json:"disk_usage"`
	InternetConnectivity float64    `json:"internet_connectivity" gorm:"default:100"`
	ActiveSensors        int        `json:"active_sensors"`
	LastAIAnalysis       *time.Time `json:"last_ai_analysis"`
	Timestamp            time.Time  `json:"timestamp"`
}
