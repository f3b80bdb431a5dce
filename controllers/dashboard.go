package controllers

import (
	"math"
	"net/http"
	"time"

	"agrosense/config"
	"agrosense/models"

	"github.com/gin-gonic/gin"
)

// DashboardHome renders the dashboard page.
func DashboardHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "AgroSense Dashboard",
	})
}

// Overview aggregates the headline numbers for the dashboard.
func Overview(c *gin.Context) {
	var systemStatus models.SystemStatus
	config.DB.Order("timestamp desc").First(&systemStatus)

	// Soil moisture sensors below the warning thresholds
	var soilSensors []models.Sensor
	config.DB.Preload("SensorType").
		Joins("JOIN sensor_types ON sensor_types.id = sensors.sensor_type_id").
		Where("sensor_types.name = ? AND sensors.status = ?", "Soil Moisture", "active").
		Find(&soilSensors)

	criticalSensors := []gin.H{}
	for _, sensor := range soilSensors {
		var reading models.SensorReading
		if err := config.DB.Where("sensor_id = ?", sensor.ID).
			Order("timestamp desc").First(&reading).Error; err != nil {
			continue
		}
		if reading.Value >= 30 {
			continue
		}
		level := "warning"
		if reading.Value < 25 {
			level = "critical"
		}
		criticalSensors = append(criticalSensors, gin.H{
			"sensor_id": sensor.SensorID,
			"name":      sensor.Name,
			"location":  sensor.Location,
			"value":     reading.Value,
			"level":     level,
		})
	}

	var weather models.WeatherData
	hasWeather := config.DB.Order("timestamp desc").First(&weather).Error == nil

	var plants []models.Plant
	config.DB.Preload("PlantType").Find(&plants)
	healthyPlants := 0
	for _, p := range plants {
		if p.HealthStatus == "excellent" || p.HealthStatus == "good" {
			healthyPlants++
		}
	}
	healthPercent := 0.0
	if len(plants) > 0 {
		healthPercent = math.Round(float64(healthyPlants)/float64(len(plants))*1000) / 10
	}

	var activeIrrigation, scheduledIrrigation int64
	config.DB.Model(&models.IrrigationEvent{}).Where("status = ?", "in_progress").Count(&activeIrrigation)
	config.DB.Model(&models.IrrigationEvent{}).Where("status = ?", "scheduled").Count(&scheduledIrrigation)

	var insights []models.AIInsight
	config.DB.Order("created_at desc").Limit(3).Find(&insights)

	overview := gin.H{
		"system_status":        systemStatus,
		"critical_sensors":     criticalSensors,
		"total_plants":         len(plants),
		"healthy_plants":       healthyPlants,
		"plant_health_percent": healthPercent,
		"active_irrigation":    activeIrrigation,
		"scheduled_irrigation": scheduledIrrigation,
		"recent_insights":      insights,
		"timestamp":            time.Now(),
	}
	if hasWeather {
		overview["weather"] = weather
	}
	c.JSON(http.StatusOK, overview)
}

// DashboardRealtime produces fresh readings plus a feed of notable entries.
func DashboardRealtime(c *gin.Context) {
	var sensors []models.Sensor
	if err := config.DB.Preload("SensorType").Where("status = ?", "active").Find(&sensors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensors"})
		return
	}

	low, high, _ := config.GetIrrigationSettings()

	readings := make([]gin.H, 0, len(sensors))
	feed := []gin.H{}
	for _, sensor := range sensors {
		reading := generateRandomReading(sensor)
		key := sensorTypeKey(sensor.SensorType.Name)

		entry := gin.H{
			"sensor_id":   sensor.SensorID,
			"sensor_name": sensor.Name,
			"sensor_type": sensor.SensorType.Name,
			"value":       reading.Value,
			"unit":        sensor.SensorType.Unit,
			"is_anomaly":  reading.IsAnomaly,
			"timestamp":   reading.Timestamp,
		}
		readings = append(readings, entry)

		if key == "soil_moisture" && reading.Value < high {
			level := "warning"
			if reading.Value < low {
				level = "critical"
			}
			feed = append(feed, gin.H{
				"level":   level,
				"sensor":  sensor.Name,
				"message": "Soil moisture below threshold",
				"value":   reading.Value,
			})
		} else if reading.IsAnomaly {
			feed = append(feed, gin.H{
				"level":   "warning",
				"sensor":  sensor.Name,
				"message": "Anomalous reading detected",
				"value":   reading.Value,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"readings":  readings,
		"feed":      feed,
		"timestamp": time.Now(),
	})
}

// SystemHealth reports sensor fleet state and system resources.
func SystemHealth(c *gin.Context) {
	var total, active, maintenance, errored int64
	config.DB.Model(&models.Sensor{}).Count(&total)
	config.DB.Model(&models.Sensor{}).Where("status = ?", "active").Count(&active)
	config.DB.Model(&models.Sensor{}).Where("status = ?", "maintenance").Count(&maintenance)
	config.DB.Model(&models.Sensor{}).Where("status = ?", "error").Count(&errored)

	var systemStatus models.SystemStatus
	config.DB.Order("timestamp desc").First(&systemStatus)

	healthPercent := 0.0
	if total > 0 {
		healthPercent = math.Round(float64(active)/float64(total)*1000) / 10
	}

	c.JSON(http.StatusOK, gin.H{
		"sensors": gin.H{
			"total":          total,
			"active":         active,
			"maintenance":    maintenance,
			"error":          errored,
			"health_percent": healthPercent,
		},
		"resources": gin.H{
			"cpu_usage":             systemStatus.CPUUsage,
			"memory_usage":          systemStatus.MemoryUsage,
			"disk_usage":            systemStatus.DiskUsage,
			"internet_connectivity": systemStatus.InternetConnectivity,
		},
		"status":           systemStatus.Status,
		"last_ai_analysis": systemStatus.LastAIAnalysis,
		"timestamp":        time.Now(),
	})
}

// IrrigationSchedule returns the next ten scheduled irrigation events.
func IrrigationSchedule(c *gin.Context) {
	var events []models.IrrigationEvent
	if err := config.DB.Preload("Plant").
		Where("status = ?", "scheduled").
		Order("scheduled_time asc").Limit(10).
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	schedule := make([]gin.H, 0, len(events))
	for _, e := range events {
		entry := gin.H{
			"id":               e.ID,
			"scheduled_time":   e.ScheduledTime,
			"duration_minutes": e.DurationMinutes,
			"water_amount_ml":  e.WaterAmountML,
			"event_type":       e.EventType,
			"trigger_reason":   e.TriggerReason,
			"is_overdue":       e.IsOverdue(),
		}
		if e.Plant != nil {
			entry["plant_name"] = e.Plant.Name
			entry["plant_location"] = e.Plant.Location
		}
		schedule = append(schedule, entry)
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule, "count": len(schedule)})
}

// UpdateSettings changes the irrigation thresholds and polling interval.
func UpdateSettings(c *gin.Context) {
	var req struct {
		MoistureThresholdLow  float64 `json:"moisture_threshold_low"`
		MoistureThresholdHigh float64 `json:"moisture_threshold_high"`
		UpdateIntervalSeconds int     `json:"update_interval_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.MoistureThresholdLow <= 0 || req.MoistureThresholdHigh <= req.MoistureThresholdLow {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thresholds must be positive and low < high"})
		return
	}
	if req.UpdateIntervalSeconds <= 0 {
		req.UpdateIntervalSeconds = 30
	}

	if err := config.SetIrrigationSettings(config.DB, req.MoistureThresholdLow,
		req.MoistureThresholdHigh, req.UpdateIntervalSeconds); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                 "Settings updated successfully",
		"moisture_threshold_low":  req.MoistureThresholdLow,
		"moisture_threshold_high": req.MoistureThresholdHigh,
		"update_interval_seconds": req.UpdateIntervalSeconds,
	})
}
