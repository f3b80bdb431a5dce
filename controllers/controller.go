package controllers

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"agrosense/config"
	"agrosense/esp"
	"agrosense/models"

	"github.com/gin-gonic/gin"
)

// deviceManager talks to the ESP32 fleet. Commands are best-effort: a dead
// device never blocks the database-side state changes.
var deviceManager = esp.NewManager()

// StartIrrigation starts irrigation for one zone or the whole field. Plants
// that already have a scheduled or running event are skipped.
func StartIrrigation(c *gin.Context) {
	var req struct {
		ZoneID          string `json:"zone_id"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var plants []models.Plant
	var zone *models.IrrigationZone
	duration := req.DurationMinutes

	if req.ZoneID != "" {
		var z models.IrrigationZone
		if err := config.DB.Where("zone_id = ?", req.ZoneID).First(&z).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
			return
		}
		zone = &z
		plants = plantsInZone(z)
		if duration <= 0 {
			duration = z.DefaultDurationMinutes
		}
	} else {
		if err := config.DB.Find(&plants).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plants"})
			return
		}
		if duration <= 0 {
			duration = 15
		}
	}

	now := time.Now()
	started := 0
	skipped := 0
	for _, plant := range plants {
		var active int64
		config.DB.Model(&models.IrrigationEvent{}).
			Where("plant_id = ? AND status IN ?", plant.ID, []string{"scheduled", "in_progress"}).
			Count(&active)
		if active > 0 {
			skipped++
			continue
		}

		event := models.IrrigationEvent{
			PlantID:         plant.ID,
			EventType:       "manual",
			Status:          "in_progress",
			ScheduledTime:   now,
			StartTime:       &now,
			DurationMinutes: duration,
			WaterAmountML:   duration * 20,
			TriggerReason:   "Manual system start",
		}
		if config.DB.Create(&event).Error == nil {
			started++
		}
	}

	if zone != nil {
		zone.LastIrrigated = &now
		config.DB.Save(zone)
		deviceManager.StartIrrigationZone(controllerForZone(zone.ZoneID), 1, duration)
	} else {
		deviceManager.Broadcast("pump/control", map[string]any{
			"action":   "start",
			"duration": duration,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Irrigation started",
		"events_started":   started,
		"plants_skipped":   skipped,
		"duration_minutes": duration,
	})
}

// controllerForZone maps a zone code to its fleet controller name.
func controllerForZone(zoneID string) string {
	switch {
	case len(zoneID) > 0 && zoneID[0] == 'A':
		return "zone_a_controller"
	case len(zoneID) > 0 && zoneID[0] == 'B':
		return "zone_b_controller"
	default:
		return "main_controller"
	}
}

// StopIrrigation completes every running event, recording the actual
// duration and a pro-rata water amount.
func StopIrrigation(c *gin.Context) {
	var events []models.IrrigationEvent
	if err := config.DB.Where("status = ?", "in_progress").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	now := time.Now()
	stopped := 0
	for i := range events {
		event := &events[i]
		event.Status = "completed"
		event.EndTime = &now

		if event.StartTime != nil {
			actualMinutes := now.Sub(*event.StartTime).Minutes()
			actualMinutes = math.Round(actualMinutes*100) / 100
			event.ActualDurationMinutes = &actualMinutes

			if event.DurationMinutes > 0 {
				actualWater := int(float64(event.WaterAmountML) * actualMinutes / float64(event.DurationMinutes))
				event.ActualWaterAmountML = &actualWater
			}
		}

		if config.DB.Save(event).Error == nil {
			stopped++
		}
	}

	deviceManager.StopAllIrrigation()

	c.JSON(http.StatusOK, gin.H{
		"message":        "Irrigation stopped",
		"events_stopped": stopped,
	})
}

// IrrigationStatus reports running and scheduled events plus per-zone state.
func IrrigationStatus(c *gin.Context) {
	var activeCount, scheduledCount int64
	config.DB.Model(&models.IrrigationEvent{}).Where("status = ?", "in_progress").Count(&activeCount)
	config.DB.Model(&models.IrrigationEvent{}).Where("status = ?", "scheduled").Count(&scheduledCount)

	var zones []models.IrrigationZone
	config.DB.Find(&zones)
	zoneStatuses := make([]gin.H, 0, len(zones))
	for _, z := range zones {
		zoneStatuses = append(zoneStatuses, gin.H{
			"zone_id":            z.ZoneID,
			"name":               z.Name,
			"status":             z.Status,
			"last_irrigated":     z.LastIrrigated,
			"total_water_used_l": z.TotalWaterUsedL,
		})
	}

	var current []models.IrrigationEvent
	config.DB.Preload("Plant").Where("status = ?", "in_progress").Limit(5).Find(&current)
	currentEvents := make([]gin.H, 0, len(current))
	now := time.Now()
	for _, e := range current {
		progress := 0.0
		if e.StartTime != nil && e.DurationMinutes > 0 {
			progress = now.Sub(*e.StartTime).Minutes() / float64(e.DurationMinutes) * 100
			progress = math.Min(100, math.Round(progress*10)/10)
		}
		entry := gin.H{
			"id":               e.ID,
			"start_time":       e.StartTime,
			"duration_minutes": e.DurationMinutes,
			"progress_percent": progress,
		}
		if e.Plant != nil {
			entry["plant_name"] = e.Plant.Name
		}
		currentEvents = append(currentEvents, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"active_events":    activeCount,
		"scheduled_events": scheduledCount,
		"is_running":       activeCount > 0,
		"zones":            zoneStatuses,
		"current_events":   currentEvents,
	})
}

// EmergencyStop cancels every pending and running event and flags the system.
func EmergencyStop(c *gin.Context) {
	result := config.DB.Model(&models.IrrigationEvent{}).
		Where("status IN ?", []string{"scheduled", "in_progress"}).
		Update("status", "cancelled")

	deviceManager.StopAllIrrigation()

	config.DB.Create(&models.SystemStatus{
		Status:               "error",
		CPUUsage:             20 + rand.Float64()*40,
		MemoryUsage:          30 + rand.Float64()*40,
		DiskUsage:            40 + rand.Float64()*20,
		InternetConnectivity: 90 + rand.Float64()*10,
		Timestamp:            time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":          "Emergency stop executed: all irrigation cancelled",
		"events_cancelled": result.RowsAffected,
	})
}

// SystemRestart clears the error state and records a fresh status snapshot.
func SystemRestart(c *gin.Context) {
	deviceManager.Broadcast("system/reset", map[string]any{"action": "reset"})

	var activeSensors int64
	config.DB.Model(&models.Sensor{}).Where("status = ?", "active").Count(&activeSensors)

	status := models.SystemStatus{
		Status:               "active",
		CPUUsage:             math.Round((10+rand.Float64()*20)*10) / 10,
		MemoryUsage:          math.Round((25+rand.Float64()*20)*10) / 10,
		DiskUsage:            math.Round((40+rand.Float64()*15)*10) / 10,
		InternetConnectivity: 95 + rand.Float64()*5,
		ActiveSensors:        int(activeSensors),
		Timestamp:            time.Now(),
	}
	if err := config.DB.Create(&status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record system status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "System restarted successfully",
		"system_status": status,
	})
}

// TestMode toggles maintenance mode on or off.
func TestMode(c *gin.Context) {
	var req struct {
		Enable bool `json:"enable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	status := "active"
	message := "Test mode disabled, system back to normal operation"
	if req.Enable {
		status = "maintenance"
		message = "Test mode enabled"
	}

	config.DB.Create(&models.SystemStatus{
		Status:               status,
		CPUUsage:             15 + rand.Float64()*20,
		MemoryUsage:          30 + rand.Float64()*20,
		DiskUsage:            45 + rand.Float64()*10,
		InternetConnectivity: 95 + rand.Float64()*5,
		Timestamp:            time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"message": message, "status": status})
}

// CalibrateSensors sends a calibration command for every active sensor.
func CalibrateSensors(c *gin.Context) {
	var sensors []models.Sensor
	if err := config.DB.Where("status = ?", "active").Find(&sensors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensors"})
		return
	}

	results := make([]gin.H, 0, len(sensors))
	for _, sensor := range sensors {
		result := deviceManager.Controller("main_controller").CalibrateSensor(sensor.SensorID)
		entry := gin.H{
			"sensor_id": sensor.SensorID,
			"success":   result.Success,
		}
		if !result.Success {
			entry["error"] = result.Error
		}
		results = append(results, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Calibration attempted on %d sensors", len(sensors)),
		"results": results,
	})
}
