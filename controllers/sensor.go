package controllers

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"agrosense/config"
	"agrosense/models"
	"agrosense/utils"

	"github.com/gin-gonic/gin"
)

// sensorTypeKey normalizes a sensor type name for threshold lookups
// ("Soil Moisture" -> "soil_moisture").
func sensorTypeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// ListSensors returns all sensors with their type details.
func ListSensors(c *gin.Context) {
	var sensors []models.Sensor
	if err := config.DB.Preload("SensorType").Find(&sensors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensors"})
		return
	}
	c.JSON(http.StatusOK, sensors)
}

// CreateSensor registers a new sensor.
func CreateSensor(c *gin.Context) {
	var sensor models.Sensor
	if err := c.ShouldBindJSON(&sensor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := config.DB.Create(&sensor).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Sensor already exists"})
		return
	}
	c.JSON(http.StatusCreated, sensor)
}

// GetSensor returns one sensor by numeric ID.
func GetSensor(c *gin.Context) {
	var sensor models.Sensor
	if err := config.DB.Preload("SensorType").First(&sensor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found"})
		return
	}
	c.JSON(http.StatusOK, sensor)
}

// UpdateSensor updates a sensor's mutable fields.
func UpdateSensor(c *gin.Context) {
	var sensor models.Sensor
	if err := config.DB.First(&sensor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found"})
		return
	}

	var input models.Sensor
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	sensor.Name = input.Name
	sensor.Location = input.Location
	sensor.Depth = input.Depth
	sensor.Status = input.Status
	sensor.IsCritical = input.IsCritical

	if err := config.DB.Save(&sensor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sensor"})
		return
	}
	c.JSON(http.StatusOK, sensor)
}

// DeleteSensor removes a sensor and its readings.
func DeleteSensor(c *gin.Context) {
	var sensor models.Sensor
	if err := config.DB.First(&sensor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found"})
		return
	}

	config.DB.Where("sensor_id = ?", sensor.ID).Delete(&models.SensorReading{})
	if err := config.DB.Delete(&sensor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sensor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sensor deleted successfully"})
}

// ListReadings returns readings filtered by sensor code and time window.
// Defaults to the last 24 hours.
func ListReadings(c *gin.Context) {
	hours := 24
	if h := c.Query("hours"); h != "" {
		parsed, err := strconv.Atoi(h)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hours parameter"})
			return
		}
		hours = parsed
	}

	query := config.DB.Preload("Sensor").Preload("Sensor.SensorType").
		Where("timestamp >= ?", time.Now().Add(-time.Duration(hours)*time.Hour)).
		Order("timestamp desc")

	if code := c.Query("sensor_id"); code != "" {
		var sensor models.Sensor
		if err := config.DB.Where("sensor_id = ?", code).First(&sensor).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found"})
			return
		}
		query = query.Where("sensor_id = ?", sensor.ID)
	}

	var readings []models.SensorReading
	if err := query.Find(&readings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}
	c.JSON(http.StatusOK, readings)
}

// CreateReading stores an incoming measurement, flags anomalies and pushes
// the update to WebSocket clients.
func CreateReading(c *gin.Context) {
	var reading models.SensorReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	var sensor models.Sensor
	if err := config.DB.Preload("SensorType").First(&sensor, reading.SensorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found"})
		return
	}

	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}
	reading.IsAnomaly = utils.CheckAnomaly(sensorTypeKey(sensor.SensorType.Name), reading.Value)

	if err := config.DB.Create(&reading).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reading"})
		return
	}

	BroadcastReading(reading)

	if sensorTypeKey(sensor.SensorType.Name) == "soil_moisture" {
		low, high, _ := config.GetIrrigationSettings()
		if reading.Value < low {
			BroadcastAlert(sensor.Name, reading.Value,
				fmt.Sprintf("Soil moisture %.1f%% - critical level", reading.Value))
		} else if reading.Value < high {
			BroadcastAlert(sensor.Name, reading.Value,
				fmt.Sprintf("Soil moisture %.1f%% - warning level", reading.Value))
		}
	}

	c.JSON(http.StatusCreated, reading)
}

// generateRandomReading creates and stores a plausible reading for the
// sensor's type. Critical soil moisture sensors get dry values so alerts
// have something to show.
func generateRandomReading(sensor models.Sensor) models.SensorReading {
	key := sensorTypeKey(sensor.SensorType.Name)
	min, max, known := utils.ValueRange(key)

	var value float64
	if known && key == "soil_moisture" && sensor.IsCritical {
		value = 15 + rand.Float64()*15
	} else {
		value = min + rand.Float64()*(max-min)
	}
	value = float64(int(value*100)) / 100

	reading := models.SensorReading{
		SensorID:  sensor.ID,
		Value:     value,
		Timestamp: time.Now(),
		IsAnomaly: utils.CheckAnomaly(key, value),
	}
	config.DB.Create(&reading)
	return reading
}

// RealtimeData generates a fresh reading per active sensor and returns the
// batch together with updated system status.
func RealtimeData(c *gin.Context) {
	var sensors []models.Sensor
	if err := config.DB.Preload("SensorType").Where("status = ?", "active").Find(&sensors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensors"})
		return
	}

	low, high, _ := config.GetIrrigationSettings()

	realtime := make([]gin.H, 0, len(sensors))
	for _, sensor := range sensors {
		reading := generateRandomReading(sensor)

		status := "normal"
		if sensorTypeKey(sensor.SensorType.Name) == "soil_moisture" {
			if reading.Value < low {
				status = "critical"
			} else if reading.Value < high {
				status = "warning"
			}
		}

		realtime = append(realtime, gin.H{
			"sensor_id":   sensor.SensorID,
			"sensor_name": sensor.Name,
			"sensor_type": sensor.SensorType.Name,
			"icon":        sensor.SensorType.Icon,
			"value":       reading.Value,
			"unit":        sensor.SensorType.Unit,
			"location":    sensor.Location,
			"timestamp":   reading.Timestamp,
			"status":      status,
			"is_critical": sensor.IsCritical,
		})
	}

	var systemStatus models.SystemStatus
	if err := config.DB.Order("timestamp desc").First(&systemStatus).Error; err == nil {
		systemStatus.CPUUsage = 15 + rand.Float64()*30
		systemStatus.MemoryUsage = 25 + rand.Float64()*40
		systemStatus.ActiveSensors = len(sensors)
		config.DB.Save(&systemStatus)
	}

	c.JSON(http.StatusOK, gin.H{
		"sensors":              realtime,
		"timestamp":            time.Now(),
		"active_sensors_count": len(sensors),
		"system_status":        systemStatus,
	})
}

// SensorStatistics aggregates min/max/avg per sensor over the last 24 hours.
func SensorStatistics(c *gin.Context) {
	var sensors []models.Sensor
	if err := config.DB.Preload("SensorType").Find(&sensors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sensors"})
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	statistics := make([]gin.H, 0, len(sensors))

	for _, sensor := range sensors {
		var readings []models.SensorReading
		config.DB.Where("sensor_id = ? AND timestamp >= ?", sensor.ID, since).
			Order("timestamp desc").Find(&readings)
		if len(readings) == 0 {
			continue
		}

		min, max, sum := readings[0].Value, readings[0].Value, 0.0
		for _, r := range readings {
			if r.Value < min {
				min = r.Value
			}
			if r.Value > max {
				max = r.Value
			}
			sum += r.Value
		}

		statistics = append(statistics, gin.H{
			"sensor_name":   sensor.Name,
			"sensor_icon":   sensor.SensorType.Icon,
			"current_value": readings[0].Value,
			"unit":          sensor.SensorType.Unit,
			"min_value":     min,
			"max_value":     max,
			"avg_value":     float64(int(sum/float64(len(readings))*100)) / 100,
		})
	}

	c.JSON(http.StatusOK, statistics)
}

// DownloadCSV exports readings as a CSV file.
func DownloadCSV(c *gin.Context) {
	var readings []models.SensorReading
	if err := config.DB.Preload("Sensor").Order("timestamp desc").Find(&readings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=sensor_readings.csv")
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"timestamp", "sensor", "value", "is_anomaly"})
	for _, reading := range readings {
		name := ""
		if reading.Sensor != nil {
			name = reading.Sensor.Name
		}
		writer.Write([]string{
			reading.Timestamp.Format("2006-01-02 15:04:05"),
			name,
			fmt.Sprintf("%.2f", reading.Value),
			strconv.FormatBool(reading.IsAnomaly),
		})
	}
}

// GenerateSampleData seeds sensor types, sensors, a day of readings and a
// system status row for demo purposes.
func GenerateSampleData(c *gin.Context) {
	sensorTypes := []models.SensorType{
		{Name: "Soil Moisture", Unit: "%", Icon: "🌍", Description: "Soil moisture level"},
		{Name: "Soil Temperature", Unit: "°C", Icon: "🌡️", Description: "Soil temperature"},
		{Name: "Air Temperature", Unit: "°C", Icon: "🌡️", Description: "Air temperature"},
		{Name: "Air Humidity", Unit: "%", Icon: "💨", Description: "Air humidity"},
		{Name: "Rainfall", Unit: "mm", Icon: "🌧️", Description: "Rainfall"},
		{Name: "pH", Unit: "pH", Icon: "⚡", Description: "Soil pH level"},
		{Name: "Conductivity", Unit: "mS/cm", Icon: "🔌", Description: "Soil conductivity"},
		{Name: "Light Intensity", Unit: "W/m²", Icon: "☀️", Description: "Light intensity"},
	}
	typeByName := map[string]uint{}
	for _, st := range sensorTypes {
		var existing models.SensorType
		if err := config.DB.Where("name = ?", st.Name).First(&existing).Error; err != nil {
			config.DB.Create(&st)
			typeByName[st.Name] = st.ID
		} else {
			typeByName[st.Name] = existing.ID
		}
	}

	depth15 := 15.0
	depth20 := 20.0
	sensors := []models.Sensor{
		{SensorID: "SOIL_MOIST_01", Name: "Soil Moisture Sensor #1", SensorTypeID: typeByName["Soil Moisture"], Location: "Sector A, row 2", Depth: &depth15, IsCritical: true},
		{SensorID: "SOIL_MOIST_02", Name: "Soil Moisture Sensor #2", SensorTypeID: typeByName["Soil Moisture"], Location: "Sector B, row 1", Depth: &depth15},
		{SensorID: "SOIL_TEMP_01", Name: "Soil Temperature #1", SensorTypeID: typeByName["Soil Temperature"], Location: "Sector A, depth 15cm", Depth: &depth15},
		{SensorID: "AIR_HUMIDITY_01", Name: "Air Humidity Sensor", SensorTypeID: typeByName["Air Humidity"], Location: "Central weather station"},
		{SensorID: "AIR_TEMP_01", Name: "Air Temperature Sensor", SensorTypeID: typeByName["Air Temperature"], Location: "Central weather station"},
		{SensorID: "RAINFALL_01", Name: "Rainfall Sensor", SensorTypeID: typeByName["Rainfall"], Location: "Central weather station"},
		{SensorID: "PH_01", Name: "pH Sensor", SensorTypeID: typeByName["pH"], Location: "Sector A, depth 20cm", Depth: &depth20, Status: "maintenance"},
		{SensorID: "CONDUCT_01", Name: "Conductivity Sensor", SensorTypeID: typeByName["Conductivity"], Location: "Sector A, depth 20cm", Depth: &depth20},
		{SensorID: "LIGHT_01", Name: "Light Sensor", SensorTypeID: typeByName["Light Intensity"], Location: "Central weather station"},
	}

	sensorsCreated := 0
	for _, s := range sensors {
		var existing models.Sensor
		if err := config.DB.Where("sensor_id = ?", s.SensorID).First(&existing).Error; err != nil {
			if config.DB.Create(&s).Error == nil {
				sensorsCreated++
			}
		}
	}

	var allSensors []models.Sensor
	config.DB.Preload("SensorType").Find(&allSensors)

	readingsCreated := 0
	for _, sensor := range allSensors {
		for i := 0; i < 24; i++ {
			reading := generateRandomReading(sensor)
			reading.Timestamp = time.Now().Add(-time.Duration(i) * time.Hour)
			config.DB.Save(&reading)
			readingsCreated++
		}
	}

	var activeCount int64
	config.DB.Model(&models.Sensor{}).Where("status = ?", "active").Count(&activeCount)
	lastAnalysis := time.Now().Add(-time.Duration(1+rand.Intn(10)) * time.Minute)
	config.DB.Create(&models.SystemStatus{
		Status:               "active",
		CPUUsage:             15 + rand.Float64()*25,
		MemoryUsage:          30 + rand.Float64()*30,
		DiskUsage:            50 + rand.Float64()*35,
		InternetConnectivity: 95 + rand.Float64()*5,
		ActiveSensors:        int(activeCount),
		LastAIAnalysis:       &lastAnalysis,
		Timestamp:            time.Now(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Sample data created successfully",
		"sensors_created":  sensorsCreated,
		"readings_created": readingsCreated,
	})
}
