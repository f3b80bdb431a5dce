package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"agrosense/config"
	"agrosense/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sensorRouter() *gin.Engine {
	r := gin.New()
	r.GET("/sensors", ListSensors)
	r.POST("/sensors", CreateSensor)
	r.GET("/sensors/:id", GetSensor)
	r.PUT("/sensors/:id", UpdateSensor)
	r.DELETE("/sensors/:id", DeleteSensor)
	r.GET("/readings", ListReadings)
	r.POST("/readings", CreateReading)
	r.GET("/realtime", RealtimeData)
	r.GET("/statistics", SensorStatistics)
	r.POST("/generate-sample-data", GenerateSampleData)
	return r
}

func TestSensorCRUD(t *testing.T) {
	db := setupTestDB(t)
	r := sensorRouter()

	sensorType := models.SensorType{Name: "Soil Moisture", Unit: "%"}
	require.NoError(t, db.Create(&sensorType).Error)

	w := performRequest(r, http.MethodPost, "/sensors", gin.H{
		"sensor_id":   "SOIL_01",
		"name":        "Soil Moisture #1",
		"sensor_type": sensorType.ID,
		"location":    "Sector A",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	id := uint(created["id"].(float64))

	// Duplicate external code is rejected.
	w = performRequest(r, http.MethodPost, "/sensors", gin.H{
		"sensor_id":   "SOIL_01",
		"name":        "Duplicate",
		"sensor_type": sensorType.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/sensors/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", decodeBody(t, w)["status"])

	w = performRequest(r, http.MethodPut, fmt.Sprintf("/sensors/%d", id), gin.H{
		"name":     "Renamed",
		"location": "Sector B",
		"status":   "maintenance",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maintenance", decodeBody(t, w)["status"])

	w = performRequest(r, http.MethodDelete, fmt.Sprintf("/sensors/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/sensors/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReadingFlagsAnomaly(t *testing.T) {
	db := setupTestDB(t)
	r := sensorRouter()
	sensor := seedSensor(t, db, "Soil Moisture", "%", "SOIL_01")

	w := performRequest(r, http.MethodPost, "/readings", gin.H{
		"sensor": sensor.ID,
		"value":  5.0, // below the plausible range
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["is_anomaly"])

	w = performRequest(r, http.MethodPost, "/readings", gin.H{
		"sensor": sensor.ID,
		"value":  55.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_anomaly"])
}

func TestCreateReadingUnknownSensor(t *testing.T) {
	setupTestDB(t)
	r := sensorRouter()

	w := performRequest(r, http.MethodPost, "/readings", gin.H{
		"sensor": 9999,
		"value":  42.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListReadingsWindow(t *testing.T) {
	db := setupTestDB(t)
	r := sensorRouter()
	sensor := seedSensor(t, db, "Air Temperature", "°C", "AIR_01")

	recent := models.SensorReading{SensorID: sensor.ID, Value: 25, Timestamp: time.Now().Add(-time.Hour)}
	old := models.SensorReading{SensorID: sensor.ID, Value: 22, Timestamp: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, db.Create(&recent).Error)
	require.NoError(t, db.Create(&old).Error)

	// Default window is 24 hours.
	w := performRequest(r, http.MethodGet, "/readings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":25`)
	assert.NotContains(t, w.Body.String(), `"value":22`)

	// A wider window includes older readings.
	w = performRequest(r, http.MethodGet, "/readings?hours=72", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":22`)

	w = performRequest(r, http.MethodGet, "/readings?hours=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/readings?sensor_id=NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodGet, "/readings?sensor_id=AIR_01", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRealtimeDataGeneratesReadings(t *testing.T) {
	db := setupTestDB(t)
	r := sensorRouter()
	seedSensor(t, db, "Soil Moisture", "%", "SOIL_01")
	seedSensor(t, db, "Air Humidity", "%", "HUM_01")

	w := performRequest(r, http.MethodGet, "/realtime", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["active_sensors_count"])
	assert.Len(t, body["sensors"], 2)

	var count int64
	db.Model(&models.SensorReading{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSensorStatistics(t *testing.T) {
	db := setupTestDB(t)
	r := sensorRouter()
	sensor := seedSensor(t, db, "Soil Moisture", "%", "SOIL_01")

	for _, v := range []float64{30, 50, 40} {
		require.NoError(t, db.Create(&models.SensorReading{
			SensorID: sensor.ID, Value: v, Timestamp: time.Now().Add(-time.Minute),
		}).Error)
	}

	w := performRequest(r, http.MethodGet, "/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"min_value":30`)
	assert.Contains(t, w.Body.String(), `"max_value":50`)
	assert.Contains(t, w.Body.String(), `"avg_value":40`)
}

func TestGenerateSampleData(t *testing.T) {
	db := setupTestDB(t)
	r := sensorRouter()

	w := performRequest(r, http.MethodPost, "/generate-sample-data", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var sensorCount, readingCount, statusCount int64
	db.Model(&models.Sensor{}).Count(&sensorCount)
	db.Model(&models.SensorReading{}).Count(&readingCount)
	db.Model(&models.SystemStatus{}).Count(&statusCount)
	assert.Equal(t, int64(9), sensorCount)
	assert.Greater(t, readingCount, int64(0))
	assert.Equal(t, int64(1), statusCount)

	// Idempotent for sensors: a second run adds no duplicates.
	w = performRequest(r, http.MethodPost, "/generate-sample-data", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	db.Model(&models.Sensor{}).Count(&sensorCount)
	assert.Equal(t, int64(9), sensorCount)
}

func TestGetIrrigationSettingsDefaults(t *testing.T) {
	setupTestDB(t)
	low, high, interval := config.GetIrrigationSettings()
	assert.Equal(t, 25.0, low)
	assert.Equal(t, 40.0, high)
	assert.Equal(t, 30, interval)
}
