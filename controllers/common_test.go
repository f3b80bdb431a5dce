package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"agrosense/config"
	"agrosense/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB opens a per-test in-memory database, migrates the schema and
// points the global connection at it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, MigrateModels(db))
	require.NoError(t, config.InitIrrigationSettings(db))
	return db
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func newAuthedRequest(method, path, token string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

// seedSensor creates a sensor type and one sensor of that type.
func seedSensor(t *testing.T, db *gorm.DB, typeName, unit, code string) models.Sensor {
	t.Helper()
	var sensorType models.SensorType
	if err := db.Where("name = ?", typeName).First(&sensorType).Error; err != nil {
		sensorType = models.SensorType{Name: typeName, Unit: unit}
		require.NoError(t, db.Create(&sensorType).Error)
	}
	sensor := models.Sensor{
		SensorID:     code,
		Name:         typeName + " " + code,
		SensorTypeID: sensorType.ID,
		Location:     "Sector A",
		Status:       "active",
	}
	require.NoError(t, db.Create(&sensor).Error)
	return sensor
}

// seedPlant creates a plant type and a plant planted the given days ago.
func seedPlant(t *testing.T, db *gorm.DB, code string, daysAgo int) models.Plant {
	t.Helper()
	var plantType models.PlantType
	if err := db.Where("name = ?", "Tomato").First(&plantType).Error; err != nil {
		plantType = models.PlantType{
			Name:            "Tomato",
			GerminationDays: 7, VegetativeDays: 30, FloweringDays: 60, MaturityDays: 90,
		}
		require.NoError(t, db.Create(&plantType).Error)
	}
	height := 40.0
	plant := models.Plant{
		PlantID:      code,
		Name:         "Plant " + code,
		PlantTypeID:  plantType.ID,
		Location:     "Sector A, row 1",
		PlantedDate:  time.Now().AddDate(0, 0, -daysAgo),
		GrowthStage:  "flowering",
		HealthStatus: "good",
		Height:       &height,
	}
	require.NoError(t, db.Create(&plant).Error)
	return plant
}
