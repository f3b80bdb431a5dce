package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"agrosense/config"
	"agrosense/models"
	"agrosense/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// latestSensorValues collects the most recent reading per active sensor,
// keyed by normalized sensor type name.
func latestSensorValues() map[string]float64 {
	var sensors []models.Sensor
	config.DB.Preload("SensorType").Where("status = ?", "active").Find(&sensors)

	values := map[string]float64{}
	for _, sensor := range sensors {
		var reading models.SensorReading
		if err := config.DB.Where("sensor_id = ?", sensor.ID).
			Order("timestamp desc").First(&reading).Error; err != nil {
			continue
		}
		values[sensorTypeKey(sensor.SensorType.Name)] = reading.Value
	}
	return values
}

// latestWeatherValues returns the most recent weather snapshot as a flat map.
func latestWeatherValues() map[string]float64 {
	var weather models.WeatherData
	if err := config.DB.Order("timestamp desc").First(&weather).Error; err != nil {
		return map[string]float64{}
	}
	return map[string]float64{
		"temperature": weather.Temperature,
		"humidity":    weather.Humidity,
		"rainfall":    weather.Rainfall,
		"wind_speed":  weather.WindSpeed,
		"pressure":    weather.Pressure,
	}
}

// getOrCreateModel looks up the active model of the given type, creating the
// default row on first use.
func getOrCreateModel(modelType, name, version string, accuracy float64) models.AIModel {
	var model models.AIModel
	if err := config.DB.Where("model_type = ? AND is_active = ?", modelType, true).
		First(&model).Error; err != nil {
		model = models.AIModel{
			Name:      name,
			ModelType: modelType,
			Version:   version,
			Accuracy:  accuracy,
			IsActive:  true,
		}
		config.DB.Create(&model)
	}
	return model
}

func confidenceLevel(score float64) string {
	switch {
	case score >= 90:
		return "very_high"
	case score >= 75:
		return "high"
	case score >= 50:
		return "medium"
	case score >= 25:
		return "low"
	default:
		return "very_low"
	}
}

// AnalyzeIrrigation runs the irrigation predictor on the latest readings and
// stores the prediction.
func AnalyzeIrrigation(c *gin.Context) {
	sensorData := latestSensorValues()
	weatherData := latestWeatherValues()

	prediction := utils.PredictIrrigationNeed(sensorData, weatherData)

	model := getOrCreateModel("irrigation_predictor", "Irrigation Predictor",
		utils.PredictorVersion, utils.PredictorAccuracy)

	inputJSON, _ := json.Marshal(gin.H{"sensor_data": sensorData, "weather_data": weatherData})
	record := models.AIPrediction{
		ModelID:         model.ID,
		PredictionType:  "irrigation_need",
		InputData:       datatypes.JSON(inputJSON),
		PredictionValue: prediction.IrrigationScore,
		ConfidenceScore: prediction.ConfidenceScore,
		ConfidenceLevel: confidenceLevel(prediction.ConfidenceScore),
		Recommendation:  prediction.Recommendation,
		Reasoning:       prediction.Reasoning,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store prediction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":    prediction,
		"prediction_id": record.ID,
		"model":         model.Name,
	})
}

// AnalyzePlantHealth runs the health analyzer for one plant (by plant_id
// query) or the first plant, and stores the prediction.
func AnalyzePlantHealth(c *gin.Context) {
	var plant models.Plant
	query := config.DB.Preload("PlantType")
	if id := c.Query("plant_id"); id != "" {
		if err := query.First(&plant, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
			return
		}
	} else {
		if err := query.First(&plant).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No plants registered"})
			return
		}
	}

	input := utils.PlantHealthInput{
		DaysSincePlanted: plant.DaysSincePlanted(),
		GrowthStage:      plant.GrowthStage,
		HealthStatus:     plant.HealthStatus,
	}
	if plant.Height != nil {
		input.Height = *plant.Height
	}
	if plant.LeafCount != nil {
		input.LeafCount = *plant.LeafCount
	}

	sensorData := latestSensorValues()
	result := utils.AnalyzePlantHealth(sensorData, input)

	model := getOrCreateModel("plant_health", "Plant Health Analyzer",
		utils.HealthAnalyzerVersion, 91.5)

	inputJSON, _ := json.Marshal(gin.H{
		"plant_id":    plant.PlantID,
		"sensor_data": sensorData,
	})
	record := models.AIPrediction{
		ModelID:         model.ID,
		PredictionType:  "plant_health_risk",
		InputData:       datatypes.JSON(inputJSON),
		PredictionValue: result.OverallHealthScore,
		ConfidenceScore: result.OverallHealthScore,
		ConfidenceLevel: confidenceLevel(result.OverallHealthScore),
		Recommendation:  fmt.Sprintf("Plant status: %s", result.HealthStatus),
	}
	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store prediction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plant_id":      plant.PlantID,
		"plant_name":    plant.Name,
		"analysis":      result,
		"prediction_id": record.ID,
	})
}

// ComprehensiveAnalysis gathers all data, sends it to Gemini and stores the
// returned insights. There is no fallback: a failed Gemini call fails the
// session.
func ComprehensiveAnalysis(c *gin.Context) {
	var req struct {
		FieldParams map[string]any `json:"field_params"`
		PlantParams map[string]any `json:"plant_params"`
	}
	c.ShouldBindJSON(&req) // body is optional

	session := models.AIAnalysisSession{
		SessionID:   uuid.NewString()[:8],
		SessionType: "manual",
		Status:      "running",
		StartedAt:   time.Now(),
	}
	if err := config.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create analysis session"})
		return
	}

	sensorData := latestSensorValues()
	weatherData := latestWeatherValues()

	var plants []models.Plant
	config.DB.Preload("PlantType").Find(&plants)
	onTrack := 0
	for _, p := range plants {
		if p.IsGrowthOnTrack() {
			onTrack++
		}
	}
	plantData := map[string]any{
		"total_plants":    len(plants),
		"plants_on_track": onTrack,
	}

	sensorsJSON, _ := json.Marshal(sensorData)
	weatherJSON, _ := json.Marshal(weatherData)
	plantsJSON, _ := json.Marshal(plantData)
	session.InputSensors = datatypes.JSON(sensorsJSON)
	session.WeatherData = datatypes.JSON(weatherJSON)
	session.PlantData = datatypes.JSON(plantsJSON)

	prompt := utils.BuildAnalysisPrompt(sensorData, weatherData, plantData, req.FieldParams, req.PlantParams)
	responseText, err := utils.GenerateContent(config.GeminiAPIKey, prompt)
	if err != nil {
		now := time.Now()
		session.Status = "failed"
		session.CompletedAt = &now
		config.DB.Save(&session)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "AI analysis failed",
			"details":    err.Error(),
			"session_id": session.SessionID,
		})
		return
	}

	insights := utils.ExtractInsights(responseText)
	savedInsights := 0
	for _, ins := range insights {
		supporting, _ := json.Marshal(gin.H{"session_id": session.SessionID})
		tags, _ := json.Marshal([]string{"gemini", "comprehensive"})
		row := models.AIInsight{
			InsightType:     "pattern_discovery",
			Title:           ins["title"],
			Description:     ins["description"],
			SupportingData:  datatypes.JSON(supporting),
			ConfidenceLevel: 85,
			ImportanceLevel: ins["priority"],
			Tags:            datatypes.JSON(tags),
		}
		if config.DB.Create(&row).Error == nil {
			savedInsights++
		}
	}

	actionPlan := utils.ExtractActionPlan(responseText)
	recommendationsJSON, _ := json.Marshal(actionPlan)
	session.Recommendations = datatypes.JSON(recommendationsJSON)

	alerts := []string{}
	if moisture, ok := sensorData["soil_moisture"]; ok && moisture < 25 {
		alerts = append(alerts, fmt.Sprintf("Soil moisture critically low: %.1f%%", moisture))
	}
	alertsJSON, _ := json.Marshal(alerts)
	session.CriticalAlerts = datatypes.JSON(alertsJSON)

	now := time.Now()
	processing := now.Sub(session.StartedAt).Seconds()
	session.Status = "completed"
	session.CompletedAt = &now
	session.ProcessingTimeSeconds = &processing
	session.PredictionsGenerated = savedInsights
	if err := config.DB.Save(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":      session.SessionID,
		"status":          session.Status,
		"analysis":        responseText,
		"insights_saved":  savedInsights,
		"action_plan":     actionPlan,
		"critical_alerts": alerts,
	})
}

// ListInsights returns the ten most recent AI insights.
func ListInsights(c *gin.Context) {
	var insights []models.AIInsight
	if err := config.DB.Order("created_at desc").Limit(10).Find(&insights).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch insights"})
		return
	}
	c.JSON(http.StatusOK, insights)
}

// ModelStatus reports active models with their recent prediction activity.
func ModelStatus(c *gin.Context) {
	var aiModels []models.AIModel
	if err := config.DB.Where("is_active = ?", true).Find(&aiModels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch models"})
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	statuses := make([]gin.H, 0, len(aiModels))
	for _, model := range aiModels {
		var recentCount int64
		config.DB.Model(&models.AIPrediction{}).
			Where("model_id = ? AND created_at >= ?", model.ID, since).
			Count(&recentCount)

		var lastPrediction models.AIPrediction
		var lastAt *time.Time
		if err := config.DB.Where("model_id = ?", model.ID).
			Order("created_at desc").First(&lastPrediction).Error; err == nil {
			lastAt = &lastPrediction.CreatedAt
		}

		statuses = append(statuses, gin.H{
			"name":                model.Name,
			"model_type":          model.ModelType,
			"version":             model.Version,
			"accuracy":            model.Accuracy,
			"predictions_24h":     recentCount,
			"last_prediction_at":  lastAt,
			"training_data_count": model.TrainingDataCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"models": statuses, "active_models": len(aiModels)})
}

// AnalysisHistory returns the twenty most recent analysis sessions.
func AnalysisHistory(c *gin.Context) {
	var sessions []models.AIAnalysisSession
	if err := config.DB.Order("started_at desc").Limit(20).Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}
