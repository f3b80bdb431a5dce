package utils

import (
	"math"
	"time"
)

const HealthAnalyzerVersion = "2.1.0"

// PlantHealthResult is the output of one plant-health assessment.
type PlantHealthResult struct {
	OverallHealthScore float64      `json:"overall_health_score"` // 0-100
	HealthStatus       string       `json:"health_status"`
	GrowthScore        float64      `json:"growth_score"`
	StressLevel        float64      `json:"stress_level"`
	EnvironmentScore   float64      `json:"environment_score"`
	Recommendations    []string     `json:"recommendations"`
	RiskFactors        []RiskFactor `json:"risk_factors"`
	ModelVersion       string       `json:"model_version"`
	Timestamp          string       `json:"timestamp"`
}

type RiskFactor struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// PlantHealthInput carries the plant metrics the analyzer needs.
type PlantHealthInput struct {
	DaysSincePlanted int
	Height           float64
	GrowthStage      string
	HealthStatus     string
	LeafCount        int
}

// AnalyzePlantHealth combines growth, stress and environment scores into an
// overall assessment with recommendations.
func AnalyzePlantHealth(sensorData map[string]float64, plant PlantHealthInput) PlantHealthResult {
	growthScore := assessGrowthRate(plant)
	stressScore := detectStressIndicators(sensorData)
	environmentScore := evaluateEnvironment(sensorData)

	overall := (growthScore + environmentScore + (1 - stressScore)) / 3

	return PlantHealthResult{
		OverallHealthScore: round1(overall * 100),
		HealthStatus:       classifyHealthStatus(overall),
		GrowthScore:        round1(growthScore * 100),
		StressLevel:        round1(stressScore * 100),
		EnvironmentScore:   round1(environmentScore * 100),
		Recommendations:    healthRecommendations(growthScore, stressScore, environmentScore, sensorData),
		RiskFactors:        identifyRiskFactors(sensorData, stressScore),
		ModelVersion:       HealthAnalyzerVersion,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}
}

func assessGrowthRate(plant PlantHealthInput) float64 {
	expectedHeight := float64(plant.DaysSincePlanted) * 0.8
	if expectedHeight <= 0 {
		return 0.5
	}
	ratio := math.Min(1.2, plant.Height/expectedHeight)
	return math.Min(1.0, ratio)
}

// detectStressIndicators returns 0-1, higher meaning more stress. The worst
// single factor dominates.
func detectStressIndicators(sensorData map[string]float64) float64 {
	var factors []float64

	soilMoisture := valueOr(sensorData, "soil_moisture", 50)
	if soilMoisture < 30 {
		factors = append(factors, 0.8)
	} else if soilMoisture < 45 {
		factors = append(factors, 0.4)
	}

	temperature := valueOr(sensorData, "air_temperature", 25)
	if temperature > 32 || temperature < 10 {
		factors = append(factors, 0.9)
	} else if temperature > 28 || temperature < 15 {
		factors = append(factors, 0.3)
	}

	ph := valueOr(sensorData, "ph", 6.8)
	if ph < 5.5 || ph > 8.0 {
		factors = append(factors, 0.7)
	} else if ph < 6.0 || ph > 7.5 {
		factors = append(factors, 0.2)
	}

	if len(factors) == 0 {
		return 0.1
	}
	max := factors[0]
	for _, f := range factors[1:] {
		if f > max {
			max = f
		}
	}
	return max
}

func evaluateEnvironment(sensorData map[string]float64) float64 {
	var factors []float64

	soilMoisture := valueOr(sensorData, "soil_moisture", 50)
	switch {
	case soilMoisture >= 60 && soilMoisture <= 80:
		factors = append(factors, 1.0)
	case (soilMoisture >= 40 && soilMoisture < 60) || (soilMoisture > 80 && soilMoisture <= 90):
		factors = append(factors, 0.7)
	default:
		factors = append(factors, 0.3)
	}

	temperature := valueOr(sensorData, "air_temperature", 25)
	switch {
	case temperature >= 18 && temperature <= 26:
		factors = append(factors, 1.0)
	case (temperature >= 15 && temperature < 18) || (temperature > 26 && temperature <= 30):
		factors = append(factors, 0.7)
	default:
		factors = append(factors, 0.3)
	}

	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

func classifyHealthStatus(score float64) string {
	switch {
	case score >= 0.9:
		return "excellent"
	case score >= 0.75:
		return "good"
	case score >= 0.6:
		return "fair"
	case score >= 0.4:
		return "poor"
	default:
		return "critical"
	}
}

func healthRecommendations(growthScore, stressScore, environmentScore float64, sensorData map[string]float64) []string {
	var recommendations []string

	if stressScore > 0.6 {
		recommendations = append(recommendations, "Focus on reducing stress factors")
		if valueOr(sensorData, "soil_moisture", 50) < 40 {
			recommendations = append(recommendations, "Increase irrigation frequency")
		}
	}
	if growthScore < 0.6 {
		recommendations = append(recommendations, "Stimulate plant growth")
		recommendations = append(recommendations, "Consider applying fertilizer")
	}
	if environmentScore < 0.7 {
		if valueOr(sensorData, "air_temperature", 25) > 30 {
			recommendations = append(recommendations, "Take measures to lower the temperature")
		}
		ph := valueOr(sensorData, "ph", 6.8)
		if ph < 6.0 || ph > 7.5 {
			recommendations = append(recommendations, "Adjust the soil pH level")
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Plant condition is good, continue the current care routine")
	}
	return recommendations
}

func identifyRiskFactors(sensorData map[string]float64, stressScore float64) []RiskFactor {
	risks := []RiskFactor{}

	if stressScore > 0.7 {
		risks = append(risks, RiskFactor{
			Type:        "high_stress",
			Severity:    "high",
			Description: "Plant is under high stress",
			Action:      "Take action immediately",
		})
	}
	if valueOr(sensorData, "soil_moisture", 50) < 25 {
		risks = append(risks, RiskFactor{
			Type:        "drought_stress",
			Severity:    "critical",
			Description: "Drought stress",
			Action:      "Irrigate immediately",
		})
	}
	if valueOr(sensorData, "air_temperature", 25) > 35 {
		risks = append(risks, RiskFactor{
			Type:        "heat_stress",
			Severity:    "high",
			Description: "Heat stress",
			Action:      "Provide shade or cooling",
		})
	}
	return risks
}
