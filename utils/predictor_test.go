package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIrrigationScoreDrySoil(t *testing.T) {
	// Critically dry soil, dry air, hot, no rain: every component maxed.
	score := IrrigationScore(20, 30, 35, 0)
	assert.Greater(t, score, 0.9)
	assert.LessOrEqual(t, score, 1.0)
}

func TestIrrigationScoreWetSoil(t *testing.T) {
	score := IrrigationScore(75, 80, 18, 15)
	assert.Less(t, score, 0.3)
}

func TestIrrigationScoreMoistureDominates(t *testing.T) {
	dry := IrrigationScore(20, 60, 25, 5)
	wet := IrrigationScore(70, 60, 25, 5)
	assert.Greater(t, dry-wet, 0.4, "moisture should carry half the weight")
}

func TestPredictIrrigationNeedThreshold(t *testing.T) {
	pred := PredictIrrigationNeed(
		map[string]float64{"soil_moisture": 18, "air_humidity": 25, "air_temperature": 36},
		map[string]float64{"rainfall_forecast": 0},
	)
	assert.True(t, pred.NeedIrrigation)
	assert.Equal(t, 20, pred.PredictedDurationMinutes)
	assert.Equal(t, PredictorVersion, pred.ModelVersion)
	assert.NotEmpty(t, pred.Recommendation)
	assert.NotEmpty(t, pred.Reasoning)
}

func TestPredictIrrigationNeedDefaults(t *testing.T) {
	// No readings at all should fall back to neutral values, not panic.
	pred := PredictIrrigationNeed(map[string]float64{}, map[string]float64{})
	assert.False(t, pred.NeedIrrigation)
	assert.GreaterOrEqual(t, pred.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, pred.ConfidenceScore, 95.0)
}

func TestIrrigationDuration(t *testing.T) {
	assert.Equal(t, 20, IrrigationDuration(20))
	assert.Equal(t, 15, IrrigationDuration(30))
	assert.Equal(t, 10, IrrigationDuration(50))
	assert.Equal(t, 5, IrrigationDuration(70))
}

func TestWaterAmountScalesWithDryness(t *testing.T) {
	dry := WaterAmount(20, 25)
	wet := WaterAmount(70, 25)
	assert.Greater(t, dry, wet)

	hot := WaterAmount(40, 36)
	mild := WaterAmount(40, 20)
	assert.Greater(t, hot, mild)
}

func TestCalculateOptimalTiming(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	morning := CalculateOptimalTiming(day.Add(7 * time.Hour))
	assert.Equal(t, "optimal", morning.Timing)

	evening := CalculateOptimalTiming(day.Add(19 * time.Hour))
	assert.Equal(t, "optimal", evening.Timing)

	midday := CalculateOptimalTiming(day.Add(13 * time.Hour))
	assert.Equal(t, "avoid", midday.Timing)

	night := CalculateOptimalTiming(day.Add(23 * time.Hour))
	assert.Equal(t, "acceptable", night.Timing)
}
