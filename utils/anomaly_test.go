package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAnomaly(t *testing.T) {
	assert.False(t, CheckAnomaly("soil_moisture", 50))
	assert.True(t, CheckAnomaly("soil_moisture", 10))
	assert.True(t, CheckAnomaly("soil_moisture", 95))

	assert.False(t, CheckAnomaly("ph", 6.8))
	assert.True(t, CheckAnomaly("ph", 4.2))

	// Range boundaries are still normal.
	assert.False(t, CheckAnomaly("air_humidity", 30))
	assert.False(t, CheckAnomaly("air_humidity", 90))
}

func TestCheckAnomalyUnknownType(t *testing.T) {
	assert.False(t, CheckAnomaly("wind_vibration", 99999))
}

func TestValueRange(t *testing.T) {
	min, max, ok := ValueRange("rainfall")
	assert.True(t, ok)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 50.0, max)

	_, _, ok = ValueRange("unknown")
	assert.False(t, ok)
}
