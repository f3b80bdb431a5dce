package utils

// valueRanges maps a sensor type key to the plausible range for readings.
// Values outside the range are flagged as anomalies.
var valueRanges = map[string][2]float64{
	"soil_moisture":    {15, 80},
	"soil_temperature": {10, 35},
	"air_temperature":  {15, 40},
	"air_humidity":     {30, 90},
	"rainfall":         {0, 50},
	"ph":               {5.5, 8.0},
	"conductivity":     {0.5, 3.0},
	"light_intensity":  {100, 1000},
}

// CheckAnomaly determines whether a reading is outside the plausible range
// for its sensor type. Unknown types are never anomalous.
func CheckAnomaly(sensorTypeKey string, value float64) bool {
	r, ok := valueRanges[sensorTypeKey]
	if !ok {
		return false
	}
	return value < r[0] || value > r[1]
}

// ValueRange returns the plausible reading range for a sensor type key.
func ValueRange(sensorTypeKey string) (min, max float64, ok bool) {
	r, found := valueRanges[sensorTypeKey]
	if !found {
		return 0, 100, false
	}
	return r[0], r[1], true
}
