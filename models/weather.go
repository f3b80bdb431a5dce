package models

import "time"

// WeatherData is a snapshot fetched from the external weather API.
type WeatherData struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Location         string    `json:"location" gorm:"default:Tashkent"`
	Temperature      float64   `json:"temperature"`
	Humidity         float64   `json:"humidity"`
	Pressure         float64   `json:"pressure"`
	WindSpeed        float64   `json:"wind_speed"` // km/h
	WindDirection    string    `json:"wind_direction"`
	Rainfall         float64   `json:"rainfall"`
	SolarRadiation   *float64  `json:"solar_radiation"`
	WeatherCondition string    `json:"weather_condition"`
	Icon             string    `json:"icon"`
	Visibility       float64   `json:"visibility" gorm:"default:10000"` // meters
	UVIndex          *float64  `json:"uv_index"`
	AirQualityIndex  *int      `json:"air_quality_index"` // 1-5 scale
	FeelsLike        *float64  `json:"feels_like_temperature"`
	CloudCoverage    int       `json:"cloud_coverage"`
	DewPoint         *float64  `json:"dew_point"`
	WindGust         *float64  `json:"wind_gust"`
	Timestamp        time.Time `json:"timestamp"`
}

// WeatherForecast is one day of forecast data for a location.
type WeatherForecast struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Location       string `json:"location" gorm:"uniqueIndex:idx_location_date;default:Tashkent"`
	ForecastDate   string `json:"forecast_date" gorm:"uniqueIndex:idx_location_date"` // YYYY-MM-DD

	TempMin        float64  `json:"temp_min"`
	TempMax        float64  `json:"temp_max"`
	TempDay        float64  `json:"temp_day"`
	TempNight      float64  `json:"temp_night"`
	FeelsLikeDay   *float64 `json:"feels_like_day"`
	FeelsLikeNight *float64 `json:"feels_like_night"`

	Humidity      float64  `json:"humidity"`
	Pressure      float64  `json:"pressure"`
	WindSpeed     float64  `json:"wind_speed"`
	WindDirection string   `json:"wind_direction"`
	WindGust      *float64 `json:"wind_gust"`

	Rainfall                 float64 `json:"rainfall"`
	PrecipitationProbability int     `json:"precipitation_probability"` // percentage

	WeatherCondition   string `json:"weather_condition"`
	WeatherDescription string `json:"weather_description"`
	Icon               string `json:"icon"`
	CloudCoverage      int    `json:"cloud_coverage"`

	UVIndex    *float64 `json:"uv_index"`
	Visibility float64  `json:"visibility" gorm:"default:10000"`

	CreatedAt time.Time `json:"created_at"`
}
