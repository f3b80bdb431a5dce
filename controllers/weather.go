package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"agrosense/config"
	"agrosense/models"

	"github.com/gin-gonic/gin"
)

// OpenWeatherBaseURL is overridable in tests.
var OpenWeatherBaseURL = "http://api.openweathermap.org"

var weatherHTTPClient = &http.Client{Timeout: 10 * time.Second}

type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64  `json:"speed"`
		Deg   float64  `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Visibility float64 `json:"visibility"`
	Cod        int     `json:"cod"`
}

// GetWeather fetches the current weather from OpenWeatherMap, stores a
// snapshot and returns it. Falls back to generated data when the API is
// unreachable.
func GetWeather(c *gin.Context) {
	city := c.DefaultQuery("city", "Tashkent")
	apiKey := config.OpenWeatherAPIKey

	reqURL := fmt.Sprintf("%s/data/2.5/weather?q=%s&appid=%s&units=metric",
		OpenWeatherBaseURL, url.QueryEscape(city), apiKey)

	resp, err := weatherHTTPClient.Get(reqURL)
	if err != nil {
		weather := mockWeather(city)
		config.DB.Create(&weather)
		c.JSON(http.StatusOK, weather)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var data openWeatherResponse
	if err := json.Unmarshal(body, &data); err != nil || resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weather API error", "details": string(body)})
		return
	}

	condition := ""
	icon := ""
	if len(data.Weather) > 0 {
		condition = data.Weather[0].Description
		icon = data.Weather[0].Icon
	}

	aqi := fetchAirQuality(city, apiKey)
	solar := 400 + rand.Float64()*600
	uv := 1 + rand.Float64()*10
	feelsLike := data.Main.FeelsLike
	dewPoint := calculateDewPoint(data.Main.Temp, data.Main.Humidity)

	weather := models.WeatherData{
		Location:         data.Name,
		Temperature:      data.Main.Temp,
		Humidity:         data.Main.Humidity,
		Pressure:         data.Main.Pressure,
		WindSpeed:        data.Wind.Speed * 3.6, // m/s to km/h
		WindDirection:    windDirection(data.Wind.Deg),
		Rainfall:         data.Rain.OneHour,
		SolarRadiation:   &solar,
		WeatherCondition: condition,
		Icon:             icon,
		Visibility:       data.Visibility,
		UVIndex:          &uv,
		AirQualityIndex:  aqi,
		FeelsLike:        &feelsLike,
		CloudCoverage:    data.Clouds.All,
		DewPoint:         &dewPoint,
		Timestamp:        time.Now(),
	}
	if data.Wind.Gust != nil {
		gust := *data.Wind.Gust * 3.6
		weather.WindGust = &gust
	}

	if err := config.DB.Create(&weather).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store weather data"})
		return
	}
	c.JSON(http.StatusOK, weather)
}

// fetchAirQuality resolves the city to coordinates, then queries the air
// pollution endpoint. Returns nil when anything fails.
func fetchAirQuality(city, apiKey string) *int {
	geoURL := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		OpenWeatherBaseURL, url.QueryEscape(city), apiKey)
	resp, err := weatherHTTPClient.Get(geoURL)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	var geo []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &geo); err != nil || len(geo) == 0 {
		return nil
	}

	aqURL := fmt.Sprintf("%s/data/2.5/air_pollution?lat=%f&lon=%f&appid=%s",
		OpenWeatherBaseURL, geo[0].Lat, geo[0].Lon, apiKey)
	aqResp, err := weatherHTTPClient.Get(aqURL)
	if err != nil {
		return nil
	}
	defer aqResp.Body.Close()

	var aq struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}
	aqBody, _ := io.ReadAll(aqResp.Body)
	if err := json.Unmarshal(aqBody, &aq); err != nil || len(aq.List) == 0 {
		return nil
	}
	return &aq.List[0].Main.AQI
}

// windDirection converts degrees to a 16-point cardinal direction.
func windDirection(degrees float64) string {
	directions := []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}
	index := int(math.Round(degrees/22.5)) % 16
	return directions[index]
}

// calculateDewPoint uses the Magnus formula.
func calculateDewPoint(temperature, humidity float64) float64 {
	const a, b = 17.27, 237.7
	alpha := ((a * temperature) / (b + temperature)) + math.Log(humidity/100)
	return math.Round((b*alpha)/(a-alpha)*100) / 100
}

func mockWeather(city string) models.WeatherData {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	conditions := []string{"Clear", "Partly Cloudy", "Cloudy", "Rain"}
	icons := []string{"01d", "02d", "03d", "09d"}

	rainfall := 0.0
	if rand.Float64() < 0.3 {
		rainfall = rand.Float64() * 5
	}

	solar := 400 + rand.Float64()*600
	uv := 1 + rand.Float64()*10
	aqi := 1 + rand.Intn(5)
	feelsLike := 18 + rand.Float64()*14
	dewPoint := 5 + rand.Float64()*15

	weather := models.WeatherData{
		Location:         city,
		Temperature:      20 + rand.Float64()*10,
		Humidity:         40 + rand.Float64()*30,
		Pressure:         1010 + rand.Float64()*10,
		WindSpeed:        5 + rand.Float64()*10,
		WindDirection:    directions[rand.Intn(len(directions))],
		Rainfall:         rainfall,
		SolarRadiation:   &solar,
		WeatherCondition: conditions[rand.Intn(len(conditions))],
		Icon:             icons[rand.Intn(len(icons))],
		Visibility:       5000 + rand.Float64()*10000,
		UVIndex:          &uv,
		AirQualityIndex:  &aqi,
		FeelsLike:        &feelsLike,
		CloudCoverage:    rand.Intn(101),
		DewPoint:         &dewPoint,
		Timestamp:        time.Now(),
	}
	if rand.Float64() < 0.5 {
		gust := 10 + rand.Float64()*15
		weather.WindGust = &gust
	}
	return weather
}

// GetWeatherForecast regenerates and returns a 7-day forecast for the city.
// Previous rows for the location are replaced.
func GetWeatherForecast(c *gin.Context) {
	city := c.DefaultQuery("city", "Tashkent")

	config.DB.Where("location = ?", city).Delete(&models.WeatherForecast{})

	allDirections := []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}
	rainConditions := []string{"Rain", "Drizzle", "Thunderstorm"}
	clearConditions := []string{"Clear", "Clouds", "Mist"}
	rainDescriptions := []string{"light rain", "moderate rain", "heavy rain", "thunderstorm"}
	clearDescriptions := []string{"clear sky", "few clouds", "scattered clouds", "broken clouds", "overcast clouds", "mist"}
	rainIcons := []string{"09d", "10d", "11d"}
	clearIcons := []string{"01d", "02d", "03d", "04d"}

	forecasts := make([]models.WeatherForecast, 0, 7)
	for i := 0; i < 7; i++ {
		baseTemp := 15 + rand.Float64()*20 + float64(i)*(rand.Float64()*4-2)
		tempVariation := 8 + rand.Float64()*7
		willRain := rand.Float64() < 0.3

		rainfall := 0.0
		precipProbability := rand.Intn(31)
		condition := clearConditions[rand.Intn(len(clearConditions))]
		description := clearDescriptions[rand.Intn(len(clearDescriptions))]
		icon := clearIcons[rand.Intn(len(clearIcons))]
		cloudCoverage := rand.Intn(81)
		if willRain {
			rainfall = 5 + rand.Float64()*20
			precipProbability = 70 + rand.Intn(26)
			condition = rainConditions[rand.Intn(len(rainConditions))]
			description = rainDescriptions[rand.Intn(len(rainDescriptions))]
			icon = rainIcons[rand.Intn(len(rainIcons))]
			cloudCoverage = 70 + rand.Intn(31)
		}

		feelsLikeDay := math.Round((baseTemp+rand.Float64()*7)*10) / 10
		feelsLikeNight := math.Round((baseTemp-3-rand.Float64()*5)*10) / 10
		uv := math.Round((1+rand.Float64()*11)*10) / 10

		forecast := models.WeatherForecast{
			Location:                 city,
			ForecastDate:             time.Now().AddDate(0, 0, i).Format("2006-01-02"),
			TempMin:                  math.Round(math.Max(0, baseTemp-tempVariation/2)*10) / 10,
			TempMax:                  math.Round((baseTemp+tempVariation/2)*10) / 10,
			TempDay:                  math.Round((baseTemp+rand.Float64()*8-3)*10) / 10,
			TempNight:                math.Round((baseTemp-5-rand.Float64()*5)*10) / 10,
			FeelsLikeDay:             &feelsLikeDay,
			FeelsLikeNight:           &feelsLikeNight,
			Humidity:                 float64(30 + rand.Intn(61)),
			Pressure:                 math.Round((1005+rand.Float64()*25)*10) / 10,
			WindSpeed:                math.Round((2+rand.Float64()*26)*10) / 10,
			WindDirection:            allDirections[rand.Intn(len(allDirections))],
			Rainfall:                 math.Round(rainfall*10) / 10,
			PrecipitationProbability: precipProbability,
			WeatherCondition:         condition,
			WeatherDescription:       description,
			Icon:                     icon,
			CloudCoverage:            cloudCoverage,
			UVIndex:                  &uv,
			Visibility:               math.Round(5000 + rand.Float64()*10000),
			CreatedAt:                time.Now(),
		}
		if rand.Float64() < 0.5 {
			gust := math.Round((20+rand.Float64()*20)*10) / 10
			forecast.WindGust = &gust
		}

		if err := config.DB.Create(&forecast).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store forecast"})
			return
		}
		forecasts = append(forecasts, forecast)
	}

	c.JSON(http.StatusOK, forecasts)
}
