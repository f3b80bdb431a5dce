package config

import (
	"os"

	"gorm.io/gorm"
)

// DB is a global variable to hold the database connection
var DB *gorm.DB

var (
	SecretKey         []byte
	Debug             bool
	OpenWeatherAPIKey string
	GeminiAPIKey      string
)

// Load reads application settings from environment variables.
// Call after godotenv.Load on startup.
func Load() {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		secret = "change-me-in-production"
	}
	SecretKey = []byte(secret)

	Debug = os.Getenv("DEBUG") == "true" || os.Getenv("DEBUG") == "1"
	OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
}
