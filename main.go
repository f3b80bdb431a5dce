package main

import (
	"fmt"
	"log"
	"os"

	"agrosense/config"
	"agrosense/controllers"
	"agrosense/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	config.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := controllers.MigrateModels(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := config.InitIrrigationSettings(db); err != nil {
		log.Fatalf("Failed to initialize irrigation settings: %v", err)
	}

	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.LoadHTMLGlob("templates/*")

	r.GET("/", controllers.DashboardHome)
	r.POST("/signup", controllers.Signup)
	r.POST("/login", controllers.Login)

	api := r.Group("/api", middlewares.AuthMiddleware())
	{
		api.GET("/profile", controllers.GetProfile)
		api.POST("/promote", controllers.PromoteToAdmin)
		api.GET("/ws", controllers.HandleWebSocket)

		sensor := api.Group("/sensor")
		{
			sensor.GET("/sensors", controllers.ListSensors)
			sensor.POST("/sensors", controllers.CreateSensor)
			sensor.GET("/sensors/:id", controllers.GetSensor)
			sensor.PUT("/sensors/:id", controllers.UpdateSensor)
			sensor.DELETE("/sensors/:id", controllers.DeleteSensor)
			sensor.GET("/readings", controllers.ListReadings)
			sensor.POST("/readings", controllers.CreateReading)
			sensor.GET("/realtime", controllers.RealtimeData)
			sensor.GET("/statistics", controllers.SensorStatistics)
			sensor.GET("/download-csv", controllers.DownloadCSV)
			sensor.POST("/generate-sample-data", controllers.GenerateSampleData)
			sensor.GET("/weather", controllers.GetWeather)
			sensor.GET("/weather/forecast", controllers.GetWeatherForecast)
		}

		plant := api.Group("/plant")
		{
			plant.GET("/types", controllers.ListPlantTypes)
			plant.POST("/types", controllers.CreatePlantType)
			plant.GET("/plants", controllers.ListPlants)
			plant.POST("/plants", controllers.CreatePlant)
			plant.GET("/plants/:id", controllers.GetPlant)
			plant.PUT("/plants/:id", controllers.UpdatePlant)
			plant.DELETE("/plants/:id", controllers.DeletePlant)
			plant.GET("/irrigation-events", controllers.ListIrrigationEvents)
			plant.POST("/irrigation-events", controllers.CreateIrrigationEvent)
			plant.GET("/care-logs", controllers.ListCareLogs)
			plant.POST("/care-logs", controllers.CreateCareLog)
			plant.GET("/zones", controllers.ListZones)
			plant.POST("/zones", controllers.CreateZone)
			plant.GET("/irrigation-summary", controllers.IrrigationSummary)
			plant.GET("/health-status", controllers.PlantHealthStatus)
			plant.POST("/trigger-irrigation", controllers.TriggerIrrigation)
			plant.POST("/create-sample-plants", controllers.CreateSamplePlants)
		}

		controller := api.Group("/controller")
		{
			controller.POST("/irrigation/start", controllers.StartIrrigation)
			controller.POST("/irrigation/stop", controllers.StopIrrigation)
			controller.GET("/irrigation/status", controllers.IrrigationStatus)
			controller.POST("/emergency-stop", controllers.EmergencyStop)
			controller.POST("/system/restart", controllers.SystemRestart)
			controller.POST("/test-mode", controllers.TestMode)
			controller.POST("/calibrate-sensors", controllers.CalibrateSensors)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/analyze-irrigation", controllers.AnalyzeIrrigation)
			ai.POST("/analyze-plant-health", controllers.AnalyzePlantHealth)
			ai.POST("/comprehensive-analysis", controllers.ComprehensiveAnalysis)
			ai.GET("/insights", controllers.ListInsights)
			ai.GET("/model-status", controllers.ModelStatus)
			ai.GET("/analysis-history", controllers.AnalysisHistory)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/overview", controllers.Overview)
			dashboard.GET("/realtime", controllers.DashboardRealtime)
			dashboard.GET("/system-health", controllers.SystemHealth)
			dashboard.GET("/irrigation-schedule", controllers.IrrigationSchedule)
			dashboard.POST("/settings", controllers.UpdateSettings)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting AgroSense server on port %s", port)
	if err := r.Run(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
