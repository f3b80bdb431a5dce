package controllers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"agrosense/config"
	"agrosense/models"

	"github.com/gin-gonic/gin"
)

// ListPlantTypes returns all plant types.
func ListPlantTypes(c *gin.Context) {
	var types []models.PlantType
	if err := config.DB.Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plant types"})
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreatePlantType registers a new plant type.
func CreatePlantType(c *gin.Context) {
	var plantType models.PlantType
	if err := c.ShouldBindJSON(&plantType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := config.DB.Create(&plantType).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Plant type already exists"})
		return
	}
	c.JSON(http.StatusCreated, plantType)
}

// plantJSON shapes a plant for API responses, adding the derived growth
// fields the dashboard needs.
func plantJSON(p models.Plant) gin.H {
	return gin.H{
		"id":                    p.ID,
		"plant_id":              p.PlantID,
		"name":                  p.Name,
		"plant_type":            p.PlantTypeID,
		"plant_type_name":       p.PlantType.Name,
		"plant_type_icon":       p.PlantType.Icon,
		"location":              p.Location,
		"planted_date":          p.PlantedDate,
		"growth_stage":          p.GrowthStage,
		"health_status":         p.HealthStatus,
		"height":                p.Height,
		"leaf_count":            p.LeafCount,
		"fruit_count":           p.FruitCount,
		"last_watered":          p.LastWatered,
		"water_amount_ml":       p.WaterAmountML,
		"last_fertilized":       p.LastFertilized,
		"notes":                 p.Notes,
		"days_since_planted":    p.DaysSincePlanted(),
		"expected_growth_stage": p.ExpectedGrowthStage(),
		"is_growth_on_track":    p.IsGrowthOnTrack(),
		"created_at":            p.CreatedAt,
		"updated_at":            p.UpdatedAt,
	}
}

// ListPlants returns all plants with derived growth fields.
func ListPlants(c *gin.Context) {
	var plants []models.Plant
	if err := config.DB.Preload("PlantType").Find(&plants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plants"})
		return
	}

	response := make([]gin.H, 0, len(plants))
	for _, p := range plants {
		response = append(response, plantJSON(p))
	}
	c.JSON(http.StatusOK, response)
}

// CreatePlant registers a new plant.
func CreatePlant(c *gin.Context) {
	var plant models.Plant
	if err := c.ShouldBindJSON(&plant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := config.DB.Create(&plant).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Plant already exists"})
		return
	}
	config.DB.Preload("PlantType").First(&plant, plant.ID)
	c.JSON(http.StatusCreated, plantJSON(plant))
}

// GetPlant returns one plant by numeric ID.
func GetPlant(c *gin.Context) {
	var plant models.Plant
	if err := config.DB.Preload("PlantType").First(&plant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}
	c.JSON(http.StatusOK, plantJSON(plant))
}

// UpdatePlant updates a plant's mutable fields.
func UpdatePlant(c *gin.Context) {
	var plant models.Plant
	if err := config.DB.Preload("PlantType").First(&plant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}

	var input models.Plant
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	plant.Name = input.Name
	plant.Location = input.Location
	plant.GrowthStage = input.GrowthStage
	plant.HealthStatus = input.HealthStatus
	plant.Height = input.Height
	plant.LeafCount = input.LeafCount
	plant.FruitCount = input.FruitCount
	plant.Notes = input.Notes

	if err := config.DB.Save(&plant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plant"})
		return
	}
	c.JSON(http.StatusOK, plantJSON(plant))
}

// DeletePlant removes a plant and its irrigation history.
func DeletePlant(c *gin.Context) {
	var plant models.Plant
	if err := config.DB.First(&plant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}

	config.DB.Where("plant_id = ?", plant.ID).Delete(&models.IrrigationEvent{})
	config.DB.Where("plant_id = ?", plant.ID).Delete(&models.PlantCareLog{})
	if err := config.DB.Delete(&plant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plant deleted successfully"})
}

// ListIrrigationEvents returns all irrigation events, newest scheduled first.
func ListIrrigationEvents(c *gin.Context) {
	var events []models.IrrigationEvent
	if err := config.DB.Preload("Plant").Order("scheduled_time desc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch irrigation events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// CreateIrrigationEvent records a new irrigation event.
func CreateIrrigationEvent(c *gin.Context) {
	var event models.IrrigationEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var plant models.Plant
	if err := config.DB.First(&plant, event.PlantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create irrigation event"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// ListCareLogs returns all plant care log entries.
func ListCareLogs(c *gin.Context) {
	var logs []models.PlantCareLog
	if err := config.DB.Preload("Plant").Order("care_date desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch care logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// CreateCareLog records a care activity for a plant.
func CreateCareLog(c *gin.Context) {
	var careLog models.PlantCareLog
	if err := c.ShouldBindJSON(&careLog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if careLog.CareDate.IsZero() {
		careLog.CareDate = time.Now()
	}
	if err := config.DB.Create(&careLog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create care log"})
		return
	}
	c.JSON(http.StatusCreated, careLog)
}

// ListZones returns all irrigation zones.
func ListZones(c *gin.Context) {
	var zones []models.IrrigationZone
	if err := config.DB.Find(&zones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch zones"})
		return
	}
	c.JSON(http.StatusOK, zones)
}

// CreateZone registers a new irrigation zone.
func CreateZone(c *gin.Context) {
	var zone models.IrrigationZone
	if err := c.ShouldBindJSON(&zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := config.DB.Create(&zone).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Zone already exists"})
		return
	}
	c.JSON(http.StatusCreated, zone)
}

// plantsInZone matches plants to a zone by location, the same loose
// containment rule the zones were designed around.
func plantsInZone(zone models.IrrigationZone) []models.Plant {
	var plants []models.Plant
	config.DB.Where("location LIKE ?", "%"+zone.Name+"%").Find(&plants)
	return plants
}

// IrrigationSummary aggregates today's irrigation activity for the dashboard.
func IrrigationSummary(c *gin.Context) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)

	var totalEventsToday int64
	config.DB.Model(&models.IrrigationEvent{}).
		Where("scheduled_time >= ? AND scheduled_time < ?", todayStart, todayEnd).
		Count(&totalEventsToday)

	var completedToday []models.IrrigationEvent
	config.DB.Where("scheduled_time >= ? AND scheduled_time < ? AND status = ?",
		todayStart, todayEnd, "completed").Find(&completedToday)

	totalWaterML := 0
	for _, e := range completedToday {
		if e.ActualWaterAmountML != nil {
			totalWaterML += *e.ActualWaterAmountML
		}
	}

	var activeZones, pendingEvents, overdueEvents int64
	config.DB.Model(&models.IrrigationZone{}).Where("status = ?", "active").Count(&activeZones)
	config.DB.Model(&models.IrrigationEvent{}).Where("status = ?", "scheduled").Count(&pendingEvents)
	config.DB.Model(&models.IrrigationEvent{}).
		Where("status = ? AND scheduled_time < ?", "scheduled", now).Count(&overdueEvents)

	var nextEvent models.IrrigationEvent
	hasNext := config.DB.Preload("Plant").
		Where("status = ? AND scheduled_time > ?", "scheduled", now).
		Order("scheduled_time asc").First(&nextEvent).Error == nil

	summary := gin.H{
		"total_events_today":     totalEventsToday,
		"total_water_used_today": math.Round(float64(totalWaterML)/10) / 100, // ml to liters
		"active_zones":           activeZones,
		"pending_events":         pendingEvents,
		"overdue_events":         overdueEvents,
	}
	if hasNext {
		summary["next_scheduled_event"] = nextEvent
	}
	c.JSON(http.StatusOK, summary)
}

// PlantHealthStatus returns the health rollup across all plants.
func PlantHealthStatus(c *gin.Context) {
	var plants []models.Plant
	if err := config.DB.Preload("PlantType").Find(&plants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plants"})
		return
	}

	counts := map[string]int{}
	onTrack := 0
	for _, p := range plants {
		counts[p.HealthStatus]++
		if p.IsGrowthOnTrack() {
			onTrack++
		}
	}

	total := len(plants)
	healthScore := 0.0
	if total > 0 {
		healthScore = float64(
			counts["excellent"]*100+
				counts["good"]*80+
				counts["fair"]*60+
				counts["poor"]*40+
				counts["critical"]*20) / float64(total)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_plants":         total,
		"excellent":            counts["excellent"],
		"good":                 counts["good"],
		"fair":                 counts["fair"],
		"poor":                 counts["poor"],
		"critical":             counts["critical"],
		"overall_health_score": math.Round(healthScore*10) / 10,
		"plants_on_track":      onTrack,
		"plants_delayed":       total - onTrack,
	})
}

// TriggerIrrigation creates manual irrigation events for a plant or every
// plant in a zone.
func TriggerIrrigation(c *gin.Context) {
	var req struct {
		PlantID         uint   `json:"plant_id"`
		ZoneID          string `json:"zone_id"`
		DurationMinutes int    `json:"duration_minutes"`
		Reason          string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 15
	}
	if req.Reason == "" {
		req.Reason = "Manual control"
	}

	eventsCreated := 0

	switch {
	case req.PlantID != 0:
		var plant models.Plant
		if err := config.DB.First(&plant, req.PlantID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
			return
		}
		event := models.IrrigationEvent{
			PlantID:         plant.ID,
			EventType:       "manual",
			Status:          "scheduled",
			ScheduledTime:   time.Now(),
			DurationMinutes: req.DurationMinutes,
			WaterAmountML:   req.DurationMinutes * 20, // estimate 20ml per minute
			TriggerReason:   req.Reason,
		}
		if err := config.DB.Create(&event).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create irrigation event"})
			return
		}
		eventsCreated++

	case req.ZoneID != "":
		var zone models.IrrigationZone
		if err := config.DB.Where("zone_id = ?", req.ZoneID).First(&zone).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
			return
		}
		for _, plant := range plantsInZone(zone) {
			event := models.IrrigationEvent{
				PlantID:         plant.ID,
				EventType:       "manual",
				Status:          "scheduled",
				ScheduledTime:   time.Now(),
				DurationMinutes: req.DurationMinutes,
				WaterAmountML:   int(float64(req.DurationMinutes) * zone.FlowRateLPM * 16.67), // LPM to ml/min
				TriggerReason:   fmt.Sprintf("Zone %s manual irrigation: %s", req.ZoneID, req.Reason),
			}
			if config.DB.Create(&event).Error == nil {
				eventsCreated++
			}
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either plant_id or zone_id is required"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        fmt.Sprintf("Irrigation triggered successfully for %d plants", eventsCreated),
		"events_created": eventsCreated,
	})
}

// CreateSamplePlants seeds plant types, zones, plants and irrigation events
// for demo purposes.
func CreateSamplePlants(c *gin.Context) {
	plantTypes := []models.PlantType{
		{
			Name: "Tomato", ScientificName: "Solanum lycopersicum", Icon: "🍅",
			OptimalSoilMoistureMin: 60, OptimalSoilMoistureMax: 80,
			OptimalTemperatureMin: 18, OptimalTemperatureMax: 28,
			OptimalPHMin: 6.0, OptimalPHMax: 7.0,
			GerminationDays: 7, VegetativeDays: 30, FloweringDays: 60, MaturityDays: 90,
		},
		{
			Name: "Cucumber", ScientificName: "Cucumis sativus", Icon: "🥒",
			OptimalSoilMoistureMin: 70, OptimalSoilMoistureMax: 85,
			OptimalTemperatureMin: 16, OptimalTemperatureMax: 24,
			OptimalPHMin: 6.0, OptimalPHMax: 7.0,
			GerminationDays: 5, VegetativeDays: 25, FloweringDays: 50, MaturityDays: 70,
		},
		{
			Name: "Lettuce", ScientificName: "Lactuca sativa", Icon: "🥬",
			OptimalSoilMoistureMin: 65, OptimalSoilMoistureMax: 75,
			OptimalTemperatureMin: 12, OptimalTemperatureMax: 20,
			OptimalPHMin: 6.0, OptimalPHMax: 7.0,
			GerminationDays: 3, VegetativeDays: 20, FloweringDays: 40, MaturityDays: 60,
		},
	}
	typesCreated := 0
	typeByName := map[string]uint{}
	for _, pt := range plantTypes {
		var existing models.PlantType
		if err := config.DB.Where("name = ?", pt.Name).First(&existing).Error; err != nil {
			if config.DB.Create(&pt).Error == nil {
				typesCreated++
				typeByName[pt.Name] = pt.ID
			}
		} else {
			typeByName[pt.Name] = existing.ID
		}
	}

	zones := []models.IrrigationZone{
		{ZoneID: "A01", Name: "Sector A", Description: "Main growing area", AreaSqm: 500, PlantCount: 50, SoilType: "loam", DefaultDurationMinutes: 15, FlowRateLPM: 12},
		{ZoneID: "B01", Name: "Sector B", Description: "Secondary growing area", AreaSqm: 300, PlantCount: 30, SoilType: "clay_loam", DefaultDurationMinutes: 18, FlowRateLPM: 10},
	}
	zonesCreated := 0
	for _, z := range zones {
		var existing models.IrrigationZone
		if err := config.DB.Where("zone_id = ?", z.ZoneID).First(&existing).Error; err != nil {
			if config.DB.Create(&z).Error == nil {
				zonesCreated++
			}
		}
	}

	height1, height2, height3 := 65.5, 45.0, 15.2
	leaves1, leaves2, leaves3 := 24, 18, 12
	lastWatered := time.Now().Add(-6 * time.Hour)
	samplePlants := []models.Plant{
		{PlantID: "TOM_A01_001", Name: "Tomato #1", PlantTypeID: typeByName["Tomato"], Location: "Sector A, row 1", PlantedDate: time.Now().AddDate(0, 0, -45), GrowthStage: "flowering", HealthStatus: "good", Height: &height1, LeafCount: &leaves1, LastWatered: &lastWatered, WaterAmountML: 250},
		{PlantID: "CUC_A01_002", Name: "Cucumber #1", PlantTypeID: typeByName["Cucumber"], Location: "Sector A, row 2", PlantedDate: time.Now().AddDate(0, 0, -35), GrowthStage: "vegetative", HealthStatus: "excellent", Height: &height2, LeafCount: &leaves2, LastWatered: &lastWatered, WaterAmountML: 250},
		{PlantID: "LET_B01_001", Name: "Lettuce #1", PlantTypeID: typeByName["Lettuce"], Location: "Sector B, row 1", PlantedDate: time.Now().AddDate(0, 0, -25), GrowthStage: "vegetative", HealthStatus: "good", Height: &height3, LeafCount: &leaves3, LastWatered: &lastWatered, WaterAmountML: 250},
	}
	plantsCreated := 0
	for _, p := range samplePlants {
		var existing models.Plant
		if err := config.DB.Where("plant_id = ?", p.PlantID).First(&existing).Error; err != nil {
			if config.DB.Create(&p).Error == nil {
				plantsCreated++
			}
		}
	}

	var allPlants []models.Plant
	config.DB.Find(&allPlants)
	confidence1, confidence2 := 0.92, 0.87
	for _, plant := range allPlants {
		start := time.Now().Add(-6 * time.Hour)
		end := start.Add(15 * time.Minute)
		actualDuration := 15.0
		actualWater := 250
		config.DB.Create(&models.IrrigationEvent{
			PlantID: plant.ID, EventType: "automatic", Status: "completed",
			ScheduledTime: start, StartTime: &start, EndTime: &end,
			DurationMinutes: 15, ActualDurationMinutes: &actualDuration,
			WaterAmountML: 250, ActualWaterAmountML: &actualWater,
			TriggerReason: "Soil moisture low (35%)", AIConfidence: &confidence1,
		})
		config.DB.Create(&models.IrrigationEvent{
			PlantID: plant.ID, EventType: "automatic", Status: "scheduled",
			ScheduledTime:   time.Now().Add(2 * time.Hour),
			DurationMinutes: 18, WaterAmountML: 300,
			TriggerReason: "Based on AI prediction", AIConfidence: &confidence2,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":             "Sample plants data created successfully",
		"plant_types_created": typesCreated,
		"zones_created":       zonesCreated,
		"plants_created":      plantsCreated,
	})
}
