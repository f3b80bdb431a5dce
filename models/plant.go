package models

import "time"

// PlantType describes a cultivated species and its optimal growing conditions.
type PlantType struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"unique;not null"`
	ScientificName string `json:"scientific_name"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`

	OptimalSoilMoistureMin float64 `json:"optimal_soil_moisture_min" gorm:"default:60"`
	OptimalSoilMoistureMax float64 `json:"optimal_soil_moisture_max" gorm:"default:80"`
	OptimalTemperatureMin  float64 `json:"optimal_temperature_min" gorm:"default:18"`
	OptimalTemperatureMax  float64 `json:"optimal_temperature_max" gorm:"default:25"`
	OptimalPHMin           float64 `json:"optimal_ph_min" gorm:"default:6.0"`
	OptimalPHMax           float64 `json:"optimal_ph_max" gorm:"default:7.0"`

	GerminationDays int `json:"germination_days" gorm:"default:7"`
	VegetativeDays  int `json:"vegetative_days" gorm:"default:30"`
	FloweringDays   int `json:"flowering_days" gorm:"default:60"`
	MaturityDays    int `json:"maturity_days" gorm:"default:90"`
}

type Plant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PlantID     string    `json:"plant_id" gorm:"unique;not null"`
	Name        string    `json:"name" gorm:"not null"`
	PlantTypeID uint      `json:"plant_type" gorm:"not null"`
	PlantType   PlantType `json:"plant_type_detail" gorm:"foreignKey:PlantTypeID"`
	Location    string    `json:"location"`
	PlantedDate time.Time `json:"planted_date"`
	GrowthStage string    `json:"growth_stage" gorm:"default:seed"`  // seed, germination, seedling, vegetative, flowering, fruiting, mature
	HealthStatus string   `json:"health_status" gorm:"default:good"` // excellent, good, fair, poor, critical

	Height    *float64 `json:"height"` // cm
	LeafCount *int     `json:"leaf_count"`
	FruitCount *int    `json:"fruit_count"`

	LastWatered    *time.Time `json:"last_watered"`
	WaterAmountML  int        `json:"water_amount_ml"` // total water given
	LastFertilized *time.Time `json:"last_fertilized"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var growthStages = []string{"seed", "germination", "seedling", "vegetative", "flowering", "fruiting", "mature"}

// DaysSincePlanted returns whole days elapsed since the planting date.
func (p *Plant) DaysSincePlanted() int {
	return int(time.Since(p.PlantedDate).Hours() / 24)
}

// ExpectedGrowthStage derives the stage the plant should be in by now
// from its type's stage day counts.
func (p *Plant) ExpectedGrowthStage() string {
	days := p.DaysSincePlanted()
	switch {
	case days <= p.PlantType.GerminationDays:
		return "germination"
	case days <= p.PlantType.VegetativeDays:
		return "vegetative"
	case days <= p.PlantType.FloweringDays:
		return "flowering"
	default:
		return "mature"
	}
}

// IsGrowthOnTrack reports whether the current stage is at least the expected one.
func (p *Plant) IsGrowthOnTrack() bool {
	return stageIndex(p.GrowthStage) >= stageIndex(p.ExpectedGrowthStage())
}

func stageIndex(stage string) int {
	for i, s := range growthStages {
		if s == stage {
			return i
		}
	}
	return 0
}

type IrrigationEvent struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	PlantID uint   `json:"plant" gorm:"not null;index"`
	Plant   *Plant `json:"plant_detail,omitempty" gorm:"foreignKey:PlantID"`

	EventType string `json:"event_type" gorm:"not null"`          // automatic, manual, scheduled, emergency
	Status    string `json:"status" gorm:"default:scheduled"`     // scheduled, in_progress, completed, cancelled, failed

	ScheduledTime time.Time  `json:"scheduled_time"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`

	DurationMinutes       int      `json:"duration_minutes"`
	ActualDurationMinutes *float64 `json:"actual_duration_minutes"`
	WaterAmountML         int      `json:"water_amount_ml"`
	ActualWaterAmountML   *int     `json:"actual_water_amount_ml"`

	TriggerReason string   `json:"trigger_reason"`
	AIConfidence  *float64 `json:"ai_confidence"`

	CreatedAt time.Time `json:"created_at"`
}

// IsOverdue reports whether a scheduled event's time has already passed.
func (e *IrrigationEvent) IsOverdue() bool {
	return e.Status == "scheduled" && time.Now().After(e.ScheduledTime)
}

type PlantCareLog struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	PlantID uint   `json:"plant" gorm:"not null;index"`
	Plant   *Plant `json:"plant_detail,omitempty" gorm:"foreignKey:PlantID"`

	CareType    string    `json:"care_type" gorm:"not null"` // watering, fertilizing, pruning, pesticide, transplanting, observation
	Description string    `json:"description"`
	CareDate    time.Time `json:"care_date"`

	WaterAmountML     *int     `json:"water_amount_ml"`
	FertilizerType    string   `json:"fertilizer_type"`
	FertilizerAmountG *float64 `json:"fertilizer_amount_g"`

	CreatedAt time.Time `json:"created_at"`
}

type IrrigationZone struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ZoneID      string `json:"zone_id" gorm:"unique;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`

	AreaSqm    float64 `json:"area_sqm"`
	PlantCount int     `json:"plant_count"`
	SoilType   string  `json:"soil_type" gorm:"default:loam"`

	DefaultDurationMinutes int     `json:"default_duration_minutes" gorm:"default:15"`
	FlowRateLPM            float64 `json:"flow_rate_lpm" gorm:"default:10"` // liters per minute

	Status          string     `json:"status" gorm:"default:active"` // active, inactive, maintenance, error
	LastIrrigated   *time.Time `json:"last_irrigated"`
	TotalWaterUsedL float64    `json:"total_water_used_l"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
