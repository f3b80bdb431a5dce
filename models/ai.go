package models

import (
	"time"

	"gorm.io/datatypes"
)

// AIModel holds metadata and performance metrics for a prediction model.
type AIModel struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	ModelType   string `json:"model_type" gorm:"not null"` // irrigation_predictor, plant_health, weather_analyzer, water_optimizer
	Version     string `json:"version" gorm:"default:1.0.0"`
	Description string `json:"description"`

	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`

	TrainingDataCount int        `json:"training_data_count"`
	LastTrained       *time.Time `json:"last_trained"`
	IsActive          bool       `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AIPrediction stores one prediction output, including the inputs it was
// derived from.
type AIPrediction struct {
	ID      uint     `json:"id" gorm:"primaryKey"`
	ModelID uint     `json:"model" gorm:"not null;index"`
	Model   *AIModel `json:"model_detail,omitempty" gorm:"foreignKey:ModelID"`

	PredictionType string `json:"prediction_type" gorm:"not null"` // irrigation_need, optimal_timing, water_amount, plant_health_risk, weather_impact

	InputData datatypes.JSON `json:"input_data"`

	PredictionValue float64 `json:"prediction_value"`
	ConfidenceScore float64 `json:"confidence_score"` // 0-100
	ConfidenceLevel string  `json:"confidence_level"` // very_low, low, medium, high, very_high

	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning"`

	IsValidated   bool     `json:"is_validated" gorm:"default:false"`
	ActualOutcome *float64 `json:"actual_outcome"`
	FeedbackScore *int     `json:"feedback_score"` // 1-5 rating

	CreatedAt time.Time `json:"created_at"`
}

// AIAnalysisSession tracks one run of the comprehensive analysis pipeline.
type AIAnalysisSession struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SessionID   string `json:"session_id" gorm:"unique;not null"`
	SessionType string `json:"session_type" gorm:"not null"`    // routine, triggered, manual, emergency
	Status      string `json:"status" gorm:"default:running"`   // running, completed, failed, cancelled

	InputSensors datatypes.JSON `json:"input_sensors"`
	WeatherData  datatypes.JSON `json:"weather_data"`
	PlantData    datatypes.JSON `json:"plant_data"`

	PredictionsGenerated int            `json:"predictions_generated"`
	Recommendations      datatypes.JSON `json:"recommendations"`
	CriticalAlerts       datatypes.JSON `json:"critical_alerts"`

	ProcessingTimeSeconds *float64 `json:"processing_time_seconds"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// DurationMinutes returns the session duration so far, in minutes.
func (s *AIAnalysisSession) DurationMinutes() float64 {
	if s.CompletedAt != nil {
		return s.CompletedAt.Sub(s.StartedAt).Minutes()
	}
	return time.Since(s.StartedAt).Minutes()
}

// AIInsight is a stored recommendation produced by the generative-AI call.
type AIInsight struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	InsightType string `json:"insight_type" gorm:"not null"` // pattern_discovery, optimization_opportunity, risk_assessment, trend_analysis
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`

	SupportingData  datatypes.JSON `json:"supporting_data"`
	ConfidenceLevel float64        `json:"confidence_level"`

	ImportanceLevel string         `json:"importance_level" gorm:"default:medium"` // low, medium, high, critical
	Tags            datatypes.JSON `json:"tags"`

	RecommendedActions datatypes.JSON `json:"recommended_actions"`
	PotentialImpact    string         `json:"potential_impact"`

	IsImplemented      bool       `json:"is_implemented" gorm:"default:false"`
	ImplementationDate *time.Time `json:"implementation_date"`

	CreatedAt time.Time `json:"created_at"`
}
