package database

import (
	"time"

	"github.com/google/uuid"
)

// ScoreRecord is one persisted scoring decision. Payload carries the
// full response JSON so history replays exactly what the caller saw.
type ScoreRecord struct {
	ID             string    `json:"id" db:"id"`
	EntityID       string    `json:"entity_id" db:"entity_id"`
	FeatureHash    string    `json:"feature_hash" db:"feature_hash"`
	Persona        string    `json:"persona" db:"persona"`
	Score          int       `json:"score" db:"score"`
	ProbDefault    float64   `json:"prob_default_90dpd" db:"prob_default"`
	RiskCategory   string    `json:"risk_category" db:"risk_category"`
	Decision       string    `json:"recommended_decision" db:"decision"`
	ModelVersion   string    `json:"model_version" db:"model_version"`
	DataConfidence float64   `json:"data_confidence" db:"data_confidence"`
	Payload        string    `json:"-" db:"payload"`
	BatchID        string    `json:"batch_id,omitempty" db:"batch_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// BatchJob summarizes one processed batch upload
type BatchJob struct {
	ID         string    `json:"id" db:"id"`
	RowCount   int       `json:"row_count" db:"row_count"`
	ErrorCount int       `json:"error_count" db:"error_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewScoreRecord creates a score record with a generated ID
func NewScoreRecord(entityID, featureHash, persona string) *ScoreRecord {
	return &ScoreRecord{
		ID:          uuid.New().String(),
		EntityID:    entityID,
		FeatureHash: featureHash,
		Persona:     persona,
		CreatedAt:   time.Now(),
	}
}

// NewBatchJob creates a batch job record with a generated ID
func NewBatchJob(rowCount, errorCount int) *BatchJob {
	return &BatchJob{
		ID:         uuid.New().String(),
		RowCount:   rowCount,
		ErrorCount: errorCount,
		CreatedAt:  time.Now(),
	}
}
