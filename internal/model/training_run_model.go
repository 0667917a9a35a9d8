package model

import (
	"time"

	"github.com/google/uuid"
)

// Training run lifecycle.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// Pipeline stages, in order. FAILED is reachable from any of them.
const (
	StageValidating = "validating"
	StageLoading    = "loading"
	StageSplitting  = "splitting"
	StageTraining   = "training"
	StagePersisting = "persisting"
	StageDone       = "done"
)

// DataQualityReport is the output of the training gate. Training proceeds
// only when Passes is true.
type DataQualityReport struct {
	TotalSamples    int64            `json:"total_samples"`
	VerifiedSamples int64            `json:"verified_samples"`
	BalanceRatio    float64          `json:"balance_ratio"`
	RecentFraction  float64          `json:"recent_fraction"`
	ProgramCounts   map[string]int64 `json:"program_counts"`
	Passes          bool             `json:"passes"`
	Issues          []string         `json:"issues"`
	Recommendations []string         `json:"recommendations"`
}

// TrainingRun tracks one background training run through the pipeline.
type TrainingRun struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Status        string             `gorm:"type:varchar(50);index" json:"status"`
	Stage         string             `gorm:"type:varchar(50)" json:"stage"`
	Config        TrainingConfig     `gorm:"type:jsonb;serializer:json" json:"config"`
	QualityReport *DataQualityReport `gorm:"type:jsonb;serializer:json" json:"quality_report,omitempty"`
	ModelIDs      []string           `gorm:"type:jsonb;serializer:json" json:"model_ids"`
	Error         string             `gorm:"type:text" json:"error,omitempty"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	FinishedAt    *time.Time         `json:"finished_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (r *TrainingRun) TableName() string {
	return "training_runs"
}
