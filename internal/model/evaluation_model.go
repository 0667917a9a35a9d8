package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ProfileEvaluation is the persisted aggregate of one evaluation call.
// Append-only; rows are never updated.
type ProfileEvaluation struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserRef      string              `gorm:"type:varchar(255);index" json:"user_ref"`
	Profile      ApplicantProfile    `gorm:"type:jsonb;serializer:json" json:"profile"`
	Program      ProgramDescriptor   `gorm:"type:jsonb;serializer:json" json:"program"`
	Prediction   AdmissionPrediction `gorm:"type:jsonb;serializer:json" json:"prediction"`
	GapAnalysis  *GapAnalysis        `gorm:"type:jsonb;serializer:json" json:"gap_analysis,omitempty"`
	Similar      []SimilarProfile    `gorm:"type:jsonb;serializer:json" json:"similar_profiles,omitempty"`
	Features     pgvector.Vector     `gorm:"type:vector(12)" json:"-"`
	ModelVersion string              `gorm:"type:varchar(100)" json:"model_version"`
	CreatedAt    time.Time           `json:"created_at"`
}

func (e *ProfileEvaluation) TableName() string {
	return "profile_evaluations"
}
