package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// HistoricalOutcome is one labeled row of the training corpus: an applicant,
// the program they applied to, and whether they were admitted.
type HistoricalOutcome struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Profile     ApplicantProfile  `gorm:"type:jsonb;serializer:json" json:"profile"`
	Program     ProgramDescriptor `gorm:"type:jsonb;serializer:json" json:"program"`
	ProgramName string            `gorm:"type:varchar(255);index" json:"program_name"`
	Features    pgvector.Vector   `gorm:"type:vector(12)" json:"-"`
	Accepted    bool              `json:"accepted"`
	Verified    bool              `gorm:"index" json:"verified"`
	AppliedAt   time.Time         `json:"applied_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (o *HistoricalOutcome) TableName() string {
	return "historical_outcomes"
}

// OutcomeStats is the aggregate view the data-quality gate works from.
type OutcomeStats struct {
	Total         int64            `json:"total"`
	Verified      int64            `json:"verified"`
	Accepted      int64            `json:"accepted"`
	Rejected      int64            `json:"rejected"`
	RecentCount   int64            `json:"recent_count"`
	ProgramCounts map[string]int64 `json:"program_counts"`
}
