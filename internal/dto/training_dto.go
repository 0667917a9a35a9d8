package dto

import (
	"time"

	"github.com/admitra/admission-engine/internal/model"
)

// ModelVersionSummary is the compact registry row shown in listings and run
// results.
type ModelVersionSummary struct {
	ID              string    `json:"id"`
	Version         string    `json:"version"`
	Algorithm       string    `json:"algorithm"`
	TrainingSamples int       `json:"training_samples"`
	Accuracy        float64   `json:"accuracy"`
	F1              float64   `json:"f1"`
	AUCROC          float64   `json:"auc_roc"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewModelVersionSummary(v model.ModelVersion) ModelVersionSummary {
	return ModelVersionSummary{
		ID:              v.ID.String(),
		Version:         v.Version,
		Algorithm:       v.Algorithm,
		TrainingSamples: v.TrainingSamples,
		Accuracy:        v.Metrics.Accuracy,
		F1:              v.Metrics.F1,
		AUCROC:          v.Metrics.AUCROC,
		Active:          v.Active,
		CreatedAt:       v.CreatedAt,
	}
}

type TrainingRunDTO struct {
	ID            string                   `json:"id"`
	Status        string                   `json:"status"`
	Stage         string                   `json:"stage"`
	QualityReport *model.DataQualityReport `json:"quality_report,omitempty"`
	Models        []ModelVersionSummary    `json:"models"`
	Error         string                   `json:"error,omitempty"`
	StartedAt     *time.Time               `json:"started_at,omitempty"`
	FinishedAt    *time.Time               `json:"finished_at,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

type CompareRequest struct {
	ModelIDs      []string `json:"model_ids"`
	Metrics       []string `json:"metrics,omitempty"`
	PrimaryMetric string   `json:"primary_metric,omitempty"`
}
