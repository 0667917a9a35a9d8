package dto

import (
	"time"

	"github.com/admitra/admission-engine/internal/model"
)

type PredictRequest struct {
	Profile    model.ApplicantProfile  `json:"profile"`
	Program    model.ProgramDescriptor `json:"program"`
	IncludeGap bool                    `json:"include_gap"`
}

type PredictResponse struct {
	Prediction  model.AdmissionPrediction `json:"prediction"`
	GapAnalysis *model.GapAnalysis        `json:"gap_analysis,omitempty"`
}

type EvaluateRequest struct {
	UserRef        string                  `json:"user_ref"`
	Profile        model.ApplicantProfile  `json:"profile"`
	Program        model.ProgramDescriptor `json:"program"`
	IncludeGap     bool                    `json:"include_gap"`
	IncludeSimilar bool                    `json:"include_similar"`
	SimilarLimit   int                     `json:"similar_limit"`
}

type OutcomeRequest struct {
	Profile     model.ApplicantProfile  `json:"profile"`
	Program     model.ProgramDescriptor `json:"program"`
	ProgramName string                  `json:"program_name"`
	Accepted    bool                    `json:"accepted"`
	Verified    bool                    `json:"verified"`
	AppliedAt   time.Time               `json:"applied_at"`
}
