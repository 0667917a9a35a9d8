package model

// Admission difficulty categories, banded on the predicted probability.
const (
	CategoryReach  = "REACH"
	CategoryTarget = "TARGET"
	CategorySafety = "SAFETY"
)

// AdmissionPrediction is the full result of one prediction. Never mutated
// after creation.
type AdmissionPrediction struct {
	Probability        float64            `json:"probability"`
	ConfidenceLow      float64            `json:"confidence_low"`
	ConfidenceHigh     float64            `json:"confidence_high"`
	Category           string             `json:"category"`
	Strengths          []string           `json:"strengths"`
	Weaknesses         []string           `json:"weaknesses"`
	FeatureImportances map[string]float64 `json:"feature_importances,omitempty"`
	Recommendation     string             `json:"recommendation"`
	Suggestions        []string           `json:"suggestions"`
	ModelVersion       string             `json:"model_version"`
}

// Gap priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type GapItem struct {
	Area     string  `json:"area"`
	Current  float64 `json:"current"`
	Target   float64 `json:"target"`
	Gap      float64 `json:"gap"`
	Priority string  `json:"priority"`
	Action   string  `json:"action"`
}

// GapAnalysis compares the applicant against a typical-admit baseline for the
// program.
type GapAnalysis struct {
	GPAGap                 float64   `json:"gpa_gap"`
	TestScoreGap           float64   `json:"test_score_gap"`
	ResearchGap            float64   `json:"research_gap"`
	WorkExperienceGap      float64   `json:"work_experience_gap"`
	GPAPercentile          float64   `json:"gpa_percentile"`
	TestPercentile         float64   `json:"test_percentile"`
	OverallCompetitiveness float64   `json:"overall_competitiveness"`
	GapsToAddress          []GapItem `json:"gaps_to_address"`
}

// SimilarProfile is a display-only summary of a historical outcome close to
// the applicant in feature space.
type SimilarProfile struct {
	ID          string  `json:"id"`
	ProgramName string  `json:"program_name"`
	GPA         float64 `json:"gpa"`
	Accepted    bool    `json:"accepted"`
	Distance    float64 `json:"distance"`
}
