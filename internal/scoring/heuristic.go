// Package scoring holds the deterministic scorers that run without a trained
// classifier: the weighted-sum heuristic, the category bands, the
// strength/weakness narrative rules, and the gap analyzer.
package scoring

import (
	"math"

	"github.com/admitra/admission-engine/internal/features"
	"github.com/admitra/admission-engine/internal/model"
)

// HeuristicMargin is the confidence half-width of the heuristic scorer.
// Trained classifiers use the tighter TrainedMargin.
const (
	HeuristicMargin = 0.15
	TrainedMargin   = 0.10
)

// Heuristic weights, applied to the feature vector in order. Competitiveness
// subtracts: harder programs lower the estimate.
const (
	wGPA             = 0.25
	wVerbal          = 0.10
	wQuant           = 0.10
	wResearch        = 0.15
	wProfessional    = 0.10
	wExtracurricular = 0.10
	wPrestige        = 0.10
	wCompetitiveness = 0.10
)

// Heuristic returns the weighted-sum admission probability, clamped to [0,1].
func Heuristic(v features.Vector) float64 {
	p := v.GPANormalized*wGPA +
		(v.GREVerbalPct/100)*wVerbal +
		(v.GREQuantPct/100)*wQuant +
		v.ResearchScore*wResearch +
		v.ProfessionalScore*wProfessional +
		v.ExtracurricularScore*wExtracurricular +
		v.UndergradPrestige*wPrestige -
		v.ProgramCompetitiveness*wCompetitiveness
	return clamp01(p)
}

// ConfidenceInterval clamps [p-margin, p+margin] to [0,1].
func ConfidenceInterval(p, margin float64) (lo, hi float64) {
	return clamp01(p - margin), clamp01(p + margin)
}

// Categorize bands a probability into REACH / TARGET / SAFETY.
func Categorize(p float64) string {
	switch {
	case p < 0.25:
		return model.CategoryReach
	case p > 0.75:
		return model.CategorySafety
	default:
		return model.CategoryTarget
	}
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}
