package scoring

import (
	"fmt"

	"github.com/admitra/admission-engine/internal/features"
)

// Narrative thresholds on the feature vector. A feature at or above the high
// mark reads as a strength, below the low mark as a weakness.
type narrativeRule struct {
	value      func(features.Vector) float64
	high       float64
	low        float64
	strength   string
	weakness   string
	suggestion string
}

var narrativeRules = []narrativeRule{
	{
		value:      func(v features.Vector) float64 { return v.GPANormalized },
		high:       0.90,
		low:        0.75,
		strength:   "Strong academic record (GPA in the top band)",
		weakness:   "GPA below the competitive range",
		suggestion: "Consider additional coursework or grade-replacement options to lift your GPA",
	},
	{
		value:      func(v features.Vector) float64 { return v.GREVerbalPct / 100 },
		high:       0.80,
		low:        0.50,
		strength:   "High GRE verbal percentile",
		weakness:   "GRE verbal score below the median",
		suggestion: "Retake the GRE with focused verbal preparation",
	},
	{
		value:      func(v features.Vector) float64 { return v.GREQuantPct / 100 },
		high:       0.80,
		low:        0.50,
		strength:   "High GRE quantitative percentile",
		weakness:   "GRE quantitative score below the median",
		suggestion: "Retake the GRE with focused quantitative preparation",
	},
	{
		value:      func(v features.Vector) float64 { return v.ResearchScore },
		high:       0.50,
		low:        0.20,
		strength:   "Solid research output (publications, papers, or patents)",
		weakness:   "Limited research experience",
		suggestion: "Pursue a research assistantship or aim for a workshop publication",
	},
	{
		value:      func(v features.Vector) float64 { return v.ProfessionalScore },
		high:       0.60,
		low:        0.30,
		strength:   "Substantial relevant professional experience",
		weakness:   "Little relevant professional experience",
		suggestion: "Gain internship or industry experience relevant to the program",
	},
	{
		value:      func(v features.Vector) float64 { return v.ExtracurricularScore },
		high:       0.60,
		low:        0.30,
		strength:   "Strong extracurricular and leadership record",
		weakness:   "Thin extracurricular record",
		suggestion: "Take on a leadership role or a recognized certification",
	},
	{
		value:    func(v features.Vector) float64 { return v.UndergradPrestige },
		high:     0.90,
		low:      0.0, // never reads as a weakness; ranking is not actionable
		strength: "Highly ranked undergraduate institution",
	},
}

// Strengths returns the human-readable strengths detected in the vector.
func Strengths(v features.Vector) []string {
	out := []string{}
	for _, r := range narrativeRules {
		if r.value(v) >= r.high {
			out = append(out, r.strength)
		}
	}
	return out
}

// Weaknesses returns the detected weaknesses, ordered as the rules are.
func Weaknesses(v features.Vector) []string {
	out := []string{}
	for _, r := range narrativeRules {
		if r.weakness != "" && r.value(v) < r.low {
			out = append(out, r.weakness)
		}
	}
	return out
}

// Suggestions returns the remediation suggestions paired with the detected
// weaknesses.
func Suggestions(v features.Vector) []string {
	out := []string{}
	for _, r := range narrativeRules {
		if r.suggestion != "" && r.value(v) < r.low {
			out = append(out, r.suggestion)
		}
	}
	return out
}

// Recommendation selects the summary text for a probability band and
// category.
func Recommendation(p float64, category string) string {
	switch {
	case p >= 0.75:
		return fmt.Sprintf("Excellent fit: your profile is well above this program's typical admit. Treat it as a %s school and submit a polished application.", category)
	case p >= 0.50:
		return fmt.Sprintf("Competitive profile: you stand a good chance at this %s program. Strengthen the areas flagged below to improve your odds.", category)
	case p >= 0.25:
		return fmt.Sprintf("Borderline profile for this %s program. Address the flagged weaknesses before applying, and pair it with safer options.", category)
	default:
		return fmt.Sprintf("This program is a %s for your current profile. Significant improvement in the flagged areas is needed, or consider less selective alternatives.", category)
	}
}
