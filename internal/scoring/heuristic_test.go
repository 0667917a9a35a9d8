package scoring

import (
	"testing"

	"github.com/admitra/admission-engine/internal/features"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestHeuristicKnownProfile(t *testing.T) {
	// gpa 3.9/4.0 with no test scores and no research, against an unranked
	// program with 20% acceptance. Every term is determined, so the weighted
	// sum is an exact number.
	profile := model.ApplicantProfile{GPA: 3.9, GPAScale: 4.0}
	program := model.ProgramDescriptor{
		AverageGPA:     floatPtr(3.5),
		AcceptanceRate: floatPtr(0.2),
	}

	v := features.Extract(profile, program)
	assert.InDelta(t, 0.975, v.GPANormalized, 1e-9)
	assert.InDelta(t, 0.8, v.ProgramCompetitiveness, 1e-9)

	// 0.975*0.25 + 0.5*0.10 + 0.5*0.10 + 0.5*0.10 - 0.8*0.10
	assert.InDelta(t, 0.31375, Heuristic(v), 1e-4)
}

func TestHeuristicBounded(t *testing.T) {
	tests := []struct {
		name string
		v    features.Vector
	}{
		{"all zero", features.Vector{}},
		{"maxed out", features.Vector{
			GPANormalized: 1, GREVerbalPct: 100, GREQuantPct: 100,
			ResearchScore: 1, ProfessionalScore: 1, ExtracurricularScore: 1,
			UndergradPrestige: 1,
		}},
		{"max competitiveness only", features.Vector{ProgramCompetitiveness: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Heuristic(tt.v)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		})
	}
}

func TestHeuristicCompetitivenessSubtracts(t *testing.T) {
	base := features.Vector{GPANormalized: 0.9, GREVerbalPct: 70, GREQuantPct: 70}
	harder := base
	harder.ProgramCompetitiveness = 0.9
	assert.Less(t, Heuristic(harder), Heuristic(base))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0.0, model.CategoryReach},
		{0.249, model.CategoryReach},
		{0.25, model.CategoryTarget},
		{0.5, model.CategoryTarget},
		{0.75, model.CategoryTarget},
		{0.751, model.CategorySafety},
		{1.0, model.CategorySafety},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.p), "p=%v", tt.p)
	}
}

func TestConfidenceIntervalClamped(t *testing.T) {
	lo, hi := ConfidenceInterval(0.5, HeuristicMargin)
	assert.InDelta(t, 0.35, lo, 1e-9)
	assert.InDelta(t, 0.65, hi, 1e-9)

	lo, hi = ConfidenceInterval(0.05, HeuristicMargin)
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 0.20, hi, 1e-9)

	lo, hi = ConfidenceInterval(0.97, TrainedMargin)
	assert.InDelta(t, 0.87, lo, 1e-9)
	assert.Equal(t, 1.0, hi)
}
