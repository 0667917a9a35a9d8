package scoring

import (
	"testing"

	"github.com/admitra/admission-engine/internal/features"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func findGap(items []model.GapItem, area string) (model.GapItem, bool) {
	for _, it := range items {
		if it.Area == area {
			return it, true
		}
	}
	return model.GapItem{}, false
}

func TestAnalyzeGapsGPAShortfall(t *testing.T) {
	profile := model.ApplicantProfile{GPA: 3.2, GPAScale: 4.0}
	program := model.ProgramDescriptor{AverageGPA: floatPtr(3.6)}

	ga := AnalyzeGaps(profile, program, features.Extract(profile, program))

	assert.InDelta(t, -0.4, ga.GPAGap, 1e-9)
	item, ok := findGap(ga.GapsToAddress, "gpa")
	require.True(t, ok, "gpa gap must be flagged")
	assert.Equal(t, model.PriorityHigh, item.Priority)
	assert.InDelta(t, 3.2, item.Current, 1e-9)
	assert.InDelta(t, 3.6, item.Target, 1e-9)
	assert.NotEmpty(t, item.Action)
}

func TestAnalyzeGapsTestScore(t *testing.T) {
	profile := model.ApplicantProfile{
		GPA:      3.8,
		GPAScale: 4.0,
		TestScores: []model.TestScore{
			{Type: model.TestTypeGRE, Verbal: 158, Quantitative: 158},
		},
	}
	program := model.ProgramDescriptor{AverageGREQuant: floatPtr(166)}

	ga := AnalyzeGaps(profile, program, features.Extract(profile, program))

	assert.InDelta(t, -8.0, ga.TestScoreGap, 1e-9)
	item, ok := findGap(ga.GapsToAddress, "test_score")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, item.Priority)

	// A shortfall within five points stays unflagged.
	program.AverageGREQuant = floatPtr(160)
	ga = AnalyzeGaps(profile, program, features.Extract(profile, program))
	_, ok = findGap(ga.GapsToAddress, "test_score")
	assert.False(t, ok)
}

func TestAnalyzeGapsResearchBaselineByRanking(t *testing.T) {
	profile := model.ApplicantProfile{GPA: 3.8, GPAScale: 4.0, Publications: 1}

	topProgram := model.ProgramDescriptor{Ranking: intPtr(40)}
	ga := AnalyzeGaps(profile, topProgram, features.Extract(profile, topProgram))
	assert.InDelta(t, -1.0, ga.ResearchGap, 1e-9, "top-100 programs expect two publications")

	ordinary := model.ProgramDescriptor{Ranking: intPtr(250)}
	ga = AnalyzeGaps(profile, ordinary, features.Extract(profile, ordinary))
	assert.InDelta(t, 0.0, ga.ResearchGap, 1e-9)
	_, ok := findGap(ga.GapsToAddress, "research")
	assert.False(t, ok)
}

func TestAnalyzeGapsWorkExperience(t *testing.T) {
	profile := model.ApplicantProfile{GPA: 3.8, GPAScale: 4.0, Publications: 2, WorkMonths: 6}
	program := model.ProgramDescriptor{}

	ga := AnalyzeGaps(profile, program, features.Extract(profile, program))
	assert.InDelta(t, -18.0, ga.WorkExperienceGap, 1e-9)
	item, ok := findGap(ga.GapsToAddress, "work_experience")
	require.True(t, ok)
	assert.Equal(t, model.PriorityMedium, item.Priority)
}

func TestAnalyzeGapsPercentiles(t *testing.T) {
	profile := model.ApplicantProfile{
		GPA:      3.8,
		GPAScale: 4.0,
		TestScores: []model.TestScore{
			{Type: model.TestTypeGRE, Verbal: 160, Quantitative: 165},
		},
	}
	program := model.ProgramDescriptor{
		AverageGPA:      floatPtr(3.8),
		AverageGREQuant: floatPtr(165),
	}

	ga := AnalyzeGaps(profile, program, features.Extract(profile, program))

	// Sitting exactly on the mean of an assumed normal puts you at the 50th
	// percentile.
	assert.InDelta(t, 50.0, ga.GPAPercentile, 1e-6)
	assert.InDelta(t, 50.0, ga.TestPercentile, 1e-6)
}

func TestAnalyzeGapsNoGREDefaultsTestPercentile(t *testing.T) {
	profile := model.ApplicantProfile{GPA: 3.8, GPAScale: 4.0}
	program := model.ProgramDescriptor{}

	ga := AnalyzeGaps(profile, program, features.Extract(profile, program))
	assert.Equal(t, 50.0, ga.TestPercentile)
	assert.Zero(t, ga.TestScoreGap)
}

func TestOverallCompetitivenessWeights(t *testing.T) {
	v := features.Vector{
		GPANormalized:     1.0,
		ResearchScore:     1.0,
		ProfessionalScore: 1.0,
		GREQuantPct:       100,
	}
	profile := model.ApplicantProfile{GPA: 4.0, GPAScale: 4.0}
	ga := AnalyzeGaps(profile, model.ProgramDescriptor{}, v)
	assert.InDelta(t, 1.0, ga.OverallCompetitiveness, 1e-9)
}
