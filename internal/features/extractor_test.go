package features

import (
	"testing"

	"github.com/admitra/admission-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestExtractDeterministic(t *testing.T) {
	profile := model.ApplicantProfile{
		GPA:      3.7,
		GPAScale: 4.0,
		TestScores: []model.TestScore{
			{Type: model.TestTypeGRE, Verbal: 160, Quantitative: 165},
			{Type: model.TestTypeTOEFL, Total: 105},
		},
		Publications:       2,
		WorkMonths:         24,
		RelevantWorkMonths: 12,
		UndergradRanking:   intPtr(80),
	}
	program := model.ProgramDescriptor{
		University:     "Example University",
		Name:           "MS Computer Science",
		Ranking:        intPtr(30),
		AcceptanceRate: floatPtr(0.15),
		AverageGPA:     floatPtr(3.6),
	}

	first := Extract(profile, program)
	second := Extract(profile, program)
	assert.Equal(t, first, second)
}

func TestVectorOrderMatchesNames(t *testing.T) {
	require.Len(t, Names, Dim)

	v := Vector{
		GPANormalized:          1,
		GREVerbalPct:           2,
		GREQuantPct:            3,
		GMATPct:                4,
		EnglishPct:             5,
		ResearchScore:          6,
		ProfessionalScore:      7,
		ExtracurricularScore:   8,
		UndergradPrestige:      9,
		ProgramCompetitiveness: 10,
		GPAVsAvg:               11,
		TestVsAvg:              12,
	}
	vals := v.Values()
	require.Len(t, vals, Dim)
	for i := range vals {
		assert.Equal(t, float64(i+1), vals[i], "position %d (%s)", i, Names[i])
	}
}

func TestExtractGREPercentiles(t *testing.T) {
	profile := model.ApplicantProfile{
		GPA:      3.5,
		GPAScale: 4.0,
		TestScores: []model.TestScore{
			{Type: model.TestTypeGRE, Verbal: 160, Quantitative: 165},
		},
	}
	v := Extract(profile, model.ProgramDescriptor{})

	// Sub-scores are doubled onto the 260-340 total scale before lookup.
	assert.Equal(t, 80.0, v.GREVerbalPct) // 320
	assert.Equal(t, 94.0, v.GREQuantPct)  // 330
}

func TestExtractThresholdExact(t *testing.T) {
	// A doubled score landing exactly on a table threshold takes that
	// bracket's percentile, no interpolation.
	profile := model.ApplicantProfile{
		GPA:      3.5,
		GPAScale: 4.0,
		TestScores: []model.TestScore{
			{Type: model.TestTypeGRE, Verbal: 160, Quantitative: 160},
		},
	}
	v := Extract(profile, model.ProgramDescriptor{})
	assert.Equal(t, 80.0, v.GREVerbalPct)
	assert.Equal(t, 80.0, v.GREQuantPct)
}

func TestExtractDefaultsWhenScoresAbsent(t *testing.T) {
	v := Extract(model.ApplicantProfile{GPA: 3.0, GPAScale: 4.0}, model.ProgramDescriptor{})

	assert.Equal(t, 50.0, v.GREVerbalPct)
	assert.Equal(t, 50.0, v.GREQuantPct)
	assert.Equal(t, 50.0, v.GMATPct)
	assert.Equal(t, 75.0, v.EnglishPct)
	assert.Equal(t, 0.5, v.UndergradPrestige)
	assert.Equal(t, 0.5, v.ProgramCompetitiveness)
	assert.Zero(t, v.GPAVsAvg)
	assert.Zero(t, v.TestVsAvg)
}

func TestExtractGPAScaleNormalization(t *testing.T) {
	tests := []struct {
		name  string
		gpa   float64
		scale float64
		want  float64
	}{
		{"four point scale", 3.0, 4.0, 0.75},
		{"ten point scale", 8.0, 10.0, 0.8},
		{"missing scale defaults to four", 3.0, 0, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Extract(model.ApplicantProfile{GPA: tt.gpa, GPAScale: tt.scale}, model.ProgramDescriptor{})
			assert.InDelta(t, tt.want, v.GPANormalized, 1e-9)
		})
	}
}

func TestPrestigeTiers(t *testing.T) {
	tests := []struct {
		ranking *int
		want    float64
	}{
		{nil, 0.5},
		{intPtr(1), 1.0},
		{intPtr(10), 1.0},
		{intPtr(11), 0.9},
		{intPtr(50), 0.9},
		{intPtr(100), 0.8},
		{intPtr(200), 0.7},
		{intPtr(500), 0.5},
		{intPtr(501), 0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prestigeScore(tt.ranking))
	}
}

func TestCompetitivenessBlend(t *testing.T) {
	// Unranked program: inverse acceptance rate only.
	unranked := model.ProgramDescriptor{AcceptanceRate: floatPtr(0.2)}
	assert.InDelta(t, 0.8, competitiveness(unranked), 1e-9)

	// Ranked program blends 70/30 with its prestige tier.
	ranked := model.ProgramDescriptor{AcceptanceRate: floatPtr(0.2), Ranking: intPtr(5)}
	assert.InDelta(t, 0.7*0.8+0.3*1.0, competitiveness(ranked), 1e-9)

	// No data at all sits at the middle of the scale.
	assert.InDelta(t, 0.5, competitiveness(model.ProgramDescriptor{}), 1e-9)
}

func TestExtractRelativeFeatures(t *testing.T) {
	profile := model.ApplicantProfile{
		GPA:      3.9,
		GPAScale: 4.0,
		TestScores: []model.TestScore{
			{Type: model.TestTypeGRE, Verbal: 155, Quantitative: 165},
		},
	}
	program := model.ProgramDescriptor{
		AverageGPA:      floatPtr(3.5),
		AverageGREQuant: floatPtr(160),
	}
	v := Extract(profile, program)

	assert.InDelta(t, 0.4, v.GPAVsAvg, 1e-9)
	// Quant 165 doubles to 330 (94th pct); program average 160 doubles to
	// 320 (80th pct).
	assert.InDelta(t, (94.0-80.0)/100, v.TestVsAvg, 1e-9)
}

func TestLookupPercentileFloor(t *testing.T) {
	assert.Equal(t, tableFloor, lookupPercentile(greBrackets, 262))
	assert.Equal(t, tableFloor, lookupPercentile(gmatBrackets, 400))
	assert.Equal(t, tableFloor, lookupPercentile(ieltsBrackets, 4.0))
}

func TestLookupPercentileIELTSAndGMAT(t *testing.T) {
	assert.Equal(t, 89.0, lookupPercentile(ieltsBrackets, 8.0))
	assert.Equal(t, 69.0, lookupPercentile(ieltsBrackets, 7.0))
	assert.Equal(t, 90.0, lookupPercentile(gmatBrackets, 730))
	assert.Equal(t, 99.0, lookupPercentile(gmatBrackets, 790))
}

func TestExtractIELTSOnlyWhenNoTOEFL(t *testing.T) {
	both := model.ApplicantProfile{
		GPA: 3.0, GPAScale: 4.0,
		TestScores: []model.TestScore{
			{Type: model.TestTypeIELTS, Total: 8.0},
			{Type: model.TestTypeTOEFL, Total: 100},
		},
	}
	v := Extract(both, model.ProgramDescriptor{})
	assert.Equal(t, 75.0, v.EnglishPct, "TOEFL takes precedence")

	ieltsOnly := model.ApplicantProfile{
		GPA: 3.0, GPAScale: 4.0,
		TestScores: []model.TestScore{{Type: model.TestTypeIELTS, Total: 8.0}},
	}
	v = Extract(ieltsOnly, model.ProgramDescriptor{})
	assert.Equal(t, 89.0, v.EnglishPct)
}
