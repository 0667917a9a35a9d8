// Package features maps an applicant profile and a target program onto the
// fixed-order numeric vector consumed by every scorer in the engine. The
// field order and count are the compatibility contract between training-time
// and prediction-time extraction: a classifier trained against one ordering
// is invalid against any other.
package features

import (
	"math"

	"github.com/admitra/admission-engine/internal/model"
)

// Dim is the number of features in a Vector.
const Dim = 12

// Names lists the feature names in vector order.
var Names = []string{
	"gpa_normalized",
	"gre_verbal_pct",
	"gre_quant_pct",
	"gmat_pct",
	"english_pct",
	"research_score",
	"professional_score",
	"extracurricular_score",
	"undergrad_prestige",
	"program_competitiveness",
	"gpa_vs_avg",
	"test_vs_avg",
}

// Vector is the fixed-order numeric encoding of one applicant+program pair.
type Vector struct {
	GPANormalized          float64
	GREVerbalPct           float64
	GREQuantPct            float64
	GMATPct                float64
	EnglishPct             float64
	ResearchScore          float64
	ProfessionalScore      float64
	ExtracurricularScore   float64
	UndergradPrestige      float64
	ProgramCompetitiveness float64
	GPAVsAvg               float64
	TestVsAvg              float64
}

// Values returns the vector in canonical order, index-aligned with Names.
func (v Vector) Values() []float64 {
	return []float64{
		v.GPANormalized,
		v.GREVerbalPct,
		v.GREQuantPct,
		v.GMATPct,
		v.EnglishPct,
		v.ResearchScore,
		v.ProfessionalScore,
		v.ExtracurricularScore,
		v.UndergradPrestige,
		v.ProgramCompetitiveness,
		v.GPAVsAvg,
		v.TestVsAvg,
	}
}

// Float32 returns the vector as float32 values for pgvector storage.
func (v Vector) Float32() []float32 {
	vals := v.Values()
	out := make([]float32, len(vals))
	for i, f := range vals {
		out[i] = float32(f)
	}
	return out
}

// Extract computes the feature vector for one applicant+program pair. Pure
// and deterministic; missing inputs default rather than error.
func Extract(profile model.ApplicantProfile, program model.ProgramDescriptor) Vector {
	v := Vector{
		GPANormalized:          normalizedGPA(profile),
		GREVerbalPct:           defaultGraduateTestPct,
		GREQuantPct:            defaultGraduateTestPct,
		GMATPct:                defaultGraduateTestPct,
		EnglishPct:             defaultEnglishPct,
		ResearchScore:          researchScore(profile),
		ProfessionalScore:      professionalScore(profile),
		ExtracurricularScore:   extracurricularScore(profile),
		UndergradPrestige:      prestigeScore(profile.UndergradRanking),
		ProgramCompetitiveness: competitiveness(program),
	}

	if gre, ok := profile.Test(model.TestTypeGRE); ok {
		v.GREVerbalPct = lookupPercentile(greBrackets, gre.Verbal*2)
		v.GREQuantPct = lookupPercentile(greBrackets, gre.Quantitative*2)
	}
	if gmat, ok := profile.Test(model.TestTypeGMAT); ok {
		v.GMATPct = lookupPercentile(gmatBrackets, gmat.Total)
	}
	if toefl, ok := profile.Test(model.TestTypeTOEFL); ok {
		v.EnglishPct = lookupPercentile(toeflBrackets, toefl.Total)
	} else if ielts, ok := profile.Test(model.TestTypeIELTS); ok {
		v.EnglishPct = lookupPercentile(ieltsBrackets, ielts.Total)
	}

	if program.AverageGPA != nil {
		v.GPAVsAvg = profile.GPA - *program.AverageGPA
	}
	if _, ok := profile.Test(model.TestTypeGRE); ok && program.AverageGREQuant != nil {
		programPct := lookupPercentile(greBrackets, *program.AverageGREQuant*2)
		v.TestVsAvg = (v.GREQuantPct - programPct) / 100
	}

	return v
}

func normalizedGPA(p model.ApplicantProfile) float64 {
	scale := p.GPAScale
	if scale <= 0 {
		scale = 4.0
	}
	return p.GPA / scale
}

// prestigeScore maps an institution ranking onto a [0,1] tier score.
// Unranked institutions sit at the middle of the scale.
func prestigeScore(ranking *int) float64 {
	if ranking == nil {
		return 0.5
	}
	r := *ranking
	switch {
	case r <= 10:
		return 1.0
	case r <= 50:
		return 0.9
	case r <= 100:
		return 0.8
	case r <= 200:
		return 0.7
	case r <= 500:
		return 0.5
	default:
		return 0.3
	}
}

func researchScore(p model.ApplicantProfile) float64 {
	s := math.Min(float64(p.Publications)*0.20, 1.0) +
		math.Min(float64(p.ConferencePapers)*0.15, 0.5) +
		math.Min(float64(p.Patents)*0.25, 0.5)
	return math.Min(s, 1.0)
}

func professionalScore(p model.ApplicantProfile) float64 {
	s := 0.3*math.Min(float64(p.WorkMonths)/60, 1.0) +
		0.5*math.Min(float64(p.RelevantWorkMonths)/48, 1.0) +
		0.2*math.Min(float64(p.Internships)*0.2, 0.4)
	return math.Min(s, 1.0)
}

func extracurricularScore(p model.ApplicantProfile) float64 {
	s := math.Min(float64(p.LeadershipPositions)*0.15, 0.4) +
		math.Min(float64(p.AcademicAwards)*0.15, 0.3) +
		math.Min(float64(p.Certifications)*0.10, 0.3) +
		math.Min(float64(p.VolunteerHours)/200, 0.3)
	return math.Min(s, 1.0)
}

// competitiveness derives a [0,1] selectivity proxy: the inverse acceptance
// rate when known, blended 70/30 with the program's own prestige tier when a
// ranking exists.
func competitiveness(program model.ProgramDescriptor) float64 {
	base := 0.5
	if program.AcceptanceRate != nil {
		base = 1 - *program.AcceptanceRate
	}
	if program.Ranking != nil {
		base = 0.7*base + 0.3*prestigeScore(program.Ranking)
	}
	return clamp01(base)
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}
