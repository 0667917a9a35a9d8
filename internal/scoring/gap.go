package scoring

import (
	"math"

	"github.com/admitra/admission-engine/internal/features"
	"github.com/admitra/admission-engine/internal/model"
)

// Baseline assumptions when the program record does not supply its own
// averages.
const (
	fallbackGPAMean  = 3.8
	fallbackGPAStd   = 0.2
	fallbackQuantAvg = 165.0
	quantStd         = 3.0

	typicalWorkMonths = 24
)

// AnalyzeGaps compares the applicant against a typical-admit baseline for the
// program and emits prioritized remediation items.
func AnalyzeGaps(profile model.ApplicantProfile, program model.ProgramDescriptor, v features.Vector) model.GapAnalysis {
	ga := model.GapAnalysis{}

	if program.AverageGPA != nil {
		ga.GPAGap = profile.GPA - *program.AverageGPA
	}

	quantAvg := fallbackQuantAvg
	if program.AverageGREQuant != nil {
		quantAvg = *program.AverageGREQuant
	}
	gre, hasGRE := profile.Test(model.TestTypeGRE)
	if hasGRE && program.AverageGREQuant != nil {
		ga.TestScoreGap = gre.Quantitative - *program.AverageGREQuant
	}

	typicalPubs := 1
	if program.Ranking != nil && *program.Ranking <= 100 {
		typicalPubs = 2
	}
	ga.ResearchGap = float64(profile.Publications - typicalPubs)
	ga.WorkExperienceGap = float64(profile.WorkMonths - typicalWorkMonths)

	gpaMean := fallbackGPAMean
	if program.AverageGPA != nil {
		gpaMean = *program.AverageGPA
	}
	ga.GPAPercentile = normalPercentile(profile.GPA, gpaMean, fallbackGPAStd)
	if hasGRE {
		ga.TestPercentile = normalPercentile(gre.Quantitative, quantAvg, quantStd)
	} else {
		ga.TestPercentile = 50
	}

	ga.OverallCompetitiveness = 0.3*v.GPANormalized +
		0.2*v.ResearchScore +
		0.2*v.ProfessionalScore +
		0.3*(v.GREQuantPct/100)

	ga.GapsToAddress = gapItems(profile, ga)
	return ga
}

func gapItems(profile model.ApplicantProfile, ga model.GapAnalysis) []model.GapItem {
	items := []model.GapItem{}

	if ga.GPAGap < -0.2 {
		items = append(items, model.GapItem{
			Area:     "gpa",
			Current:  profile.GPA,
			Target:   profile.GPA - ga.GPAGap,
			Gap:      ga.GPAGap,
			Priority: model.PriorityHigh,
			Action:   "Raise your GPA with strong grades in remaining terms or post-baccalaureate coursework",
		})
	}
	if ga.TestScoreGap < -5 {
		gre, _ := profile.Test(model.TestTypeGRE)
		items = append(items, model.GapItem{
			Area:     "test_score",
			Current:  gre.Quantitative,
			Target:   gre.Quantitative - ga.TestScoreGap,
			Gap:      ga.TestScoreGap,
			Priority: model.PriorityHigh,
			Action:   "Retake the GRE; your quantitative score trails the program average",
		})
	}
	if ga.ResearchGap < 0 {
		items = append(items, model.GapItem{
			Area:     "research",
			Current:  float64(profile.Publications),
			Target:   float64(profile.Publications) - ga.ResearchGap,
			Gap:      ga.ResearchGap,
			Priority: model.PriorityMedium,
			Action:   "Add research output; admitted applicants typically publish before applying",
		})
	}
	if ga.WorkExperienceGap < -12 {
		items = append(items, model.GapItem{
			Area:     "work_experience",
			Current:  float64(profile.WorkMonths),
			Target:   typicalWorkMonths,
			Gap:      ga.WorkExperienceGap,
			Priority: model.PriorityMedium,
			Action:   "Accumulate more relevant work experience before applying",
		})
	}
	return items
}

// normalPercentile places x on an assumed normal distribution and returns the
// percentile clamped to [0,100].
func normalPercentile(x, mean, std float64) float64 {
	if std <= 0 {
		return 50
	}
	z := (x - mean) / std
	pct := 0.5 * (1 + math.Erf(z/math.Sqrt2)) * 100
	return math.Min(math.Max(pct, 0), 100)
}
