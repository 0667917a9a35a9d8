package usecase

import (
	"github.com/admitra/admission-engine/internal/apperror"
	"github.com/admitra/admission-engine/internal/ml"
	"github.com/admitra/admission-engine/internal/model"
)

func validateProfile(p model.ApplicantProfile) error {
	scale := p.GPAScale
	if scale == 0 {
		scale = 4.0
	}
	if scale < 0 {
		return apperror.Validationf("gpa_scale must be positive, got %v", p.GPAScale)
	}
	if p.GPA < 0 || p.GPA > scale {
		return apperror.Validationf("gpa %v out of range for scale %v", p.GPA, scale)
	}
	for _, ts := range p.TestScores {
		switch ts.Type {
		case model.TestTypeGRE, model.TestTypeGMAT, model.TestTypeTOEFL, model.TestTypeIELTS:
		default:
			return apperror.Validationf("unsupported test type %q", ts.Type)
		}
		if ts.Total < 0 || ts.Verbal < 0 || ts.Quantitative < 0 {
			return apperror.Validationf("negative score on %s record", ts.Type)
		}
	}
	if p.Publications < 0 || p.ConferencePapers < 0 || p.Patents < 0 ||
		p.WorkMonths < 0 || p.RelevantWorkMonths < 0 || p.Internships < 0 ||
		p.LeadershipPositions < 0 || p.AcademicAwards < 0 ||
		p.Certifications < 0 || p.VolunteerHours < 0 {
		return apperror.Validationf("profile counts must be non-negative")
	}
	if p.UndergradRanking != nil && *p.UndergradRanking < 1 {
		return apperror.Validationf("undergrad_ranking must be >= 1")
	}
	return nil
}

func validateProgram(p model.ProgramDescriptor) error {
	if p.University == "" {
		return apperror.Validationf("program university is required")
	}
	if p.AcceptanceRate != nil && (*p.AcceptanceRate < 0 || *p.AcceptanceRate > 1) {
		return apperror.Validationf("acceptance_rate must be within [0,1]")
	}
	if p.Ranking != nil && *p.Ranking < 1 {
		return apperror.Validationf("program ranking must be >= 1")
	}
	if p.AverageGPA != nil && *p.AverageGPA < 0 {
		return apperror.Validationf("average_gpa must be non-negative")
	}
	return nil
}

// normalizeTrainingConfig applies defaults in place and rejects unsupported
// values before any expensive work.
func normalizeTrainingConfig(cfg *model.TrainingConfig) error {
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = ml.Algorithms()
	}
	for _, alg := range cfg.Algorithms {
		if _, err := ml.New(alg); err != nil {
			return apperror.Validationf("unsupported algorithm %q", alg)
		}
	}

	switch cfg.TuningMethod {
	case "":
		cfg.TuningMethod = model.TuningNone
	case model.TuningNone, model.TuningGrid, model.TuningRandom:
	default:
		return apperror.Validationf("unsupported tuning method %q", cfg.TuningMethod)
	}

	if cfg.CVFolds == 0 {
		cfg.CVFolds = 5
	}
	if cfg.CVFolds < 2 {
		return apperror.Validationf("cv_folds must be at least 2")
	}

	if cfg.TestFraction == 0 {
		cfg.TestFraction = 0.2
	}
	if cfg.ValidationFraction == 0 {
		cfg.ValidationFraction = 0.1
	}
	if cfg.TestFraction < 0 || cfg.ValidationFraction < 0 || cfg.TestFraction+cfg.ValidationFraction >= 1 {
		return apperror.Validationf("test and validation fractions must be non-negative and sum below 1")
	}

	if cfg.TargetMetric == "" {
		cfg.TargetMetric = "f1"
	}
	if _, err := ml.MetricValue(model.TrainingMetrics{}, cfg.TargetMetric); err != nil {
		return apperror.Validationf("unsupported target metric %q", cfg.TargetMetric)
	}

	if cfg.MinSamples == 0 {
		cfg.MinSamples = 100
	}
	if cfg.MinSamples < 10 {
		return apperror.Validationf("min_samples must be at least 10")
	}

	if cfg.RandomIterations == 0 {
		cfg.RandomIterations = 10
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return nil
}
