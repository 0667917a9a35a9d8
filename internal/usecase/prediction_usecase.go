package usecase

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/admitra/admission-engine/internal/apperror"
	"github.com/admitra/admission-engine/internal/features"
	"github.com/admitra/admission-engine/internal/ml"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/admitra/admission-engine/internal/scoring"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HeuristicVersion is the model-version tag reported when no trained
// classifier served the prediction.
const HeuristicVersion = "heuristic-v1"

const defaultSimilarLimit = 6

// loadedModel is the immutable (model id, classifier, scaler) unit a
// prediction reads as one snapshot. It is replaced wholesale on reload,
// never mutated, so a concurrent activation cannot mix an old classifier
// with a new scaler.
type loadedModel struct {
	ModelID    string
	Version    string
	Classifier ml.Classifier
	Scaler     *ml.Scaler
}

type PredictionUsecase struct {
	registry    RegistryStore
	outcomes    OutcomeStore
	evaluations EvaluationStore
	artifacts   *ml.ArtifactStore
	log         *zap.Logger

	current atomic.Pointer[loadedModel]
}

func NewPredictionUsecase(registry RegistryStore, outcomes OutcomeStore, evaluations EvaluationStore, artifacts *ml.ArtifactStore, log *zap.Logger) *PredictionUsecase {
	return &PredictionUsecase{
		registry:    registry,
		outcomes:    outcomes,
		evaluations: evaluations,
		artifacts:   artifacts,
		log:         log,
	}
}

// ReloadModel refreshes the active-model snapshot from the registry. A
// missing or unloadable artifact clears the snapshot and reports
// ArtifactMissingError; predictions then run on the heuristic scorer, which
// is a normal operating state.
func (uc *PredictionUsecase) ReloadModel() error {
	active, err := uc.registry.GetActive()
	if err != nil {
		return err
	}
	if active == nil {
		uc.current.Store(nil)
		uc.log.Info("no active model version, predictions use heuristic scorer")
		return nil
	}

	clf, err := uc.artifacts.LoadClassifier(active.ClassifierPath)
	if err != nil {
		uc.current.Store(nil)
		uc.log.Warn("classifier artifact unavailable, falling back to heuristic",
			zap.String("model_id", active.ID.String()), zap.Error(err))
		return &apperror.ArtifactMissingError{ModelID: active.ID.String(), Path: active.ClassifierPath, Err: err}
	}

	var scaler *ml.Scaler
	if active.ScalerPath != "" {
		scaler, err = uc.artifacts.LoadScaler(active.ScalerPath)
		if err != nil {
			uc.current.Store(nil)
			uc.log.Warn("scaler artifact unavailable, falling back to heuristic",
				zap.String("model_id", active.ID.String()), zap.Error(err))
			return &apperror.ArtifactMissingError{ModelID: active.ID.String(), Path: active.ScalerPath, Err: err}
		}
	}

	uc.current.Store(&loadedModel{
		ModelID:    active.ID.String(),
		Version:    active.Version,
		Classifier: clf,
		Scaler:     scaler,
	})
	uc.log.Info("active model loaded",
		zap.String("model_id", active.ID.String()),
		zap.String("version", active.Version),
		zap.String("algorithm", active.Algorithm))
	return nil
}

// Predict produces an admission prediction, and a gap analysis when
// requested. The trained-classifier path degrades to the heuristic scorer
// rather than failing.
func (uc *PredictionUsecase) Predict(profile model.ApplicantProfile, program model.ProgramDescriptor, includeGap bool) (*model.AdmissionPrediction, *model.GapAnalysis, error) {
	if err := validateProfile(profile); err != nil {
		return nil, nil, err
	}
	if err := validateProgram(program); err != nil {
		return nil, nil, err
	}

	v := features.Extract(profile, program)
	pred := uc.predictFromVector(v)

	var gap *model.GapAnalysis
	if includeGap {
		g := scoring.AnalyzeGaps(profile, program, v)
		gap = &g
	}
	return pred, gap, nil
}

func (uc *PredictionUsecase) predictFromVector(v features.Vector) *model.AdmissionPrediction {
	var (
		p           float64
		margin      float64
		version     string
		importances map[string]float64
	)

	if snapshot := uc.current.Load(); snapshot != nil {
		x := v.Values()
		if snapshot.Scaler != nil {
			x = snapshot.Scaler.TransformOne(x)
		}
		p = clamp01(snapshot.Classifier.PredictProba(x))
		margin = scoring.TrainedMargin
		version = snapshot.Version
		if provider, ok := snapshot.Classifier.(ml.ImportanceProvider); ok {
			importances = namedImportances(provider.FeatureImportances())
		}
	} else {
		p = scoring.Heuristic(v)
		margin = scoring.HeuristicMargin
		version = HeuristicVersion
	}

	lo, hi := scoring.ConfidenceInterval(p, margin)
	category := scoring.Categorize(p)

	return &model.AdmissionPrediction{
		Probability:        p,
		ConfidenceLow:      lo,
		ConfidenceHigh:     hi,
		Category:           category,
		Strengths:          scoring.Strengths(v),
		Weaknesses:         scoring.Weaknesses(v),
		FeatureImportances: importances,
		Recommendation:     scoring.Recommendation(p, category),
		Suggestions:        scoring.Suggestions(v),
		ModelVersion:       version,
	}
}

// Evaluate runs a prediction and persists the full aggregate, optionally
// with gap analysis and a bounded sample of similar historical outcomes.
func (uc *PredictionUsecase) Evaluate(userRef string, profile model.ApplicantProfile, program model.ProgramDescriptor, includeGap, includeSimilar bool, similarLimit int) (*model.ProfileEvaluation, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := validateProgram(program); err != nil {
		return nil, err
	}

	v := features.Extract(profile, program)
	pred := uc.predictFromVector(v)

	eval := &model.ProfileEvaluation{
		UserRef:      userRef,
		Profile:      profile,
		Program:      program,
		Prediction:   *pred,
		Features:     pgvector.NewVector(v.Float32()),
		ModelVersion: pred.ModelVersion,
	}

	if includeGap {
		g := scoring.AnalyzeGaps(profile, program, v)
		eval.GapAnalysis = &g
	}
	if includeSimilar {
		eval.Similar = uc.similarProfiles(v, similarLimit)
	}

	if err := uc.evaluations.Create(eval); err != nil {
		return nil, err
	}
	return eval, nil
}

func (uc *PredictionUsecase) GetEvaluation(id string) (*model.ProfileEvaluation, error) {
	return uc.evaluations.FindByID(id)
}

// RecordOutcome ingests one labeled historical outcome, storing its feature
// vector for similarity search and training.
func (uc *PredictionUsecase) RecordOutcome(outcome *model.HistoricalOutcome) error {
	if err := validateProfile(outcome.Profile); err != nil {
		return err
	}
	if err := validateProgram(outcome.Program); err != nil {
		return err
	}
	v := features.Extract(outcome.Profile, outcome.Program)
	outcome.Features = pgvector.NewVector(v.Float32())
	if outcome.ProgramName == "" {
		outcome.ProgramName = outcome.Program.University
	}
	return uc.outcomes.Create(outcome)
}

// similarProfiles is display-only; lookup failures are logged, never fatal
// to the evaluation.
func (uc *PredictionUsecase) similarProfiles(v features.Vector, limit int) []model.SimilarProfile {
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	vec := pgvector.NewVector(v.Float32())
	out := []model.SimilarProfile{}

	for _, accepted := range []bool{true, false} {
		matches, err := uc.outcomes.FindSimilar(vec, accepted, limit/2)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				uc.log.Warn("similar profile lookup failed", zap.Bool("accepted", accepted), zap.Error(err))
			}
			continue
		}
		for _, m := range matches {
			out = append(out, model.SimilarProfile{
				ID:          m.ID.String(),
				ProgramName: m.ProgramName,
				GPA:         m.Profile.GPA,
				Accepted:    m.Accepted,
				Distance:    vectorDistance(v.Float32(), m.Features.Slice()),
			})
		}
	}
	return out
}

func namedImportances(raw []float64) map[string]float64 {
	if len(raw) != features.Dim {
		return nil
	}
	out := make(map[string]float64, features.Dim)
	for i, name := range features.Names {
		out[name] = raw[i]
	}
	return out
}

func vectorDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}
