package usecase

import (
	"testing"
	"time"

	"github.com/admitra/admission-engine/internal/apperror"
	"github.com/admitra/admission-engine/internal/ml"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/admitra/admission-engine/internal/scoring"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func validProfile() model.ApplicantProfile {
	return model.ApplicantProfile{GPA: 3.9, GPAScale: 4.0}
}

func validProgram() model.ProgramDescriptor {
	return model.ProgramDescriptor{
		University:     "MIT",
		Name:           "MSCS",
		AverageGPA:     floatPtr(3.5),
		AcceptanceRate: floatPtr(0.2),
	}
}

func newPredictionUsecase(t *testing.T, registry RegistryStore) (*PredictionUsecase, *fakeOutcomeStore, *fakeEvaluationStore) {
	t.Helper()
	outcomes := &fakeOutcomeStore{}
	evals := &fakeEvaluationStore{}
	uc := NewPredictionUsecase(registry, outcomes, evals, ml.NewArtifactStore(t.TempDir()), testLogger())
	return uc, outcomes, evals
}

func TestPredictHeuristicWhenNoModel(t *testing.T) {
	uc, _, _ := newPredictionUsecase(t, &fakeRegistryStore{})

	pred, gap, err := uc.Predict(validProfile(), validProgram(), false)
	require.NoError(t, err)
	require.NotNil(t, pred)
	assert.Nil(t, gap)

	assert.Equal(t, HeuristicVersion, pred.ModelVersion)
	assert.InDelta(t, 0.31375, pred.Probability, 1e-4)
	assert.Equal(t, model.CategoryTarget, pred.Category)
	assert.InDelta(t, pred.Probability-0.15, pred.ConfidenceLow, 1e-9)
	assert.InDelta(t, pred.Probability+0.15, pred.ConfidenceHigh, 1e-9)
	assert.Nil(t, pred.FeatureImportances)
	assert.NotEmpty(t, pred.Recommendation)
}

func TestPredictWithGapAnalysis(t *testing.T) {
	uc, _, _ := newPredictionUsecase(t, &fakeRegistryStore{})

	profile := model.ApplicantProfile{GPA: 3.2, GPAScale: 4.0}
	program := validProgram()
	program.AverageGPA = floatPtr(3.6)

	_, gap, err := uc.Predict(profile, program, true)
	require.NoError(t, err)
	require.NotNil(t, gap)
	assert.InDelta(t, -0.4, gap.GPAGap, 1e-9)
	require.NotEmpty(t, gap.GapsToAddress)
	assert.Equal(t, "gpa", gap.GapsToAddress[0].Area)
	assert.Equal(t, model.PriorityHigh, gap.GapsToAddress[0].Priority)
}

func TestPredictRejectsInvalidInput(t *testing.T) {
	uc, _, _ := newPredictionUsecase(t, &fakeRegistryStore{})
	var validation *apperror.ValidationError

	_, _, err := uc.Predict(model.ApplicantProfile{GPA: 5.0, GPAScale: 4.0}, validProgram(), false)
	assert.ErrorAs(t, err, &validation)

	_, _, err = uc.Predict(validProfile(), model.ProgramDescriptor{}, false)
	assert.ErrorAs(t, err, &validation)

	bad := validProgram()
	bad.AcceptanceRate = floatPtr(1.4)
	_, _, err = uc.Predict(validProfile(), bad, false)
	assert.ErrorAs(t, err, &validation)
}

// trainAndActivate fits a classifier on separable data, saves its artifact,
// and registers it as the active version.
func trainAndActivate(t *testing.T, registry *fakeRegistryStore, artifacts *ml.ArtifactStore, withScaler bool) *model.ModelVersion {
	t.Helper()

	X := [][]float64{}
	y := []int{}
	for i := 0; i < 40; i++ {
		row := make([]float64, 12)
		if i%2 == 0 {
			row[0] = 0.95 + float64(i%5)*0.01
			y = append(y, 1)
		} else {
			row[0] = 0.55 + float64(i%5)*0.01
			y = append(y, 0)
		}
		X = append(X, row)
	}

	clf := ml.NewLogisticRegression()
	require.NoError(t, clf.Fit(X, y))

	version := &model.ModelVersion{
		ID:        uuid.New(),
		Version:   "20260101-000000-logistic_regression",
		Algorithm: ml.AlgorithmLogisticRegression,
		Active:    true,
	}
	path, err := artifacts.SaveClassifier(version.ID.String(), clf)
	require.NoError(t, err)
	version.ClassifierPath = path

	if withScaler {
		scaler := &ml.Scaler{}
		require.NoError(t, scaler.Fit(X))
		scalerPath, err := artifacts.SaveScaler(version.ID.String(), scaler)
		require.NoError(t, err)
		version.ScalerPath = scalerPath
	}

	require.NoError(t, registry.Save(version))
	return version
}

func TestPredictWithTrainedModel(t *testing.T) {
	registry := &fakeRegistryStore{}
	outcomes := &fakeOutcomeStore{}
	evals := &fakeEvaluationStore{}
	artifacts := ml.NewArtifactStore(t.TempDir())
	uc := NewPredictionUsecase(registry, outcomes, evals, artifacts, testLogger())

	version := trainAndActivate(t, registry, artifacts, true)
	require.NoError(t, uc.ReloadModel())

	pred, _, err := uc.Predict(validProfile(), validProgram(), false)
	require.NoError(t, err)

	assert.Equal(t, version.Version, pred.ModelVersion)
	assert.GreaterOrEqual(t, pred.Probability, 0.0)
	assert.LessOrEqual(t, pred.Probability, 1.0)
	// Trained predictions carry the tighter interval and named importances.
	assert.LessOrEqual(t, pred.ConfidenceHigh-pred.ConfidenceLow, 2*scoring.TrainedMargin+1e-9)
	require.NotNil(t, pred.FeatureImportances)
	assert.Contains(t, pred.FeatureImportances, "gpa_normalized")
}

func TestReloadModelMissingArtifact(t *testing.T) {
	registry := &fakeRegistryStore{}
	artifacts := ml.NewArtifactStore(t.TempDir())
	uc := NewPredictionUsecase(registry, &fakeOutcomeStore{}, &fakeEvaluationStore{}, artifacts, testLogger())

	require.NoError(t, registry.Save(&model.ModelVersion{
		ID:             uuid.New(),
		Version:        "broken",
		Algorithm:      ml.AlgorithmLogisticRegression,
		ClassifierPath: "/nonexistent/classifier.gob",
		Active:         true,
	}))

	var missing *apperror.ArtifactMissingError
	err := uc.ReloadModel()
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "/nonexistent/classifier.gob", missing.Path)

	// The broken registration degrades to the heuristic, not to an error.
	pred, _, err := uc.Predict(validProfile(), validProgram(), false)
	require.NoError(t, err)
	assert.Equal(t, HeuristicVersion, pred.ModelVersion)
}

func TestReloadModelNoActiveVersion(t *testing.T) {
	uc, _, _ := newPredictionUsecase(t, &fakeRegistryStore{})
	assert.NoError(t, uc.ReloadModel())
	assert.Nil(t, uc.current.Load())
}

func TestEvaluatePersistsAggregate(t *testing.T) {
	registry := &fakeRegistryStore{}
	outcomes := &fakeOutcomeStore{}
	evals := &fakeEvaluationStore{}
	uc := NewPredictionUsecase(registry, outcomes, evals, ml.NewArtifactStore(t.TempDir()), testLogger())

	seedOutcomes(t, outcomes, 10)

	eval, err := uc.Evaluate("user-42", validProfile(), validProgram(), true, true, 4)
	require.NoError(t, err)
	require.NotNil(t, eval)
	assert.NotEqual(t, uuid.Nil, eval.ID)
	assert.Equal(t, "user-42", eval.UserRef)
	assert.Equal(t, HeuristicVersion, eval.ModelVersion)
	require.NotNil(t, eval.GapAnalysis)
	assert.NotEmpty(t, eval.Similar)
	assert.Len(t, eval.Features.Slice(), 12)

	stored, err := uc.GetEvaluation(eval.ID.String())
	require.NoError(t, err)
	assert.Equal(t, eval.Prediction.Probability, stored.Prediction.Probability)
}

func TestRecordOutcome(t *testing.T) {
	uc, outcomes, _ := newPredictionUsecase(t, &fakeRegistryStore{})

	outcome := &model.HistoricalOutcome{
		Profile:   validProfile(),
		Program:   validProgram(),
		Accepted:  true,
		AppliedAt: time.Now(),
	}
	require.NoError(t, uc.RecordOutcome(outcome))

	require.Len(t, outcomes.outcomes, 1)
	stored := outcomes.outcomes[0]
	assert.Len(t, stored.Features.Slice(), 12)
	assert.Equal(t, "MIT", stored.ProgramName, "defaults to the program university")

	var validation *apperror.ValidationError
	err := uc.RecordOutcome(&model.HistoricalOutcome{
		Profile: model.ApplicantProfile{GPA: -1},
		Program: validProgram(),
	})
	assert.ErrorAs(t, err, &validation)
}
