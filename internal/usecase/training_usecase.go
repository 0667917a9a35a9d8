package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/admitra/admission-engine/internal/apperror"
	"github.com/admitra/admission-engine/internal/features"
	"github.com/admitra/admission-engine/internal/ml"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Quality-gate thresholds beyond the configurable minimum sample count.
const (
	minBalanceRatio   = 0.3
	minRecentFraction = 0.5
	minProgramSamples = 50
	recentWindowYears = 2
)

// TrainingUsecase drives one training run through
// validating -> loading -> splitting -> training -> persisting -> done.
// Runs execute on a background goroutine so they never block prediction
// traffic; cancellation is cooperative, checked between algorithms.
type TrainingUsecase struct {
	outcomes  OutcomeStore
	registry  RegistryStore
	runs      RunStore
	artifacts *ml.ArtifactStore
	notifier  Notifier
	log       *zap.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewTrainingUsecase(outcomes OutcomeStore, registry RegistryStore, runs RunStore, artifacts *ml.ArtifactStore, notifier Notifier, log *zap.Logger) *TrainingUsecase {
	return &TrainingUsecase{
		outcomes:  outcomes,
		registry:  registry,
		runs:      runs,
		artifacts: artifacts,
		notifier:  notifier,
		log:       log,
		cancels:   map[string]context.CancelFunc{},
	}
}

// BuildQualityReport evaluates the gate thresholds against the corpus
// aggregates. Small per-program samples are flagged as issues but do not
// fail the gate.
func BuildQualityReport(stats *model.OutcomeStats, cfg model.TrainingConfig) *model.DataQualityReport {
	report := &model.DataQualityReport{
		TotalSamples:    stats.Total,
		VerifiedSamples: stats.Verified,
		ProgramCounts:   stats.ProgramCounts,
		Issues:          []string{},
		Recommendations: []string{},
		Passes:          true,
	}

	usable := stats.Total
	if cfg.VerifiedOnly {
		usable = stats.Verified
	}
	if usable < int64(cfg.MinSamples) {
		report.Passes = false
		report.Issues = append(report.Issues,
			fmt.Sprintf("insufficient data: %d usable samples, need %d", usable, cfg.MinSamples))
		report.Recommendations = append(report.Recommendations,
			"Collect more historical outcomes before training")
	}

	if stats.Accepted > 0 || stats.Rejected > 0 {
		lo, hi := stats.Accepted, stats.Rejected
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi > 0 {
			report.BalanceRatio = float64(lo) / float64(hi)
		}
	}
	if report.BalanceRatio < minBalanceRatio {
		report.Passes = false
		report.Issues = append(report.Issues,
			fmt.Sprintf("class imbalance: accepted/rejected ratio %.2f below %.2f", report.BalanceRatio, minBalanceRatio))
		report.Recommendations = append(report.Recommendations,
			"Collect more samples of the minority outcome class")
	}

	if stats.Total > 0 {
		report.RecentFraction = float64(stats.RecentCount) / float64(stats.Total)
	}
	if report.RecentFraction < minRecentFraction {
		report.Passes = false
		report.Issues = append(report.Issues,
			fmt.Sprintf("stale data: only %.0f%% of samples are from the last %d years", report.RecentFraction*100, recentWindowYears))
		report.Recommendations = append(report.Recommendations,
			"Refresh the corpus with recent admission cycles")
	}

	flagged := []string{}
	for program, n := range stats.ProgramCounts {
		if n < minProgramSamples {
			flagged = append(flagged, program)
		}
	}
	sort.Strings(flagged)
	for _, program := range flagged {
		report.Issues = append(report.Issues,
			fmt.Sprintf("program %q has only %d samples", program, stats.ProgramCounts[program]))
	}

	return report
}

// Start validates the config and runs the quality gate synchronously, then
// launches the run in the background. The gate fails closed.
func (uc *TrainingUsecase) Start(cfg model.TrainingConfig) (*model.TrainingRun, error) {
	if err := normalizeTrainingConfig(&cfg); err != nil {
		return nil, err
	}

	stats, err := uc.outcomes.Stats()
	if err != nil {
		return nil, err
	}
	report := BuildQualityReport(stats, cfg)

	usable := stats.Total
	if cfg.VerifiedOnly {
		usable = stats.Verified
	}
	if usable < int64(cfg.MinSamples) {
		return nil, &apperror.InsufficientDataError{Available: int(usable), Required: cfg.MinSamples}
	}
	if !report.Passes {
		return nil, &apperror.DataQualityError{Report: report}
	}

	run := &model.TrainingRun{
		Status:        model.RunStatusPending,
		Stage:         model.StageValidating,
		Config:        cfg,
		QualityReport: report,
		ModelIDs:      []string{},
	}
	if err := uc.runs.Create(run); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	uc.mu.Lock()
	uc.cancels[run.ID.String()] = cancel
	uc.mu.Unlock()

	// The goroutine owns the live struct from here on; the caller gets a
	// snapshot taken before launch, so reading the 202 body never races the
	// run's own writes.
	snapshot := *run
	go uc.execute(ctx, run)
	return &snapshot, nil
}

// Cancel requests cooperative cancellation of a running run. Versions
// already persisted by the run stay intact.
func (uc *TrainingUsecase) Cancel(runID string) error {
	uc.mu.Lock()
	cancel, ok := uc.cancels[runID]
	uc.mu.Unlock()
	if !ok {
		return apperror.Validationf("run %s is not active", runID)
	}
	cancel()
	return nil
}

func (uc *TrainingUsecase) Get(runID string) (*model.TrainingRun, error) {
	return uc.runs.FindByID(runID)
}

func (uc *TrainingUsecase) execute(ctx context.Context, run *model.TrainingRun) {
	defer func() {
		uc.mu.Lock()
		delete(uc.cancels, run.ID.String())
		uc.mu.Unlock()
		if uc.notifier != nil {
			uc.notifier.TrainingFinished(run)
		}
	}()

	log := uc.log.With(zap.String("run_id", run.ID.String()))
	now := time.Now()
	run.Status = model.RunStatusRunning
	run.StartedAt = &now

	fail := func(stage string, err error) {
		log.Error("training run failed", zap.String("stage", stage), zap.Error(err))
		run.Status = model.RunStatusFailed
		run.Stage = stage
		run.Error = err.Error()
		finished := time.Now()
		run.FinishedAt = &finished
		if uerr := uc.runs.Update(run); uerr != nil {
			log.Error("failed to persist run state", zap.Error(uerr))
		}
	}

	advance := func(stage string) {
		run.Stage = stage
		if err := uc.runs.Update(run); err != nil {
			log.Warn("failed to persist run stage", zap.String("stage", stage), zap.Error(err))
		}
	}

	cfg := run.Config

	advance(model.StageLoading)
	X, y, err := uc.loadTrainingData(cfg)
	if err != nil {
		fail(model.StageLoading, err)
		return
	}
	log.Info("training data loaded", zap.Int("samples", len(y)))

	advance(model.StageSplitting)
	split, err := ml.StratifiedSplit(X, y, cfg.TestFraction, cfg.ValidationFraction, cfg.Seed)
	if err != nil {
		fail(model.StageSplitting, err)
		return
	}

	var failures []string
	for _, algorithm := range cfg.Algorithms {
		if ctx.Err() != nil {
			log.Info("training run cancelled", zap.Int("models_persisted", len(run.ModelIDs)))
			run.Status = model.RunStatusCancelled
			finished := time.Now()
			run.FinishedAt = &finished
			if err := uc.runs.Update(run); err != nil {
				log.Error("failed to persist run state", zap.Error(err))
			}
			return
		}

		advance(model.StageTraining)
		version, clf, scaler, err := uc.trainOne(algorithm, split, cfg)
		if err != nil {
			// One bad algorithm is skipped, not fatal to the run.
			log.Warn("algorithm failed, skipping", zap.String("algorithm", algorithm), zap.Error(err))
			failures = append(failures, fmt.Sprintf("%s: %v", algorithm, err))
			continue
		}

		advance(model.StagePersisting)
		if err := uc.persistVersion(version, clf, scaler); err != nil {
			log.Warn("algorithm failed, skipping", zap.String("algorithm", algorithm), zap.Error(err))
			failures = append(failures, fmt.Sprintf("%s: %v", algorithm, err))
			continue
		}
		run.ModelIDs = append(run.ModelIDs, version.ID.String())
		log.Info("model version created",
			zap.String("algorithm", algorithm),
			zap.String("model_id", version.ID.String()),
			zap.Float64("f1", version.Metrics.F1),
			zap.Float64("auc_roc", version.Metrics.AUCROC))
	}

	if len(run.ModelIDs) == 0 {
		fail(model.StageTraining, fmt.Errorf("all algorithms failed: %v", failures))
		return
	}

	run.Status = model.RunStatusCompleted
	run.Stage = model.StageDone
	finished := time.Now()
	run.FinishedAt = &finished
	if err := uc.runs.Update(run); err != nil {
		log.Error("failed to persist run state", zap.Error(err))
	}
	log.Info("training run completed", zap.Int("models", len(run.ModelIDs)))
}

// loadTrainingData re-extracts every feature vector from the stored profile
// and program rather than trusting the cached column, so training always
// uses the extractor ordering predictions will use.
func (uc *TrainingUsecase) loadTrainingData(cfg model.TrainingConfig) ([][]float64, []int, error) {
	outcomes, err := uc.outcomes.LoadForTraining(cfg.VerifiedOnly)
	if err != nil {
		return nil, nil, err
	}

	X := make([][]float64, 0, len(outcomes))
	y := make([]int, 0, len(outcomes))
	for _, o := range outcomes {
		if validateProfile(o.Profile) != nil || validateProgram(o.Program) != nil {
			continue
		}
		v := features.Extract(o.Profile, o.Program)
		X = append(X, v.Values())
		label := 0
		if o.Accepted {
			label = 1
		}
		y = append(y, label)
	}

	if len(y) < cfg.MinSamples {
		return nil, nil, &apperror.InsufficientDataError{Available: len(y), Required: cfg.MinSamples}
	}
	return X, y, nil
}

// trainOne tunes, fits, and evaluates one algorithm in memory; persistence is
// a separate stage. The held-out validation partition scores the tuned model
// on the target metric, independent of both the CV folds and the test set.
func (uc *TrainingUsecase) trainOne(algorithm string, split ml.SplitResult, cfg model.TrainingConfig) (*model.ModelVersion, ml.Classifier, *ml.Scaler, error) {
	train, validation, test := split.Train, split.Validation, split.Test

	var scaler *ml.Scaler
	if cfg.ScaleFeatures {
		scaler = &ml.Scaler{}
		if err := scaler.Fit(train.X); err != nil {
			return nil, nil, nil, err
		}
		train = ml.Dataset{X: scaler.Transform(train.X), Y: train.Y}
		validation = ml.Dataset{X: scaler.Transform(validation.X), Y: validation.Y}
		test = ml.Dataset{X: scaler.Transform(test.X), Y: test.Y}
	}

	tuned, err := ml.Tune(algorithm, train, cfg.TuningMethod, cfg.CVFolds, cfg.TargetMetric, cfg.RandomIterations, cfg.Seed)
	if err != nil {
		return nil, nil, nil, err
	}

	clf, err := ml.New(algorithm)
	if err != nil {
		return nil, nil, nil, err
	}
	clf.SetParams(tuned.Params)

	started := time.Now()
	if err := clf.Fit(train.X, train.Y); err != nil {
		return nil, nil, nil, err
	}
	elapsed := time.Since(started).Seconds()

	probs := make([]float64, test.Len())
	for i, row := range test.X {
		probs[i] = clf.PredictProba(row)
	}
	metrics := ml.EvaluateBinary(test.Y, probs)
	metrics.CVScores = tuned.CVScores
	metrics.CVMean = tuned.CVMean
	metrics.CVStd = tuned.CVStd
	metrics.TrainingSeconds = elapsed

	if validation.Len() > 0 {
		vprobs := make([]float64, validation.Len())
		for i, row := range validation.X {
			vprobs[i] = clf.PredictProba(row)
		}
		score, err := ml.MetricValue(ml.EvaluateBinary(validation.Y, vprobs), cfg.TargetMetric)
		if err != nil {
			return nil, nil, nil, err
		}
		metrics.ValidationScore = score
	}

	version := &model.ModelVersion{
		ID:              uuid.New(),
		Version:         fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102-150405"), algorithm),
		Algorithm:       algorithm,
		TrainingSamples: train.Len(),
		Config:          cfg,
		Metrics:         metrics,
		Importances:     rankedImportances(clf),
		Hyperparameters: tuned.Params,
		Active:          false,
	}
	return version, clf, scaler, nil
}

// persistVersion writes the trained artifacts and the registry row. Training
// never auto-activates the resulting version.
func (uc *TrainingUsecase) persistVersion(version *model.ModelVersion, clf ml.Classifier, scaler *ml.Scaler) error {
	classifierPath, err := uc.artifacts.SaveClassifier(version.ID.String(), clf)
	if err != nil {
		return err
	}
	version.ClassifierPath = classifierPath
	if scaler != nil {
		scalerPath, err := uc.artifacts.SaveScaler(version.ID.String(), scaler)
		if err != nil {
			return err
		}
		version.ScalerPath = scalerPath
	}
	return uc.registry.Save(version)
}

func rankedImportances(clf ml.Classifier) []model.FeatureImportance {
	provider, ok := clf.(ml.ImportanceProvider)
	if !ok {
		return nil
	}
	raw := provider.FeatureImportances()
	if len(raw) != features.Dim {
		return nil
	}
	out := make([]model.FeatureImportance, features.Dim)
	for i, name := range features.Names {
		out[i] = model.FeatureImportance{Feature: name, Importance: raw[i]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Importance > out[b].Importance })
	return out
}
