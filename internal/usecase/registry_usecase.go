package usecase

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/admitra/admission-engine/internal/apperror"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModelComparison is the metric-by-model table Compare returns.
type ModelComparison struct {
	PrimaryMetric string                        `json:"primary_metric"`
	Metrics       map[string]map[string]float64 `json:"metrics"`
	BestModelID   string                        `json:"best_model_id"`
}

// RegistryUsecase fronts the model registry and keeps the prediction
// service's loaded snapshot in step with activations.
type RegistryUsecase struct {
	registry   RegistryStore
	prediction *PredictionUsecase
	log        *zap.Logger

	// Serializes concurrent activations on top of the repository's
	// transaction, so the single-active invariant holds for every reader.
	activateMu sync.Mutex
}

func NewRegistryUsecase(registry RegistryStore, prediction *PredictionUsecase, log *zap.Logger) *RegistryUsecase {
	return &RegistryUsecase{registry: registry, prediction: prediction, log: log}
}

func (uc *RegistryUsecase) List(activeOnly bool, page, pageSize int) ([]model.ModelVersion, int64, error) {
	return uc.registry.List(activeOnly, page, pageSize)
}

func (uc *RegistryUsecase) Get(id string) (*model.ModelVersion, error) {
	return uc.registry.Get(id)
}

// Activate makes the target version the single active one and reloads the
// prediction snapshot. An unloadable artifact does not undo the activation;
// predictions degrade to the heuristic until it is fixed.
func (uc *RegistryUsecase) Activate(id string) ([]model.ModelVersion, error) {
	uc.activateMu.Lock()
	defer uc.activateMu.Unlock()

	if err := uc.registry.Activate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validationf("model version %s not found", id)
		}
		return nil, err
	}

	n, err := uc.registry.CountActive()
	if err != nil {
		return nil, err
	}
	if n != 1 {
		// Must be prevented by construction; if detected anyway, alert
		// loudly instead of picking a winner.
		uc.log.Error("registry invariant violated", zap.Int64("active_count", n))
		return nil, &apperror.RegistryConsistencyError{ActiveCount: int(n)}
	}

	if uc.prediction != nil {
		var missing *apperror.ArtifactMissingError
		if err := uc.prediction.ReloadModel(); err != nil && !errors.As(err, &missing) {
			return nil, err
		}
	}

	active, _, err := uc.registry.List(true, 0, 0)
	if err != nil {
		return nil, err
	}
	uc.log.Info("model version activated", zap.String("model_id", id))
	return active, nil
}

// Compare builds a metric table across at least two versions and names the
// winner on the primary metric. Metric names are gjson paths into the stored
// metrics document, so nested values like confusion_matrix.true_positives
// work as well as the flat ones.
func (uc *RegistryUsecase) Compare(ids []string, metricNames []string, primaryMetric string) (*ModelComparison, error) {
	if len(ids) < 2 {
		return nil, apperror.Validationf("compare requires at least 2 model ids, got %d", len(ids))
	}
	if primaryMetric == "" {
		primaryMetric = "f1"
	}
	if len(metricNames) == 0 {
		metricNames = []string{"accuracy", "precision", "recall", "f1", "auc_roc"}
	}

	cmp := &ModelComparison{
		PrimaryMetric: primaryMetric,
		Metrics:       map[string]map[string]float64{},
	}

	best := -1.0
	for _, id := range ids {
		version, err := uc.registry.Get(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.Validationf("model version %s not found", id)
			}
			return nil, err
		}

		doc, err := json.Marshal(version.Metrics)
		if err != nil {
			return nil, err
		}

		row := map[string]float64{}
		for _, name := range metricNames {
			value := gjson.GetBytes(doc, name)
			if !value.Exists() {
				return nil, apperror.Validationf("unknown metric %q", name)
			}
			row[name] = value.Float()
		}
		cmp.Metrics[id] = row

		primary := gjson.GetBytes(doc, primaryMetric)
		if !primary.Exists() {
			return nil, apperror.Validationf("unknown primary metric %q", primaryMetric)
		}
		if primary.Float() > best {
			best = primary.Float()
			cmp.BestModelID = id
		}
	}
	return cmp, nil
}
