package usecase

import (
	"github.com/admitra/admission-engine/internal/model"
	"github.com/pgvector/pgvector-go"
)

// Storage contracts the usecases depend on; satisfied by the repository
// structs and by test fakes.

type OutcomeStore interface {
	Create(outcome *model.HistoricalOutcome) error
	Stats() (*model.OutcomeStats, error)
	LoadForTraining(verifiedOnly bool) ([]model.HistoricalOutcome, error)
	FindSimilar(vec pgvector.Vector, accepted bool, limit int) ([]model.HistoricalOutcome, error)
}

type RegistryStore interface {
	Save(version *model.ModelVersion) error
	Get(id string) (*model.ModelVersion, error)
	List(activeOnly bool, page, pageSize int) ([]model.ModelVersion, int64, error)
	GetActive() (*model.ModelVersion, error)
	Activate(id string) error
	CountActive() (int64, error)
}

type EvaluationStore interface {
	Create(eval *model.ProfileEvaluation) error
	FindByID(id string) (*model.ProfileEvaluation, error)
}

type RunStore interface {
	Create(run *model.TrainingRun) error
	Update(run *model.TrainingRun) error
	FindByID(id string) (*model.TrainingRun, error)
}

// Notifier is told when a training run finishes, in any terminal state.
type Notifier interface {
	TrainingFinished(run *model.TrainingRun)
}
