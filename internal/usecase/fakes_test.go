package usecase

import (
	"sync"

	"github.com/admitra/admission-engine/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// In-memory store fakes backing the usecase tests.

type fakeOutcomeStore struct {
	mu       sync.Mutex
	outcomes []model.HistoricalOutcome
	stats    *model.OutcomeStats
}

func (f *fakeOutcomeStore) Create(outcome *model.HistoricalOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if outcome.ID == uuid.Nil {
		outcome.ID = uuid.New()
	}
	f.outcomes = append(f.outcomes, *outcome)
	return nil
}

func (f *fakeOutcomeStore) Stats() (*model.OutcomeStats, error) {
	if f.stats != nil {
		return f.stats, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &model.OutcomeStats{ProgramCounts: map[string]int64{}}
	for _, o := range f.outcomes {
		stats.Total++
		if o.Verified {
			stats.Verified++
		}
		if o.Accepted {
			stats.Accepted++
		} else {
			stats.Rejected++
		}
		stats.RecentCount++
		stats.ProgramCounts[o.ProgramName]++
	}
	return stats, nil
}

func (f *fakeOutcomeStore) LoadForTraining(verifiedOnly bool) ([]model.HistoricalOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.HistoricalOutcome{}
	for _, o := range f.outcomes {
		if verifiedOnly && !o.Verified {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOutcomeStore) FindSimilar(vec pgvector.Vector, accepted bool, limit int) ([]model.HistoricalOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.HistoricalOutcome{}
	for _, o := range f.outcomes {
		if o.Accepted == accepted && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeRegistryStore struct {
	mu       sync.Mutex
	versions []model.ModelVersion
}

func (f *fakeRegistryStore) Save(version *model.ModelVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if version.ID == uuid.Nil {
		version.ID = uuid.New()
	}
	f.versions = append(f.versions, *version)
	return nil
}

func (f *fakeRegistryStore) Get(id string) (*model.ModelVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.versions {
		if f.versions[i].ID.String() == id {
			v := f.versions[i]
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegistryStore) List(activeOnly bool, page, pageSize int) ([]model.ModelVersion, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ModelVersion{}
	for _, v := range f.versions {
		if activeOnly && !v.Active {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRegistryStore) GetActive() (*model.ModelVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.versions {
		if f.versions[i].Active {
			v := f.versions[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (f *fakeRegistryStore) Activate(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := -1
	for i := range f.versions {
		if f.versions[i].ID.String() == id {
			target = i
		}
	}
	if target == -1 {
		return gorm.ErrRecordNotFound
	}
	for i := range f.versions {
		f.versions[i].Active = false
	}
	f.versions[target].Active = true
	return nil
}

func (f *fakeRegistryStore) CountActive() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.versions {
		if v.Active {
			n++
		}
	}
	return n, nil
}

type fakeEvaluationStore struct {
	mu    sync.Mutex
	evals []model.ProfileEvaluation
}

func (f *fakeEvaluationStore) Create(eval *model.ProfileEvaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if eval.ID == uuid.Nil {
		eval.ID = uuid.New()
	}
	f.evals = append(f.evals, *eval)
	return nil
}

func (f *fakeEvaluationStore) FindByID(id string) (*model.ProfileEvaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.evals {
		if f.evals[i].ID.String() == id {
			e := f.evals[i]
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRunStore struct {
	mu     sync.Mutex
	runs   map[string]model.TrainingRun
	stages []string
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: map[string]model.TrainingRun{}}
}

func (f *fakeRunStore) Create(run *model.TrainingRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	f.runs[run.ID.String()] = *run
	return nil
}

func (f *fakeRunStore) Update(run *model.TrainingRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stages) == 0 || f.stages[len(f.stages)-1] != run.Stage {
		f.stages = append(f.stages, run.Stage)
	}
	f.runs[run.ID.String()] = *run
	return nil
}

func (f *fakeRunStore) FindByID(id string) (*model.TrainingRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &run, nil
}

func (f *fakeRunStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

// stageLog returns the distinct stages in the order Update saw them.
func (f *fakeRunStore) stageLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stages...)
}

// fakeNotifier signals terminal run states so tests can wait for the
// background goroutine.
type fakeNotifier struct {
	done chan *model.TrainingRun
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan *model.TrainingRun, 4)}
}

func (f *fakeNotifier) TrainingFinished(run *model.TrainingRun) {
	f.done <- run
}

func testLogger() *zap.Logger { return zap.NewNop() }
