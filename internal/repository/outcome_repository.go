package repository

import (
	"time"

	"github.com/admitra/admission-engine/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type OutcomeRepository struct {
	db *gorm.DB
}

func NewOutcomeRepository(db *gorm.DB) *OutcomeRepository {
	return &OutcomeRepository{db}
}

func (r *OutcomeRepository) Create(outcome *model.HistoricalOutcome) error {
	return r.db.Create(outcome).Error
}

// Stats aggregates the counts the data-quality gate needs.
func (r *OutcomeRepository) Stats() (*model.OutcomeStats, error) {
	stats := &model.OutcomeStats{ProgramCounts: map[string]int64{}}

	if err := r.db.Model(&model.HistoricalOutcome{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.HistoricalOutcome{}).Where("verified = ?", true).Count(&stats.Verified).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.HistoricalOutcome{}).Where("accepted = ?", true).Count(&stats.Accepted).Error; err != nil {
		return nil, err
	}
	stats.Rejected = stats.Total - stats.Accepted

	cutoff := time.Now().AddDate(-2, 0, 0)
	if err := r.db.Model(&model.HistoricalOutcome{}).Where("applied_at >= ?", cutoff).Count(&stats.RecentCount).Error; err != nil {
		return nil, err
	}

	rows := []struct {
		ProgramName string
		Count       int64
	}{}
	err := r.db.Model(&model.HistoricalOutcome{}).
		Select("program_name, count(*) as count").
		Group("program_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ProgramCounts[row.ProgramName] = row.Count
	}
	return stats, nil
}

// LoadForTraining pulls the historical records a training run consumes.
func (r *OutcomeRepository) LoadForTraining(verifiedOnly bool) ([]model.HistoricalOutcome, error) {
	var outcomes []model.HistoricalOutcome
	q := r.db
	if verifiedOnly {
		q = q.Where("verified = ?", true)
	}
	err := q.Find(&outcomes).Error
	return outcomes, err
}

// FindSimilar returns the historical outcomes nearest to the given feature
// vector with the requested label, ordered by distance.
func (r *OutcomeRepository) FindSimilar(vec pgvector.Vector, accepted bool, limit int) ([]model.HistoricalOutcome, error) {
	var outcomes []model.HistoricalOutcome
	err := r.db.Raw(`
        SELECT *, features <-> ? AS distance
        FROM historical_outcomes
        WHERE accepted = ?
        ORDER BY features <-> ?
        LIMIT ?
    `, vec, accepted, vec, limit).Scan(&outcomes).Error
	return outcomes, err
}
