package repository

import (
	"github.com/admitra/admission-engine/internal/model"
	"gorm.io/gorm"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db}
}

// Create appends one evaluation. Rows are never updated afterwards.
func (r *EvaluationRepository) Create(eval *model.ProfileEvaluation) error {
	return r.db.Create(eval).Error
}

func (r *EvaluationRepository) FindByID(id string) (*model.ProfileEvaluation, error) {
	var eval model.ProfileEvaluation
	err := r.db.First(&eval, "id = ?", id).Error
	return &eval, err
}
