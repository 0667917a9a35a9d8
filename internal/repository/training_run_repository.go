package repository

import (
	"github.com/admitra/admission-engine/internal/model"
	"gorm.io/gorm"
)

type TrainingRunRepository struct {
	db *gorm.DB
}

func NewTrainingRunRepository(db *gorm.DB) *TrainingRunRepository {
	return &TrainingRunRepository{db}
}

func (r *TrainingRunRepository) Create(run *model.TrainingRun) error {
	return r.db.Create(run).Error
}

func (r *TrainingRunRepository) Update(run *model.TrainingRun) error {
	return r.db.Save(run).Error
}

func (r *TrainingRunRepository) FindByID(id string) (*model.TrainingRun, error) {
	var run model.TrainingRun
	err := r.db.First(&run, "id = ?", id).Error
	return &run, err
}
