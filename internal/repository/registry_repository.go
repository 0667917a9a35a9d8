package repository

import (
	"errors"

	"github.com/admitra/admission-engine/internal/model"
	"gorm.io/gorm"
)

// RegistryRepository persists the model-version catalog. The invariant it
// guards: at most one version has active = true at any moment.
type RegistryRepository struct {
	db *gorm.DB
}

func NewRegistryRepository(db *gorm.DB) *RegistryRepository {
	return &RegistryRepository{db}
}

func (r *RegistryRepository) Save(version *model.ModelVersion) error {
	return r.db.Create(version).Error
}

func (r *RegistryRepository) Get(id string) (*model.ModelVersion, error) {
	var version model.ModelVersion
	err := r.db.First(&version, "id = ?", id).Error
	return &version, err
}

func (r *RegistryRepository) List(activeOnly bool, page, pageSize int) ([]model.ModelVersion, int64, error) {
	var versions []model.ModelVersion
	var total int64

	q := r.db.Model(&model.ModelVersion{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page > 0 && pageSize > 0 {
		q = q.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	err := q.Order("created_at DESC").Find(&versions).Error
	return versions, total, err
}

// GetActive returns the single active version, or nil when none is active.
func (r *RegistryRepository) GetActive() (*model.ModelVersion, error) {
	var version model.ModelVersion
	err := r.db.First(&version, "active = ?", true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// Activate flips the active flag to the target version in one transaction:
// clear every active flag, then set the target. A missing target id rolls
// the whole transaction back, so readers never observe a half-applied
// activation.
func (r *RegistryRepository) Activate(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.ModelVersion{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&model.ModelVersion{}).Where("active = ?", true).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.ModelVersion{}).Where("id = ?", id).Update("active", true).Error
	})
}

// CountActive supports the consistency detector; anything other than 0 or 1
// is fatal upstream.
func (r *RegistryRepository) CountActive() (int64, error) {
	var n int64
	err := r.db.Model(&model.ModelVersion{}).Where("active = ?", true).Count(&n).Error
	return n, err
}
