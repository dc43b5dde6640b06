package repository

import (
	"context"
	"errors"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type treatmentRepository struct {
	db *gorm.DB
}

func NewTreatmentRepository(db *gorm.DB) domainRepo.TreatmentRepository {
	return &treatmentRepository{db: db}
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *entity.Treatment) error {
	return r.db.WithContext(ctx).Create(treatment).Error
}

func (r *treatmentRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Treatment, int64, error) {
	var treatments []entity.Treatment
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Treatment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("name ASC").Find(&treatments).Error; err != nil {
		return nil, 0, err
	}

	return treatments, total, nil
}

func (r *treatmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&treatment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *entity.Treatment) error {
	return r.db.WithContext(ctx).Save(treatment).Error
}

func (r *treatmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Treatment{}).Error
}
