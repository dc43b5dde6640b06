package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

type TreatmentRepository interface {
	Create(ctx context.Context, treatment *entity.Treatment) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.Treatment, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error)
	Update(ctx context.Context, treatment *entity.Treatment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
