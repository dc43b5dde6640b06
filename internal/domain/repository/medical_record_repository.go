package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

type MedicalRecordRepository interface {
	Create(ctx context.Context, record *entity.MedicalRecord) error
	FindByPatientID(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]entity.MedicalRecord, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MedicalRecord, error)
	Update(ctx context.Context, record *entity.MedicalRecord) error
}
