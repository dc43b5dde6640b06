package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.Patient, int64, error)
	Search(ctx context.Context, filter *entity.PatientFilter) ([]entity.Patient, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	FindByNIK(ctx context.Context, nik string) (*entity.Patient, error)
	FindByEmail(ctx context.Context, email string) (*entity.Patient, error)
	FindByMedicalRecordNumber(ctx context.Context, number string) (*entity.Patient, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Patient, error)
	// LatestRecordNumber returns the lexicographically greatest record
	// number with the given day prefix, or "" when none exists yet.
	LatestRecordNumber(ctx context.Context, prefix string) (string, error)
	Update(ctx context.Context, patient *entity.Patient) error
	SoftDelete(ctx context.Context, id uuid.UUID) (int64, error)
	// FindDeletedByID resolves a soft-deleted patient for restore.
	FindDeletedByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	Restore(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) (int64, error)
	Statistics(ctx context.Context) (*entity.PatientStatistics, error)
}
