package usecase

import (
	"context"
	"testing"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreatmentUsecaseCreate(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	repo := &mockTreatmentRepository{
		CreateFunc: func(ctx context.Context, treatment *entity.Treatment) error {
			treatment.ID = uuid.New()
			return nil
		},
	}
	audit := &mockAuditService{}
	uc := NewTreatmentUsecase(newTestLogger(), repo, audit)

	resp, err := uc.Create(ctx, &dto.CreateTreatmentRequest{
		Name:  "Dental Scaling",
		Price: decimal.NewFromInt(250000),
	}, &actor)

	require.NoError(t, err)
	assert.Equal(t, "Dental Scaling", resp.Name)
	assert.Contains(t, audit.Actions, entity.AuditActionTreatmentCreate)
}

func TestTreatmentUsecaseGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns not found for an unknown treatment", func(t *testing.T) {
		uc := NewTreatmentUsecase(newTestLogger(), &mockTreatmentRepository{}, &mockAuditService{})

		_, err := uc.GetByID(ctx, uuid.New())

		assert.ErrorIs(t, err, ErrTreatmentNotFound)
	})

	t.Run("returns the treatment", func(t *testing.T) {
		id := uuid.New()
		repo := &mockTreatmentRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
				return &entity.Treatment{ID: id, Name: "Konsultasi Umum", Price: decimal.NewFromInt(150000)}, nil
			},
		}
		uc := NewTreatmentUsecase(newTestLogger(), repo, &mockAuditService{})

		resp, err := uc.GetByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "Konsultasi Umum", resp.Name)
	})
}

func TestTreatmentUsecaseDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	existing := func(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
		return &entity.Treatment{ID: id, Name: "Dental Scaling", Price: decimal.NewFromInt(250000)}, nil
	}

	t.Run("maps a foreign key violation to an in-use error", func(t *testing.T) {
		repo := &mockTreatmentRepository{
			FindByIDFunc: existing,
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				return &pgconn.PgError{Code: "23503", ConstraintName: "fk_appointments_treatment"}
			},
		}
		uc := NewTreatmentUsecase(newTestLogger(), repo, &mockAuditService{})

		err := uc.Delete(ctx, id, nil)

		assert.ErrorIs(t, err, ErrTreatmentInUse)
	})

	t.Run("deletes and records the action", func(t *testing.T) {
		repo := &mockTreatmentRepository{FindByIDFunc: existing}
		audit := &mockAuditService{}
		uc := NewTreatmentUsecase(newTestLogger(), repo, audit)

		err := uc.Delete(ctx, id, nil)

		require.NoError(t, err)
		assert.Contains(t, audit.Actions, entity.AuditActionTreatmentDelete)
	})
}
