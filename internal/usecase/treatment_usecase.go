package usecase

import (
	"context"
	"errors"

	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrTreatmentInUse    = errors.New("treatment is referenced by appointments")
)

type TreatmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateTreatmentRequest, actorID *uuid.UUID) (*dto.TreatmentResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]dto.TreatmentResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTreatmentRequest, actorID *uuid.UUID) (*dto.TreatmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
}

type treatmentUsecase struct {
	log           *logrus.Logger
	treatmentRepo repository.TreatmentRepository
	audit         service.AuditService
}

func NewTreatmentUsecase(
	log *logrus.Logger,
	treatmentRepo repository.TreatmentRepository,
	audit service.AuditService,
) TreatmentUsecase {
	return &treatmentUsecase{
		log:           log,
		treatmentRepo: treatmentRepo,
		audit:         audit,
	}
}

func (u *treatmentUsecase) Create(ctx context.Context, req *dto.CreateTreatmentRequest, actorID *uuid.UUID) (*dto.TreatmentResponse, error) {
	treatment := &entity.Treatment{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := u.treatmentRepo.Create(ctx, treatment); err != nil {
		u.log.Warnf("Failed to create treatment: %+v", err)
		return nil, err
	}

	response := converter.TreatmentToResponse(treatment)
	if err := u.audit.LogCreate(ctx, nil, actorID, entity.AuditActionTreatmentCreate, "treatment", treatment.ID.String(), response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return response, nil
}

func (u *treatmentUsecase) GetAll(ctx context.Context, page, limit int) ([]dto.TreatmentResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit

	treatments, total, err := u.treatmentRepo.FindAll(ctx, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find all treatments: %+v", err)
		return nil, 0, err
	}

	return converter.TreatmentsToResponses(treatments), total, nil
}

func (u *treatmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error) {
	treatment, err := u.treatmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment: %+v", err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}

	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTreatmentRequest, actorID *uuid.UUID) (*dto.TreatmentResponse, error) {
	treatment, err := u.treatmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment: %+v", err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}

	oldValue := converter.TreatmentToResponse(treatment)

	treatment.Name = req.Name
	treatment.Description = req.Description
	treatment.Price = req.Price
	if req.IsActive != nil {
		treatment.IsActive = req.IsActive
	}

	if err := u.treatmentRepo.Update(ctx, treatment); err != nil {
		u.log.Warnf("Failed to update treatment: %+v", err)
		return nil, err
	}

	newValue := converter.TreatmentToResponse(treatment)
	if err := u.audit.LogUpdate(ctx, nil, actorID, entity.AuditActionTreatmentUpdate, "treatment", id.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return newValue, nil
}

func (u *treatmentUsecase) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	treatment, err := u.treatmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment: %+v", err)
		return err
	}
	if treatment == nil {
		return ErrTreatmentNotFound
	}

	oldValue := converter.TreatmentToResponse(treatment)

	if err := u.treatmentRepo.Delete(ctx, id); err != nil {
		if isForeignKeyError(err, "treatment") {
			return ErrTreatmentInUse
		}
		u.log.Warnf("Failed to delete treatment: %+v", err)
		return err
	}

	if err := u.audit.LogDelete(ctx, nil, actorID, entity.AuditActionTreatmentDelete, "treatment", id.String(), oldValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}
