package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentFinalized = errors.New("appointment is already completed or cancelled")
	ErrDoctorSlotTaken      = errors.New("doctor already has an appointment at this time")
	ErrPastScheduledTime    = errors.New("scheduled time must be in the future")
	ErrInvalidScheduleTime  = errors.New("invalid scheduled time, use RFC 3339")
	ErrInactivePatient      = errors.New("patient is inactive")
	ErrInactiveTreatment    = errors.New("treatment is inactive")
	ErrInvalidStatusChange  = errors.New("invalid appointment status change")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest, actorID *uuid.UUID) (*dto.AppointmentResponse, error)
	GetAll(ctx context.Context, filter *entity.AppointmentFilter) ([]dto.AppointmentResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest, actorID *uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	treatmentRepo   repository.TreatmentRepository
	doctorRepo      repository.DoctorProfileRepository
	audit           service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	treatmentRepo repository.TreatmentRepository,
	doctorRepo repository.DoctorProfileRepository,
	audit service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		treatmentRepo:   treatmentRepo,
		doctorRepo:      doctorRepo,
		audit:           audit,
	}
}

func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest, actorID *uuid.UUID) (*dto.AppointmentResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, ErrInvalidScheduleTime
	}
	if !scheduledAt.After(time.Now()) {
		return nil, ErrPastScheduledTime
	}

	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if patient.IsActive != nil && !*patient.IsActive {
		return nil, ErrInactivePatient
	}

	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	var treatmentID *uuid.UUID
	if req.TreatmentID != "" {
		id, err := uuid.Parse(req.TreatmentID)
		if err != nil {
			return nil, ErrTreatmentNotFound
		}
		treatment, err := u.treatmentRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find treatment: %+v", err)
			return nil, err
		}
		if treatment == nil {
			return nil, ErrTreatmentNotFound
		}
		if treatment.IsActive != nil && !*treatment.IsActive {
			return nil, ErrInactiveTreatment
		}
		treatmentID = &id
	}

	taken, err := u.appointmentRepo.CountOverlapping(ctx, doctorID, scheduledAt)
	if err != nil {
		u.log.Warnf("Failed to check doctor availability: %+v", err)
		return nil, err
	}
	if taken > 0 {
		return nil, ErrDoctorSlotTaken
	}

	appointment := &entity.Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		TreatmentID: treatmentID,
		ScheduledAt: scheduledAt,
		Status:      entity.AppointmentStatusScheduled,
		Complaint:   req.Complaint,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	response := converter.AppointmentToResponse(appointment)
	if err := u.audit.LogCreate(ctx, nil, actorID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return response, nil
}

func (u *appointmentUsecase) GetAll(ctx context.Context, filter *entity.AppointmentFilter) ([]dto.AppointmentResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	appointments, total, err := u.appointmentRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest, actorID *uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	// Completed and cancelled appointments are immutable.
	if appointment.Status != entity.AppointmentStatusScheduled {
		return nil, ErrAppointmentFinalized
	}

	oldValue := converter.AppointmentToResponse(appointment)
	action := entity.AuditActionAppointmentUpdate

	if req.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return nil, ErrInvalidScheduleTime
		}
		if !scheduledAt.After(time.Now()) {
			return nil, ErrPastScheduledTime
		}
		if !scheduledAt.Equal(appointment.ScheduledAt) {
			taken, err := u.appointmentRepo.CountOverlapping(ctx, appointment.DoctorID, scheduledAt)
			if err != nil {
				u.log.Warnf("Failed to check doctor availability: %+v", err)
				return nil, err
			}
			if taken > 0 {
				return nil, ErrDoctorSlotTaken
			}
			appointment.ScheduledAt = scheduledAt
		}
	}

	if req.TreatmentID != nil {
		treatmentID, err := uuid.Parse(*req.TreatmentID)
		if err != nil {
			return nil, ErrTreatmentNotFound
		}
		treatment, err := u.treatmentRepo.FindByID(ctx, treatmentID)
		if err != nil {
			u.log.Warnf("Failed to find treatment: %+v", err)
			return nil, err
		}
		if treatment == nil {
			return nil, ErrTreatmentNotFound
		}
		appointment.TreatmentID = &treatmentID
	}

	if req.Complaint != nil {
		appointment.Complaint = *req.Complaint
	}

	if req.Status != nil {
		switch entity.AppointmentStatus(*req.Status) {
		case entity.AppointmentStatusCompleted:
			appointment.Status = entity.AppointmentStatusCompleted
		case entity.AppointmentStatusCancelled:
			appointment.Status = entity.AppointmentStatusCancelled
			action = entity.AuditActionAppointmentCancel
		case entity.AppointmentStatusScheduled:
			// no-op
		default:
			return nil, ErrInvalidStatusChange
		}
	}

	if err := u.appointmentRepo.Update(ctx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.audit.LogUpdate(ctx, nil, actorID, action, "appointment", id.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return newValue, nil
}
