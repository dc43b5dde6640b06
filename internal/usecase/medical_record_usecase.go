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
	ErrMedicalRecordNotFound = errors.New("medical record not found")
	ErrNotRecordAuthor       = errors.New("only the authoring doctor can modify this record")
	ErrAppointmentMismatch   = errors.New("appointment does not belong to this patient")
)

type MedicalRecordUsecase interface {
	Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID, page, limit int) ([]dto.MedicalRecordResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicalRecordResponse, error)
	Update(ctx context.Context, id uuid.UUID, doctorID uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
}

type medicalRecordUsecase struct {
	log             *logrus.Logger
	recordRepo      repository.MedicalRecordRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	audit           service.AuditService
}

func NewMedicalRecordUsecase(
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	audit service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		log:             log,
		recordRepo:      recordRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		audit:           audit,
	}
}

func (u *medicalRecordUsecase) Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}

	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	var appointmentID *uuid.UUID
	if req.AppointmentID != "" {
		id, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			return nil, ErrAppointmentNotFound
		}
		appointment, err := u.appointmentRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.PatientID != patientID {
			return nil, ErrAppointmentMismatch
		}
		appointmentID = &id
	}

	record := &entity.MedicalRecord{
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: appointmentID,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Prescription:  req.Prescription,
		Notes:         req.Notes,
	}

	if err := u.recordRepo.Create(ctx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	response := converter.MedicalRecordToResponse(record)
	if err := u.audit.LogCreate(ctx, nil, &doctorID, entity.AuditActionRecordCreate, "medical_record", record.ID.String(), response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return response, nil
}

func (u *medicalRecordUsecase) GetByPatient(ctx context.Context, patientID uuid.UUID, page, limit int) ([]dto.MedicalRecordResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, 0, err
	}
	if patient == nil {
		return nil, 0, ErrPatientNotFound
	}

	records, total, err := u.recordRepo.FindByPatientID(ctx, patientID, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find medical records: %+v", err)
		return nil, 0, err
	}

	return converter.MedicalRecordsToResponses(records), total, nil
}

func (u *medicalRecordUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicalRecordResponse, error) {
	record, err := u.recordRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) Update(ctx context.Context, id uuid.UUID, doctorID uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	record, err := u.recordRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}

	if record.DoctorID != doctorID {
		return nil, ErrNotRecordAuthor
	}

	oldValue := converter.MedicalRecordToResponse(record)

	if req.Diagnosis != nil {
		record.Diagnosis = *req.Diagnosis
	}
	if req.Treatment != nil {
		record.Treatment = *req.Treatment
	}
	if req.Prescription != nil {
		record.Prescription = *req.Prescription
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if err := u.recordRepo.Update(ctx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, err
	}

	newValue := converter.MedicalRecordToResponse(record)
	if err := u.audit.LogUpdate(ctx, nil, &doctorID, entity.AuditActionRecordUpdate, "medical_record", id.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return newValue, nil
}
