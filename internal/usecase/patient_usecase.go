package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-management-api/config"
	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPatientNotFound       = errors.New("patient not found")
	ErrPatientNotDeleted     = errors.New("patient is not deleted")
	ErrNIKAlreadyExists      = errors.New("NIK already registered to another patient")
	ErrEmailAlreadyExists    = errors.New("email already registered to another patient")
	ErrFutureBirthDate       = errors.New("birth date must not be in the future")
	ErrInvalidDateFormat     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrRecordNumberExhausted = errors.New("could not allocate a unique medical record number")
)

// recordNumberAttempts bounds the optimistic retry when two creations race
// for the same day-scoped sequence value. The unique index on
// medical_record_number is the backstop; losing the race regenerates.
const recordNumberAttempts = 3

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest, actorID *uuid.UUID) (*dto.PatientResponse, error)
	GetAll(ctx context.Context, page, limit int) (*dto.PatientPage, error)
	Search(ctx context.Context, filter *entity.PatientFilter) (*dto.PatientPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	GetByNIK(ctx context.Context, nik string) (*dto.PatientResponse, error)
	GetByMedicalRecordNumber(ctx context.Context, number string) (*dto.PatientResponse, error)
	GetByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.PatientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest, actorID *uuid.UUID) (*dto.PatientResponse, error)
	SoftDelete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*dto.PatientResponse, error)
	HardDelete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	Statistics(ctx context.Context) (*entity.PatientStatistics, error)
}

type patientUsecase struct {
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	cache       service.Cache
	audit       service.AuditService
	ttl         config.CacheConfig
}

func NewPatientUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	cache service.Cache,
	audit service.AuditService,
	ttl config.CacheConfig,
) PatientUsecase {
	return &patientUsecase{
		log:         log,
		patientRepo: patientRepo,
		cache:       cache,
		audit:       audit,
		ttl:         ttl,
	}
}

// Create validates identity fields, allocates a day-scoped medical record
// number, persists the patient, records the creation event, and drops the
// cached read results.
func (u *patientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest, actorID *uuid.UUID) (*dto.PatientResponse, error) {
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		FullName:     strings.TrimSpace(req.FullName),
		BirthDate:    birthDate,
		Gender:       req.Gender,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Address:      req.Address,
		AllergyNotes: req.AllergyNotes,
	}

	if nik := strings.TrimSpace(req.NIK); nik != "" {
		existing, err := u.patientRepo.FindByNIK(ctx, nik)
		if err != nil {
			u.log.Warnf("Failed to check NIK uniqueness: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrNIKAlreadyExists
		}
		patient.NIK = &nik
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		existing, err := u.patientRepo.FindByEmail(ctx, email)
		if err != nil {
			u.log.Warnf("Failed to check email uniqueness: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
		patient.Email = &email
	}

	if err := u.createWithRecordNumber(ctx, patient); err != nil {
		return nil, err
	}

	if ev, err := entity.NewPatientCreatedEvent(patient, actorID); err == nil {
		if err := u.audit.RecordPatientEvent(ctx, ev); err != nil {
			u.log.Warnf("Failed to record patient created event: %+v", err)
		}
	}

	u.invalidatePatientCache(ctx, nil)

	return converter.PatientToResponse(patient), nil
}

// createWithRecordNumber runs the read-then-increment allocation with a
// bounded retry. The generator itself provides no atomicity; a concurrent
// creation surfaces as a unique violation and the loop regenerates.
func (u *patientUsecase) createWithRecordNumber(ctx context.Context, patient *entity.Patient) error {
	now := time.Now()

	for attempt := 0; attempt < recordNumberAttempts; attempt++ {
		latest, err := u.patientRepo.LatestRecordNumber(ctx, service.RecordNumberPrefix(now))
		if err != nil {
			u.log.Warnf("Failed to read latest record number: %+v", err)
			return err
		}

		number, err := service.NextRecordNumber(latest, now)
		if err != nil {
			u.log.Warnf("Failed to compute next record number: %+v", err)
			return err
		}
		patient.MedicalRecordNumber = number

		err = u.patientRepo.Create(ctx, patient)
		if err == nil {
			return nil
		}

		switch {
		case isDuplicateKeyError(err, "medical_record_number"):
			u.log.Infof("Record number %s lost an allocation race, retrying", number)
			continue
		case isDuplicateKeyError(err, "nik"):
			return ErrNIKAlreadyExists
		case isDuplicateKeyError(err, "email"):
			return ErrEmailAlreadyExists
		default:
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}
	}

	return ErrRecordNumberExhausted
}

func (u *patientUsecase) GetAll(ctx context.Context, page, limit int) (*dto.PatientPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	key := service.PatientListKey(page, limit)
	var cached dto.PatientPage
	if found, _ := u.cache.Get(ctx, key, &cached); found {
		return &cached, nil
	}

	patients, total, err := u.patientRepo.FindAll(ctx, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	result := converter.PatientsToPage(patients, total)
	u.cache.Set(ctx, key, result, u.ttl.ListTTL)

	return result, nil
}

// Search rejects malformed filter combinations before any query executes.
func (u *patientUsecase) Search(ctx context.Context, filter *entity.PatientFilter) (*dto.PatientPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.Normalize()

	key := service.PatientSearchKey(filter)
	var cached dto.PatientPage
	if found, _ := u.cache.Get(ctx, key, &cached); found {
		return &cached, nil
	}

	patients, total, err := u.patientRepo.Search(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	result := converter.PatientsToPage(patients, total)
	u.cache.Set(ctx, key, result, u.ttl.SearchTTL)

	return result, nil
}

func (u *patientUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	key := service.PatientDetailKey(id)
	var cached dto.PatientResponse
	if found, _ := u.cache.Get(ctx, key, &cached); found {
		return &cached, nil
	}

	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	result := converter.PatientToResponse(patient)
	u.cache.Set(ctx, key, result, u.ttl.DetailTTL)

	return result, nil
}

func (u *patientUsecase) GetByNIK(ctx context.Context, nik string) (*dto.PatientResponse, error) {
	nik = strings.TrimSpace(nik)

	key := service.PatientByNIKKey(nik)
	var cached dto.PatientResponse
	if found, _ := u.cache.Get(ctx, key, &cached); found {
		return &cached, nil
	}

	patient, err := u.patientRepo.FindByNIK(ctx, nik)
	if err != nil {
		u.log.Warnf("Failed to find patient by NIK: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	result := converter.PatientToResponse(patient)
	u.cache.Set(ctx, key, result, u.ttl.DetailTTL)

	return result, nil
}

func (u *patientUsecase) GetByMedicalRecordNumber(ctx context.Context, number string) (*dto.PatientResponse, error) {
	number = strings.TrimSpace(number)

	key := service.PatientByRecordNumberKey(number)
	var cached dto.PatientResponse
	if found, _ := u.cache.Get(ctx, key, &cached); found {
		return &cached, nil
	}

	patient, err := u.patientRepo.FindByMedicalRecordNumber(ctx, number)
	if err != nil {
		u.log.Warnf("Failed to find patient by record number: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	result := converter.PatientToResponse(patient)
	u.cache.Set(ctx, key, result, u.ttl.DetailTTL)

	return result, nil
}

func (u *patientUsecase) GetByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.PatientResponse, error) {
	key := service.PatientByDoctorKey(doctorID)
	var cached []dto.PatientResponse
	if found, _ := u.cache.Get(ctx, key, &cached); found {
		return cached, nil
	}

	patients, err := u.patientRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find patients by doctor %s: %+v", doctorID, err)
		return nil, err
	}

	result := converter.PatientsToPage(patients, int64(len(patients))).Patients
	u.cache.Set(ctx, key, result, u.ttl.ListTTL)

	return result, nil
}

// Update re-checks uniqueness only for fields whose value actually changed,
// so a patient's own unchanged NIK or email never reads as a conflict.
func (u *patientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest, actorID *uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	var changed []string

	if req.NIK != nil {
		nik := strings.TrimSpace(*req.NIK)
		switch {
		case nik == "":
			if patient.NIK != nil {
				patient.NIK = nil
				changed = append(changed, "nik")
			}
		case patient.NIK == nil || *patient.NIK != nik:
			existing, err := u.patientRepo.FindByNIK(ctx, nik)
			if err != nil {
				u.log.Warnf("Failed to check NIK uniqueness: %+v", err)
				return nil, err
			}
			if existing != nil && existing.ID != patient.ID {
				return nil, ErrNIKAlreadyExists
			}
			patient.NIK = &nik
			changed = append(changed, "nik")
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		switch {
		case email == "":
			if patient.Email != nil {
				patient.Email = nil
				changed = append(changed, "email")
			}
		case patient.Email == nil || *patient.Email != email:
			existing, err := u.patientRepo.FindByEmail(ctx, email)
			if err != nil {
				u.log.Warnf("Failed to check email uniqueness: %+v", err)
				return nil, err
			}
			if existing != nil && existing.ID != patient.ID {
				return nil, ErrEmailAlreadyExists
			}
			patient.Email = &email
			changed = append(changed, "email")
		}
	}

	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		if !equalDate(patient.BirthDate, birthDate) {
			patient.BirthDate = birthDate
			changed = append(changed, "birth_date")
		}
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) != patient.FullName {
		patient.FullName = strings.TrimSpace(*req.FullName)
		changed = append(changed, "full_name")
	}
	if req.Gender != nil && *req.Gender != patient.Gender {
		patient.Gender = *req.Gender
		changed = append(changed, "gender")
	}
	if req.PhoneNumber != nil && strings.TrimSpace(*req.PhoneNumber) != patient.PhoneNumber {
		patient.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
		changed = append(changed, "phone_number")
	}
	if req.Address != nil && *req.Address != patient.Address {
		patient.Address = *req.Address
		changed = append(changed, "address")
	}
	if req.AllergyNotes != nil && *req.AllergyNotes != patient.AllergyNotes {
		patient.AllergyNotes = *req.AllergyNotes
		changed = append(changed, "allergy_notes")
	}
	if req.IsActive != nil && (patient.IsActive == nil || *req.IsActive != *patient.IsActive) {
		patient.IsActive = req.IsActive
		changed = append(changed, "is_active")
	}

	if len(changed) == 0 {
		return converter.PatientToResponse(patient), nil
	}

	if err := u.patientRepo.Update(ctx, patient); err != nil {
		switch {
		case isDuplicateKeyError(err, "nik"):
			return nil, ErrNIKAlreadyExists
		case isDuplicateKeyError(err, "email"):
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	if ev, err := entity.NewPatientUpdatedEvent(patient, actorID, changed); err == nil {
		if err := u.audit.RecordPatientEvent(ctx, ev); err != nil {
			u.log.Warnf("Failed to record patient updated event: %+v", err)
		}
	}

	u.invalidatePatientCache(ctx, &id)

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) SoftDelete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	affected, err := u.patientRepo.SoftDelete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to soft delete patient %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrPatientNotFound
	}

	if ev, err := entity.NewPatientDeletedEvent(patient, actorID); err == nil {
		if err := u.audit.RecordPatientEvent(ctx, ev); err != nil {
			u.log.Warnf("Failed to record patient deleted event: %+v", err)
		}
	}

	u.invalidatePatientCache(ctx, &id)

	return nil
}

// Restore brings a soft-deleted patient back with all original fields
// intact. It may conflict if the NIK or email has meanwhile been taken by
// another active patient; the partial unique indexes are the arbiter.
func (u *patientUsecase) Restore(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindDeletedByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find deleted patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		active, err := u.patientRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", id, err)
			return nil, err
		}
		if active != nil {
			return nil, ErrPatientNotDeleted
		}
		return nil, ErrPatientNotFound
	}

	if err := u.patientRepo.Restore(ctx, id); err != nil {
		switch {
		case isDuplicateKeyError(err, "nik"):
			return nil, ErrNIKAlreadyExists
		case isDuplicateKeyError(err, "email"):
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to restore patient %s: %+v", id, err)
		return nil, err
	}

	if ev, err := entity.NewPatientRestoredEvent(patient, actorID); err == nil {
		if err := u.audit.RecordPatientEvent(ctx, ev); err != nil {
			u.log.Warnf("Failed to record patient restored event: %+v", err)
		}
	}

	u.invalidatePatientCache(ctx, &id)

	patient.DeletedAt.Valid = false
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) HardDelete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return err
	}
	if patient == nil {
		patient, err = u.patientRepo.FindDeletedByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find deleted patient %s: %+v", id, err)
			return err
		}
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	affected, err := u.patientRepo.HardDelete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to hard delete patient %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrPatientNotFound
	}

	if ev, err := entity.NewPatientPurgedEvent(patient, actorID); err == nil {
		if err := u.audit.RecordPatientEvent(ctx, ev); err != nil {
			u.log.Warnf("Failed to record patient purged event: %+v", err)
		}
	}

	u.invalidatePatientCache(ctx, &id)

	return nil
}

func (u *patientUsecase) Statistics(ctx context.Context) (*entity.PatientStatistics, error) {
	key := service.PatientStatsKey()
	var cached entity.PatientStatistics
	if found, _ := u.cache.Get(ctx, key, &cached); found {
		return &cached, nil
	}

	stats, err := u.patientRepo.Statistics(ctx)
	if err != nil {
		u.log.Warnf("Failed to compute patient statistics: %+v", err)
		return nil, err
	}

	u.cache.Set(ctx, key, stats, u.ttl.StatsTTL)

	return stats, nil
}

// invalidatePatientCache drops the single detail entry when the write is
// scoped to one patient, then clears every list/search/stat entry. The
// broad purge is blunt but correctness-preserving.
func (u *patientUsecase) invalidatePatientCache(ctx context.Context, id *uuid.UUID) {
	if id != nil {
		if err := u.cache.Delete(ctx, service.PatientDetailKey(*id)); err != nil {
			u.log.Warnf("Failed to drop patient detail cache: %+v", err)
		}
	}
	if err := u.cache.DeleteByPrefix(ctx, service.PatientKeyPrefix); err != nil {
		u.log.Warnf("Failed to purge patient cache: %+v", err)
	}
}

func parseBirthDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	birthDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	// A birth date equal to today is acceptable; tomorrow is not.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birthDate.After(today) {
		return nil, ErrFutureBirthDate
	}

	return &birthDate, nil
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
