package repository

import (
	"context"
	"errors"
	"time"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	base := r.db.WithContext(ctx).Model(&entity.Appointment{})

	if filter.PatientID != nil {
		base = base.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		base = base.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	if filter.StartAt != "" {
		base = base.Where("DATE(scheduled_at) >= ?", filter.StartAt)
	}
	if filter.EndAt != "" {
		base = base.Where("DATE(scheduled_at) <= ?", filter.EndAt)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []entity.Appointment
	err := base.Session(&gorm.Session{}).
		Preload("Patient").
		Preload("Doctor.User").
		Preload("Treatment").
		Order("scheduled_at ASC, id DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User").
		Preload("Treatment").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).
		Omit("Patient", "Doctor", "Treatment").
		Save(appointment).Error
}

func (r *appointmentRepository) CountOverlapping(ctx context.Context, doctorID uuid.UUID, at time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND scheduled_at = ? AND status <> ?", doctorID, at, entity.AppointmentStatusCancelled).
		Count(&count).Error
	return count, err
}
