package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Patient{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Limit(limit).Offset(offset).
		Order("created_at DESC, id DESC").
		Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

// Search composes all optional filters into a single query. Soft-deleted
// rows are excluded by the gorm soft-delete scope unless IsActive is
// filtered explicitly, which still only toggles the is_active flag.
func (r *patientRepository) Search(ctx context.Context, filter *entity.PatientFilter) ([]entity.Patient, int64, error) {
	filter.Normalize()

	base := applyPatientFilter(r.db.WithContext(ctx).Model(&entity.Patient{}), filter)

	var total int64
	countQuery := base.Session(&gorm.Session{})
	if filter.DoctorID != nil {
		// A patient with several appointments for the doctor counts once.
		countQuery = countQuery.Distinct("patients.id")
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	findQuery := base.Session(&gorm.Session{})
	if filter.DoctorID != nil {
		findQuery = findQuery.Distinct("patients.*")
	}

	var patients []entity.Patient
	order := fmt.Sprintf("patients.%s %s, patients.id DESC", filter.SortBy, strings.ToUpper(filter.SortDir))
	err := findQuery.
		Order(order).
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

func applyPatientFilter(query *gorm.DB, filter *entity.PatientFilter) *gorm.DB {
	if term := filter.SearchTerm(); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"patients.full_name ILIKE ? OR patients.nik ILIKE ? OR patients.medical_record_number ILIKE ? OR patients.email ILIKE ? OR patients.phone_number ILIKE ?",
			like, like, like, like, like,
		)
	}

	if filter.Gender != "" {
		query = query.Where("patients.gender = ?", filter.Gender)
	}

	// Age is not stored; convert to a birth-date range. min_age bounds the
	// latest acceptable birth date, max_age the earliest.
	now := time.Now()
	if filter.MinAge != nil {
		latest := now.AddDate(-*filter.MinAge, 0, 0)
		query = query.Where("patients.birth_date <= ?", latest.Format("2006-01-02"))
	}
	if filter.MaxAge != nil {
		earliest := now.AddDate(-(*filter.MaxAge + 1), 0, 0)
		query = query.Where("patients.birth_date > ?", earliest.Format("2006-01-02"))
	}

	if filter.StartDate != "" {
		query = query.Where("DATE(patients.created_at) >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("DATE(patients.created_at) <= ?", filter.EndDate)
	}

	if filter.DoctorID != nil {
		query = query.
			Joins("JOIN appointments ON appointments.patient_id = patients.id").
			Where("appointments.doctor_id = ?", *filter.DoctorID)
	}

	if filter.IsActive != nil {
		query = query.Where("patients.is_active = ?", *filter.IsActive)
	}

	if filter.NewOnly {
		query = query.Where("patients.created_at >= ?", now.AddDate(0, 0, -30))
	}

	if filter.HasAllergy {
		query = query.Where("patients.allergy_notes IS NOT NULL AND patients.allergy_notes <> ''")
	}

	return query
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByNIK(ctx context.Context, nik string) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where("nik = ?", nik).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByMedicalRecordNumber(ctx context.Context, number string) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where("medical_record_number = ?", number).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := r.db.WithContext(ctx).
		Distinct("patients.*").
		Joins("JOIN appointments ON appointments.patient_id = patients.id").
		Where("appointments.doctor_id = ?", doctorID).
		Order("patients.created_at DESC, patients.id DESC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// LatestRecordNumber scans soft-deleted rows too: a deleted patient still
// holds its number for the day. Ordering by length before value keeps the
// comparison numeric once the suffix grows past three digits
// ("…-1000" sorts above "…-999").
func (r *patientRepository) LatestRecordNumber(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&entity.Patient{}).
		Where("medical_record_number LIKE ?", prefix+"%").
		Order("LENGTH(medical_record_number) DESC, medical_record_number DESC").
		Limit(1).
		Pluck("medical_record_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return r.db.WithContext(ctx).Save(patient).Error
}

func (r *patientRepository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Patient{})
	return res.RowsAffected, res.Error
}

func (r *patientRepository) FindDeletedByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Model(&entity.Patient{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *patientRepository) HardDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&entity.Patient{})
	return res.RowsAffected, res.Error
}

func (r *patientRepository) Statistics(ctx context.Context) (*entity.PatientStatistics, error) {
	stats := &entity.PatientStatistics{}
	db := r.db.WithContext(ctx).Model(&entity.Patient{})

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active

	if err := db.Session(&gorm.Session{}).Where("gender = ?", entity.GenderMale).Count(&stats.Male).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("gender = ?", entity.GenderFemale).Count(&stats.Female).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := db.Session(&gorm.Session{}).Where("created_at >= ?", firstOfMonth).Count(&stats.NewThisMonth).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
