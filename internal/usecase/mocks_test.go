package usecase

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// --- mockPatientRepository ---

var _ repository.PatientRepository = (*mockPatientRepository)(nil)

// mockPatientRepository implements PatientRepository through overridable
// function fields. A nil field behaves like an empty table.
type mockPatientRepository struct {
	CreateFunc                    func(ctx context.Context, patient *entity.Patient) error
	FindAllFunc                   func(ctx context.Context, limit, offset int) ([]entity.Patient, int64, error)
	SearchFunc                    func(ctx context.Context, filter *entity.PatientFilter) ([]entity.Patient, int64, error)
	FindByIDFunc                  func(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	FindByNIKFunc                 func(ctx context.Context, nik string) (*entity.Patient, error)
	FindByEmailFunc               func(ctx context.Context, email string) (*entity.Patient, error)
	FindByMedicalRecordNumberFunc func(ctx context.Context, number string) (*entity.Patient, error)
	FindByDoctorIDFunc            func(ctx context.Context, doctorID uuid.UUID) ([]entity.Patient, error)
	LatestRecordNumberFunc        func(ctx context.Context, prefix string) (string, error)
	UpdateFunc                    func(ctx context.Context, patient *entity.Patient) error
	SoftDeleteFunc                func(ctx context.Context, id uuid.UUID) (int64, error)
	FindDeletedByIDFunc           func(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	RestoreFunc                   func(ctx context.Context, id uuid.UUID) error
	HardDeleteFunc                func(ctx context.Context, id uuid.UUID) (int64, error)
	StatisticsFunc                func(ctx context.Context) (*entity.PatientStatistics, error)

	CreateCallCount int32
	SearchCallCount int32
}

func (m *mockPatientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatientRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Patient, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockPatientRepository) Search(ctx context.Context, filter *entity.PatientFilter) ([]entity.Patient, int64, error) {
	atomic.AddInt32(&m.SearchCallCount, 1)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByNIK(ctx context.Context, nik string) (*entity.Patient, error) {
	if m.FindByNIKFunc != nil {
		return m.FindByNIKFunc(ctx, nik)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByMedicalRecordNumber(ctx context.Context, number string) (*entity.Patient, error) {
	if m.FindByMedicalRecordNumberFunc != nil {
		return m.FindByMedicalRecordNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Patient, error) {
	if m.FindByDoctorIDFunc != nil {
		return m.FindByDoctorIDFunc(ctx, doctorID)
	}
	return nil, nil
}

func (m *mockPatientRepository) LatestRecordNumber(ctx context.Context, prefix string) (string, error) {
	if m.LatestRecordNumberFunc != nil {
		return m.LatestRecordNumberFunc(ctx, prefix)
	}
	return "", nil
}

func (m *mockPatientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return 1, nil
}

func (m *mockPatientRepository) FindDeletedByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	if m.FindDeletedByIDFunc != nil {
		return m.FindDeletedByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPatientRepository) Restore(ctx context.Context, id uuid.UUID) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, id)
	}
	return nil
}

func (m *mockPatientRepository) HardDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.HardDeleteFunc != nil {
		return m.HardDeleteFunc(ctx, id)
	}
	return 1, nil
}

func (m *mockPatientRepository) Statistics(ctx context.Context) (*entity.PatientStatistics, error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(ctx)
	}
	return &entity.PatientStatistics{}, nil
}

// --- mockTreatmentRepository ---

var _ repository.TreatmentRepository = (*mockTreatmentRepository)(nil)

type mockTreatmentRepository struct {
	CreateFunc   func(ctx context.Context, treatment *entity.Treatment) error
	FindAllFunc  func(ctx context.Context, limit, offset int) ([]entity.Treatment, int64, error)
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*entity.Treatment, error)
	UpdateFunc   func(ctx context.Context, treatment *entity.Treatment) error
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTreatmentRepository) Create(ctx context.Context, treatment *entity.Treatment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, treatment)
	}
	return nil
}

func (m *mockTreatmentRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Treatment, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockTreatmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTreatmentRepository) Update(ctx context.Context, treatment *entity.Treatment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, treatment)
	}
	return nil
}

func (m *mockTreatmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// --- mockCache ---

var _ service.Cache = (*mockCache)(nil)

// mockCache records invalidations so tests can assert which entries a
// write dropped. Get defaults to a miss.
type mockCache struct {
	GetFunc func(ctx context.Context, key string, dest interface{}) (bool, error)
	SetFunc func(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	SetKeys         []string
	DeletedKeys     []string
	DeletedPrefixes []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return false, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.SetKeys = append(m.SetKeys, key)
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	m.DeletedKeys = append(m.DeletedKeys, keys...)
	return nil
}

func (m *mockCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.DeletedPrefixes = append(m.DeletedPrefixes, prefix)
	return nil
}

// --- mockAuditService ---

var _ service.AuditService = (*mockAuditService)(nil)

// mockAuditService collects every recorded event and action name.
type mockAuditService struct {
	Events  []*entity.PatientEvent
	Actions []string
}

func (m *mockAuditService) RecordPatientEvent(ctx context.Context, ev *entity.PatientEvent) error {
	m.Events = append(m.Events, ev)
	return nil
}

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	m.Actions = append(m.Actions, action)
	return nil
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	m.Actions = append(m.Actions, action)
	return nil
}

func (m *mockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	m.Actions = append(m.Actions, action)
	return nil
}
