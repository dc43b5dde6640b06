package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-management-api/config"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatientUsecaseForTest(repo *mockPatientRepository) (PatientUsecase, *mockCache, *mockAuditService) {
	cache := &mockCache{}
	audit := &mockAuditService{}
	ttl := config.CacheConfig{
		DetailTTL: 5 * time.Minute,
		ListTTL:   5 * time.Minute,
		SearchTTL: time.Minute,
		StatsTTL:  time.Minute,
	}
	return NewPatientUsecase(newTestLogger(), repo, cache, audit, ttl), cache, audit
}

func duplicateKeyError(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func strPtr(v string) *string { return &v }

func TestPatientUsecaseCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns the first record number of the day", func(t *testing.T) {
		var created *entity.Patient
		repo := &mockPatientRepository{
			CreateFunc: func(ctx context.Context, patient *entity.Patient) error {
				patient.ID = uuid.New()
				created = patient
				return nil
			},
		}
		uc, cache, audit := newPatientUsecaseForTest(repo)

		resp, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName: "Budi Santoso",
			Gender:   entity.GenderMale,
		}, nil)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, service.FormatRecordNumber(time.Now(), 1), created.MedicalRecordNumber)
		assert.Equal(t, created.MedicalRecordNumber, resp.MedicalRecordNumber)

		require.Len(t, audit.Events, 1)
		assert.Equal(t, entity.PatientCreated, audit.Events[0].Kind)
		assert.Contains(t, cache.DeletedPrefixes, service.PatientKeyPrefix)
	})

	t.Run("increments the latest record number of the day", func(t *testing.T) {
		var created *entity.Patient
		repo := &mockPatientRepository{
			LatestRecordNumberFunc: func(ctx context.Context, prefix string) (string, error) {
				return prefix + "041", nil
			},
			CreateFunc: func(ctx context.Context, patient *entity.Patient) error {
				patient.ID = uuid.New()
				created = patient
				return nil
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName: "Siti Aminah",
			Gender:   entity.GenderFemale,
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, service.FormatRecordNumber(time.Now(), 42), created.MedicalRecordNumber)
	})

	t.Run("regenerates after losing an allocation race", func(t *testing.T) {
		// Two concurrent creations read the same latest value; the loser
		// hits the unique index and must retry with a fresh read.
		var reads int
		var created *entity.Patient
		repo := &mockPatientRepository{}
		repo.LatestRecordNumberFunc = func(ctx context.Context, prefix string) (string, error) {
			reads++
			if reads == 1 {
				return prefix + "001", nil
			}
			return prefix + "002", nil
		}
		repo.CreateFunc = func(ctx context.Context, patient *entity.Patient) error {
			if repo.CreateCallCount == 1 {
				return duplicateKeyError("idx_patients_medical_record_number")
			}
			patient.ID = uuid.New()
			created = patient
			return nil
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName: "Budi Santoso",
			Gender:   entity.GenderMale,
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, int32(2), repo.CreateCallCount)
		assert.Equal(t, service.FormatRecordNumber(time.Now(), 3), created.MedicalRecordNumber)
	})

	t.Run("keeps allocating past the 999th number of the day", func(t *testing.T) {
		// Once four-digit suffixes exist, the latest read must surface
		// "-1000" rather than "-999" or allocation would re-propose a
		// taken number forever.
		var created *entity.Patient
		repo := &mockPatientRepository{
			LatestRecordNumberFunc: func(ctx context.Context, prefix string) (string, error) {
				return prefix + "1000", nil
			},
			CreateFunc: func(ctx context.Context, patient *entity.Patient) error {
				patient.ID = uuid.New()
				created = patient
				return nil
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName: "Budi Santoso",
			Gender:   entity.GenderMale,
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, int32(1), repo.CreateCallCount)
		assert.Equal(t, service.FormatRecordNumber(time.Now(), 1001), created.MedicalRecordNumber)
	})

	t.Run("gives up after repeated allocation races", func(t *testing.T) {
		repo := &mockPatientRepository{
			CreateFunc: func(ctx context.Context, patient *entity.Patient) error {
				return duplicateKeyError("idx_patients_medical_record_number")
			},
		}
		uc, _, audit := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName: "Budi Santoso",
			Gender:   entity.GenderMale,
		}, nil)

		assert.ErrorIs(t, err, ErrRecordNumberExhausted)
		assert.Equal(t, int32(recordNumberAttempts), repo.CreateCallCount)
		assert.Empty(t, audit.Events)
	})

	t.Run("rejects a NIK registered to another patient", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByNIKFunc: func(ctx context.Context, nik string) (*entity.Patient, error) {
				return &entity.Patient{ID: uuid.New()}, nil
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			NIK:      "3174012345678901",
			FullName: "Budi Santoso",
			Gender:   entity.GenderMale,
		}, nil)

		assert.ErrorIs(t, err, ErrNIKAlreadyExists)
		assert.Equal(t, int32(0), repo.CreateCallCount)
	})

	t.Run("rejects an email registered to another patient", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.Patient, error) {
				return &entity.Patient{ID: uuid.New()}, nil
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName: "Budi Santoso",
			Gender:   entity.GenderMale,
			Email:    "budi@example.com",
		}, nil)

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
		assert.Equal(t, int32(0), repo.CreateCallCount)
	})

	t.Run("accepts a birth date of today", func(t *testing.T) {
		repo := &mockPatientRepository{
			CreateFunc: func(ctx context.Context, patient *entity.Patient) error {
				patient.ID = uuid.New()
				return nil
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName:  "Bayi Baru",
			Gender:    entity.GenderFemale,
			BirthDate: time.Now().Format("2006-01-02"),
		}, nil)

		assert.NoError(t, err)
	})

	t.Run("rejects a future birth date", func(t *testing.T) {
		repo := &mockPatientRepository{}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName:  "Budi Santoso",
			Gender:    entity.GenderMale,
			BirthDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		}, nil)

		assert.ErrorIs(t, err, ErrFutureBirthDate)
	})

	t.Run("rejects a malformed birth date", func(t *testing.T) {
		repo := &mockPatientRepository{}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Create(ctx, &dto.CreatePatientRequest{
			FullName:  "Budi Santoso",
			Gender:    entity.GenderMale,
			BirthDate: "15-01-1990",
		}, nil)

		assert.ErrorIs(t, err, ErrInvalidDateFormat)
	})
}

func TestPatientUsecaseGetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("serves a cached detail without touching the repository", func(t *testing.T) {
		repoCalled := false
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				repoCalled = true
				return nil, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)
		cache.GetFunc = func(ctx context.Context, key string, dest interface{}) (bool, error) {
			*(dest.(*dto.PatientResponse)) = dto.PatientResponse{ID: id, FullName: "Cached"}
			return true, nil
		}

		resp, err := uc.GetByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "Cached", resp.FullName)
		assert.False(t, repoCalled)
	})

	t.Run("falls through to the repository and caches the result", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return &entity.Patient{ID: id, MedicalRecordNumber: "20250115-001", FullName: "Budi Santoso"}, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)

		resp, err := uc.GetByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "Budi Santoso", resp.FullName)
		assert.Contains(t, cache.SetKeys, service.PatientDetailKey(id))
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		repo := &mockPatientRepository{}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.GetByID(ctx, id)

		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestPatientUsecaseGetByNIK(t *testing.T) {
	ctx := context.Background()

	t.Run("serves a cached lookup without touching the repository", func(t *testing.T) {
		repoCalled := false
		repo := &mockPatientRepository{
			FindByNIKFunc: func(ctx context.Context, nik string) (*entity.Patient, error) {
				repoCalled = true
				return nil, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)
		cache.GetFunc = func(ctx context.Context, key string, dest interface{}) (bool, error) {
			*(dest.(*dto.PatientResponse)) = dto.PatientResponse{FullName: "Cached"}
			return true, nil
		}

		resp, err := uc.GetByNIK(ctx, "3174012345678901")

		require.NoError(t, err)
		assert.Equal(t, "Cached", resp.FullName)
		assert.False(t, repoCalled)
	})

	t.Run("caches a fresh lookup under the trimmed NIK", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByNIKFunc: func(ctx context.Context, nik string) (*entity.Patient, error) {
				return &entity.Patient{ID: uuid.New(), MedicalRecordNumber: "20250115-001", NIK: &nik}, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)

		_, err := uc.GetByNIK(ctx, " 3174012345678901 ")

		require.NoError(t, err)
		assert.Contains(t, cache.SetKeys, service.PatientByNIKKey("3174012345678901"))
	})

	t.Run("returns not found for an unknown NIK", func(t *testing.T) {
		uc, _, _ := newPatientUsecaseForTest(&mockPatientRepository{})

		_, err := uc.GetByNIK(ctx, "3174012345678901")

		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestPatientUsecaseGetByMedicalRecordNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("caches a fresh lookup under the record number", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByMedicalRecordNumberFunc: func(ctx context.Context, number string) (*entity.Patient, error) {
				return &entity.Patient{ID: uuid.New(), MedicalRecordNumber: number}, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)

		resp, err := uc.GetByMedicalRecordNumber(ctx, "20250115-001")

		require.NoError(t, err)
		assert.Equal(t, "20250115-001", resp.MedicalRecordNumber)
		assert.Contains(t, cache.SetKeys, service.PatientByRecordNumberKey("20250115-001"))
	})

	t.Run("serves a cached lookup without touching the repository", func(t *testing.T) {
		repoCalled := false
		repo := &mockPatientRepository{
			FindByMedicalRecordNumberFunc: func(ctx context.Context, number string) (*entity.Patient, error) {
				repoCalled = true
				return nil, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)
		cache.GetFunc = func(ctx context.Context, key string, dest interface{}) (bool, error) {
			*(dest.(*dto.PatientResponse)) = dto.PatientResponse{MedicalRecordNumber: "20250115-001"}
			return true, nil
		}

		resp, err := uc.GetByMedicalRecordNumber(ctx, "20250115-001")

		require.NoError(t, err)
		assert.Equal(t, "20250115-001", resp.MedicalRecordNumber)
		assert.False(t, repoCalled)
	})
}

func TestPatientUsecaseSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an inverted age range before querying", func(t *testing.T) {
		minAge, maxAge := 50, 20
		repo := &mockPatientRepository{}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Search(ctx, &entity.PatientFilter{MinAge: &minAge, MaxAge: &maxAge})

		assert.ErrorIs(t, err, entity.ErrInvalidAgeRange)
		assert.Equal(t, int32(0), repo.SearchCallCount)
	})

	t.Run("serves a cached page for a repeated filter", func(t *testing.T) {
		repo := &mockPatientRepository{}
		uc, cache, _ := newPatientUsecaseForTest(repo)
		cache.GetFunc = func(ctx context.Context, key string, dest interface{}) (bool, error) {
			*(dest.(*dto.PatientPage)) = dto.PatientPage{Total: 7}
			return true, nil
		}

		page, err := uc.Search(ctx, &entity.PatientFilter{Search: "budi"})

		require.NoError(t, err)
		assert.Equal(t, int64(7), page.Total)
		assert.Equal(t, int32(0), repo.SearchCallCount)
	})

	t.Run("caches a fresh result under the filter's key", func(t *testing.T) {
		filter := &entity.PatientFilter{Search: "budi", Page: 1, Limit: 10}
		repo := &mockPatientRepository{
			SearchFunc: func(ctx context.Context, f *entity.PatientFilter) ([]entity.Patient, int64, error) {
				return []entity.Patient{{ID: uuid.New(), MedicalRecordNumber: "20250115-001"}}, 1, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)

		page, err := uc.Search(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Contains(t, cache.SetKeys, service.PatientSearchKey(filter))
	})
}

func TestPatientUsecaseUpdate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	existing := func() *entity.Patient {
		email := "budi@example.com"
		return &entity.Patient{
			ID:                  id,
			MedicalRecordNumber: "20250115-001",
			FullName:            "Budi Santoso",
			Gender:              entity.GenderMale,
			Email:               &email,
		}
	}

	t.Run("does not treat the patient's own email as a conflict", func(t *testing.T) {
		lookups := 0
		updates := 0
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return existing(), nil
			},
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.Patient, error) {
				lookups++
				return existing(), nil
			},
			UpdateFunc: func(ctx context.Context, patient *entity.Patient) error {
				updates++
				return nil
			},
		}
		uc, _, audit := newPatientUsecaseForTest(repo)

		resp, err := uc.Update(ctx, id, &dto.UpdatePatientRequest{Email: strPtr("budi@example.com")}, nil)

		require.NoError(t, err)
		assert.Equal(t, "budi@example.com", resp.Email)
		assert.Equal(t, 0, lookups)
		assert.Equal(t, 0, updates)
		assert.Empty(t, audit.Events)
	})

	t.Run("rejects an email held by another patient", func(t *testing.T) {
		other := uuid.New()
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return existing(), nil
			},
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.Patient, error) {
				return &entity.Patient{ID: other}, nil
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Update(ctx, id, &dto.UpdatePatientRequest{Email: strPtr("taken@example.com")}, nil)

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("records changed fields and drops caches", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return existing(), nil
			},
		}
		uc, cache, audit := newPatientUsecaseForTest(repo)

		resp, err := uc.Update(ctx, id, &dto.UpdatePatientRequest{FullName: strPtr("Budi S. Santoso")}, nil)

		require.NoError(t, err)
		assert.Equal(t, "Budi S. Santoso", resp.FullName)

		require.Len(t, audit.Events, 1)
		assert.Equal(t, entity.PatientUpdated, audit.Events[0].Kind)
		assert.Equal(t, []string{"full_name"}, audit.Events[0].ChangedFields)

		assert.Contains(t, cache.DeletedKeys, service.PatientDetailKey(id))
		assert.Contains(t, cache.DeletedPrefixes, service.PatientKeyPrefix)
	})

	t.Run("returns not found for an unknown patient", func(t *testing.T) {
		repo := &mockPatientRepository{}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Update(ctx, id, &dto.UpdatePatientRequest{}, nil)

		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestPatientUsecaseSoftDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	actor := uuid.New()

	t.Run("records a deletion event and purges caches", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return &entity.Patient{ID: id, MedicalRecordNumber: "20250115-001"}, nil
			},
		}
		uc, cache, audit := newPatientUsecaseForTest(repo)

		err := uc.SoftDelete(ctx, id, &actor)

		require.NoError(t, err)
		require.Len(t, audit.Events, 1)
		assert.Equal(t, entity.PatientDeleted, audit.Events[0].Kind)
		assert.Equal(t, &actor, audit.Events[0].ActorID)
		assert.Contains(t, cache.DeletedPrefixes, service.PatientKeyPrefix)
	})

	t.Run("returns not found when no row was deleted", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return &entity.Patient{ID: id, MedicalRecordNumber: "20250115-001"}, nil
			},
			SoftDeleteFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
				return 0, nil
			},
		}
		uc, _, audit := newPatientUsecaseForTest(repo)

		err := uc.SoftDelete(ctx, id, nil)

		assert.ErrorIs(t, err, ErrPatientNotFound)
		assert.Empty(t, audit.Events)
	})

	t.Run("returns not found for an unknown patient", func(t *testing.T) {
		repo := &mockPatientRepository{}
		uc, _, _ := newPatientUsecaseForTest(repo)

		err := uc.SoftDelete(ctx, id, nil)

		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestPatientUsecaseRestore(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	deleted := func() *entity.Patient {
		p := &entity.Patient{ID: id, MedicalRecordNumber: "20250115-001", FullName: "Budi Santoso"}
		p.DeletedAt.Time = time.Now()
		p.DeletedAt.Valid = true
		return p
	}

	t.Run("restores a soft-deleted patient", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindDeletedByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return deleted(), nil
			},
		}
		uc, _, audit := newPatientUsecaseForTest(repo)

		resp, err := uc.Restore(ctx, id, nil)

		require.NoError(t, err)
		assert.Equal(t, "20250115-001", resp.MedicalRecordNumber)
		require.Len(t, audit.Events, 1)
		assert.Equal(t, entity.PatientRestored, audit.Events[0].Kind)
	})

	t.Run("surfaces a NIK reclaimed by another patient", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindDeletedByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return deleted(), nil
			},
			RestoreFunc: func(ctx context.Context, id uuid.UUID) error {
				return duplicateKeyError("idx_patients_nik")
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Restore(ctx, id, nil)

		assert.ErrorIs(t, err, ErrNIKAlreadyExists)
	})

	t.Run("distinguishes an active patient from a missing one", func(t *testing.T) {
		repo := &mockPatientRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
				return &entity.Patient{ID: id, MedicalRecordNumber: "20250115-001"}, nil
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Restore(ctx, id, nil)

		assert.ErrorIs(t, err, ErrPatientNotDeleted)
	})

	t.Run("returns not found for an unknown patient", func(t *testing.T) {
		repo := &mockPatientRepository{}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Restore(ctx, id, nil)

		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestPatientUsecaseStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the computed snapshot", func(t *testing.T) {
		repo := &mockPatientRepository{
			StatisticsFunc: func(ctx context.Context) (*entity.PatientStatistics, error) {
				return &entity.PatientStatistics{Total: 12, Active: 10}, nil
			},
		}
		uc, cache, _ := newPatientUsecaseForTest(repo)

		stats, err := uc.Statistics(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(12), stats.Total)
		assert.Contains(t, cache.SetKeys, service.PatientStatsKey())
	})

	t.Run("surfaces repository failures", func(t *testing.T) {
		repoErr := errors.New("connection reset")
		repo := &mockPatientRepository{
			StatisticsFunc: func(ctx context.Context) (*entity.PatientStatistics, error) {
				return nil, repoErr
			},
		}
		uc, _, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Statistics(ctx)

		assert.ErrorIs(t, err, repoErr)
	})
}
