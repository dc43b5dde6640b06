package service

import (
	"strings"
	"testing"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPatientSearchKey(t *testing.T) {
	minAge := 18

	t.Run("is stable for equal filters", func(t *testing.T) {
		a := &entity.PatientFilter{Search: "budi", Gender: entity.GenderMale, MinAge: &minAge, Page: 1, Limit: 10}
		b := &entity.PatientFilter{Search: "budi", Gender: entity.GenderMale, MinAge: &minAge, Page: 1, Limit: 10}
		assert.Equal(t, PatientSearchKey(a), PatientSearchKey(b))
	})

	t.Run("differs when any parameter differs", func(t *testing.T) {
		base := &entity.PatientFilter{Search: "budi", Page: 1, Limit: 10}
		otherTerm := &entity.PatientFilter{Search: "siti", Page: 1, Limit: 10}
		otherPage := &entity.PatientFilter{Search: "budi", Page: 2, Limit: 10}

		assert.NotEqual(t, PatientSearchKey(base), PatientSearchKey(otherTerm))
		assert.NotEqual(t, PatientSearchKey(base), PatientSearchKey(otherPage))
	})

	t.Run("lives under the patient prefix", func(t *testing.T) {
		key := PatientSearchKey(&entity.PatientFilter{Search: "budi"})
		assert.True(t, strings.HasPrefix(key, PatientKeyPrefix))
	})
}

func TestPatientKeysShareInvalidationPrefix(t *testing.T) {
	id := uuid.New()

	keys := []string{
		PatientDetailKey(id),
		PatientByNIKKey("3174012345678901"),
		PatientByRecordNumberKey("20250115-001"),
		PatientListKey(1, 10),
		PatientByDoctorKey(id),
		PatientStatsKey(),
	}
	for _, key := range keys {
		assert.True(t, strings.HasPrefix(key, PatientKeyPrefix), key)
	}
}
