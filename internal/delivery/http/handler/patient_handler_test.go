package handler

import (
	"net/http/httptest"
	"testing"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatientFilter(t *testing.T) {
	t.Run("builds the filter from query parameters", func(t *testing.T) {
		doctorID := uuid.New()
		r := httptest.NewRequest("GET", "/patients/search?search=budi&gender=M&min_age=18&max_age=60&doctor_id="+doctorID.String()+"&is_active=true&page=2&limit=20", nil)

		filter, err := parsePatientFilter(r)

		require.NoError(t, err)
		assert.Equal(t, "budi", filter.Search)
		assert.Equal(t, entity.GenderMale, filter.Gender)
		require.NotNil(t, filter.MinAge)
		assert.Equal(t, 18, *filter.MinAge)
		require.NotNil(t, filter.MaxAge)
		assert.Equal(t, 60, *filter.MaxAge)
		require.NotNil(t, filter.DoctorID)
		assert.Equal(t, doctorID, *filter.DoctorID)
		require.NotNil(t, filter.IsActive)
		assert.True(t, *filter.IsActive)
		assert.Equal(t, 2, filter.Page)
		assert.Equal(t, 20, filter.Limit)
	})

	t.Run("rejects a malformed doctor_id as a validation failure", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/patients/search?doctor_id=not-a-uuid", nil)

		_, err := parsePatientFilter(r)

		assert.ErrorIs(t, err, errInvalidDoctorID)
	})

	t.Run("rejects a non-numeric age bound", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/patients/search?min_age=abc", nil)

		_, err := parsePatientFilter(r)

		assert.ErrorIs(t, err, entity.ErrNegativeAge)
	})

	t.Run("leaves absent optional filters unset", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/patients/search", nil)

		filter, err := parsePatientFilter(r)

		require.NoError(t, err)
		assert.Nil(t, filter.MinAge)
		assert.Nil(t, filter.MaxAge)
		assert.Nil(t, filter.DoctorID)
		assert.Nil(t, filter.IsActive)
	})
}
