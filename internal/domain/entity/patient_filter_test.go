package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatientFilterValidate(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	t.Run("accepts an empty filter", func(t *testing.T) {
		f := &PatientFilter{}
		assert.NoError(t, f.Validate())
	})

	t.Run("rejects a negative age bound", func(t *testing.T) {
		f := &PatientFilter{MinAge: intPtr(-1)}
		assert.ErrorIs(t, f.Validate(), ErrNegativeAge)

		f = &PatientFilter{MaxAge: intPtr(-5)}
		assert.ErrorIs(t, f.Validate(), ErrNegativeAge)
	})

	t.Run("rejects min age above max age", func(t *testing.T) {
		f := &PatientFilter{MinAge: intPtr(40), MaxAge: intPtr(30)}
		assert.ErrorIs(t, f.Validate(), ErrInvalidAgeRange)
	})

	t.Run("accepts equal age bounds", func(t *testing.T) {
		f := &PatientFilter{MinAge: intPtr(30), MaxAge: intPtr(30)}
		assert.NoError(t, f.Validate())
	})

	t.Run("rejects a start date after the end date", func(t *testing.T) {
		f := &PatientFilter{StartDate: "2025-02-01", EndDate: "2025-01-01"}
		assert.ErrorIs(t, f.Validate(), ErrInvalidDateRange)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		f := &PatientFilter{StartDate: "01-02-2025", EndDate: "2025-03-01"}
		assert.Error(t, f.Validate())
	})
}

func TestPatientFilterSearchTerm(t *testing.T) {
	t.Run("trims surrounding whitespace", func(t *testing.T) {
		f := &PatientFilter{Search: "  budi  "}
		assert.Equal(t, "budi", f.SearchTerm())
	})

	t.Run("ignores terms shorter than two characters", func(t *testing.T) {
		f := &PatientFilter{Search: " a "}
		assert.Equal(t, "", f.SearchTerm())
	})
}

func TestPatientFilterNormalize(t *testing.T) {
	t.Run("defaults pagination", func(t *testing.T) {
		f := &PatientFilter{}
		f.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 10, f.Limit)
	})

	t.Run("clamps the limit to 100", func(t *testing.T) {
		f := &PatientFilter{Page: 2, Limit: 500}
		f.Normalize()
		assert.Equal(t, 100, f.Limit)
	})

	t.Run("falls back to created_at desc for unknown sort columns", func(t *testing.T) {
		f := &PatientFilter{SortBy: "phone_number", SortDir: "sideways"}
		f.Normalize()
		assert.Equal(t, "created_at", f.SortBy)
		assert.Equal(t, "desc", f.SortDir)
	})

	t.Run("keeps explicit sort columns", func(t *testing.T) {
		f := &PatientFilter{SortBy: "full_name", SortDir: "ASC"}
		f.Normalize()
		assert.Equal(t, "full_name", f.SortBy)
		assert.Equal(t, "asc", f.SortDir)
	})

	t.Run("maps ascending age onto descending birth date", func(t *testing.T) {
		f := &PatientFilter{SortBy: "age", SortDir: "asc"}
		f.Normalize()
		assert.Equal(t, "birth_date", f.SortBy)
		assert.Equal(t, "desc", f.SortDir)
	})

	t.Run("maps descending age onto ascending birth date", func(t *testing.T) {
		f := &PatientFilter{SortBy: "age", SortDir: "desc"}
		f.Normalize()
		assert.Equal(t, "birth_date", f.SortBy)
		assert.Equal(t, "asc", f.SortDir)
	})
}
