package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordNumberPrefix(t *testing.T) {
	day := time.Date(2025, 1, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "20250115-", RecordNumberPrefix(day))
}

func TestFormatRecordNumber(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("zero-pads the sequence to three digits", func(t *testing.T) {
		assert.Equal(t, "20250115-001", FormatRecordNumber(day, 1))
		assert.Equal(t, "20250115-042", FormatRecordNumber(day, 42))
		assert.Equal(t, "20250115-999", FormatRecordNumber(day, 999))
	})

	t.Run("grows past three digits without truncating", func(t *testing.T) {
		assert.Equal(t, "20250115-1000", FormatRecordNumber(day, 1000))
	})
}

func TestNextRecordNumber(t *testing.T) {
	day := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	t.Run("starts at 001 when the day has no records", func(t *testing.T) {
		number, err := NextRecordNumber("", day)
		assert.NoError(t, err)
		assert.Equal(t, "20250115-001", number)
	})

	t.Run("increments the latest sequence", func(t *testing.T) {
		number, err := NextRecordNumber("20250115-041", day)
		assert.NoError(t, err)
		assert.Equal(t, "20250115-042", number)
	})

	t.Run("rolls over to four digits after 999", func(t *testing.T) {
		number, err := NextRecordNumber("20250115-999", day)
		assert.NoError(t, err)
		assert.Equal(t, "20250115-1000", number)
	})

	t.Run("rejects a latest value from a different day", func(t *testing.T) {
		_, err := NextRecordNumber("20250114-007", day)
		assert.Error(t, err)
	})

	t.Run("rejects a non-numeric suffix", func(t *testing.T) {
		_, err := NextRecordNumber("20250115-abc", day)
		assert.Error(t, err)
	})
}
