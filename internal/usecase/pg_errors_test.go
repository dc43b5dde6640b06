package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_patients_nik"}

	assert.True(t, isDuplicateKeyError(dup, "nik"))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("create patient: %w", dup), "nik"))

	// Constraint name matching is case-insensitive.
	assert.True(t, isDuplicateKeyError(dup, "NIK"))

	assert.False(t, isDuplicateKeyError(dup, "email"))
	assert.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503", ConstraintName: "idx_patients_nik"}, "nik"))
	assert.False(t, isDuplicateKeyError(errors.New("nik"), "nik"))
	assert.False(t, isDuplicateKeyError(nil, "nik"))
}

func TestIsForeignKeyError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_appointments_treatment"}

	assert.True(t, isForeignKeyError(fk, "treatment"))
	assert.False(t, isForeignKeyError(fk, "patient"))
	assert.False(t, isForeignKeyError(&pgconn.PgError{Code: "23505", ConstraintName: "fk_appointments_treatment"}, "treatment"))
	assert.False(t, isForeignKeyError(nil, "treatment"))
}
