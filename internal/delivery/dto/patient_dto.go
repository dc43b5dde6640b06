package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	NIK          string `json:"nik" validate:"omitempty,len=16,numeric"`
	FullName     string `json:"full_name" validate:"required,min=2,max=255"`
	BirthDate    string `json:"birth_date" validate:"omitempty"` // Format: YYYY-MM-DD
	Gender       string `json:"gender" validate:"required,oneof=M F"`
	PhoneNumber  string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email        string `json:"email" validate:"omitempty,email"`
	Address      string `json:"address" validate:"omitempty"`
	AllergyNotes string `json:"allergy_notes" validate:"omitempty"`
}

// UpdatePatientRequest uses pointers so an absent field is distinguishable
// from an explicit empty value.
type UpdatePatientRequest struct {
	NIK          *string `json:"nik" validate:"omitempty,len=16,numeric"`
	FullName     *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	BirthDate    *string `json:"birth_date" validate:"omitempty"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=M F"`
	PhoneNumber  *string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Address      *string `json:"address" validate:"omitempty"`
	AllergyNotes *string `json:"allergy_notes" validate:"omitempty"`
	IsActive     *bool   `json:"is_active" validate:"omitempty"`
}

// SearchPatientRequest mirrors the query parameters of GET /patients/search.
type SearchPatientRequest struct {
	Search     string `json:"search"`
	Gender     string `json:"gender" validate:"omitempty,oneof=M F"`
	MinAge     *int   `json:"min_age"`
	MaxAge     *int   `json:"max_age"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DoctorID   string `json:"doctor_id" validate:"omitempty,uuid"`
	IsActive   *bool  `json:"is_active"`
	NewOnly    bool   `json:"new_only"`
	HasAllergy bool   `json:"has_allergy"`
	SortBy     string `json:"sort_by"`
	SortDir    string `json:"sort_dir"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// Response DTOs

type PatientResponse struct {
	ID                  uuid.UUID `json:"id"`
	MedicalRecordNumber string    `json:"medical_record_number"`
	NIK                 string    `json:"nik,omitempty"`
	FullName            string    `json:"full_name"`
	BirthDate           string    `json:"birth_date,omitempty"`
	Age                 *int      `json:"age,omitempty"`
	Gender              string    `json:"gender"`
	PhoneNumber         string    `json:"phone_number,omitempty"`
	Email               string    `json:"email,omitempty"`
	Address             string    `json:"address,omitempty"`
	IsActive            *bool     `json:"is_active"`
	AllergyNotes        string    `json:"allergy_notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PatientPage is a cached page of patient responses with its total count.
type PatientPage struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
}
