package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMedicalRecordRequest struct {
	PatientID     string `json:"patient_id" validate:"required,uuid"`
	AppointmentID string `json:"appointment_id" validate:"omitempty,uuid"`
	Diagnosis     string `json:"diagnosis" validate:"required"`
	Treatment     string `json:"treatment" validate:"omitempty"`
	Prescription  string `json:"prescription" validate:"omitempty"`
	Notes         string `json:"notes" validate:"omitempty"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis    *string `json:"diagnosis" validate:"omitempty"`
	Treatment    *string `json:"treatment" validate:"omitempty"`
	Prescription *string `json:"prescription" validate:"omitempty"`
	Notes        *string `json:"notes" validate:"omitempty"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Diagnosis     string     `json:"diagnosis"`
	Treatment     string     `json:"treatment,omitempty"`
	Prescription  string     `json:"prescription,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
