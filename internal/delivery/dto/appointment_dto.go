package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID   string `json:"patient_id" validate:"required,uuid"`
	DoctorID    string `json:"doctor_id" validate:"required,uuid"`
	TreatmentID string `json:"treatment_id" validate:"omitempty,uuid"`
	ScheduledAt string `json:"scheduled_at" validate:"required"` // RFC 3339
	Complaint   string `json:"complaint" validate:"omitempty"`
}

type UpdateAppointmentRequest struct {
	TreatmentID *string `json:"treatment_id" validate:"omitempty,uuid"`
	ScheduledAt *string `json:"scheduled_at" validate:"omitempty"`
	Status      *string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Complaint   *string `json:"complaint" validate:"omitempty"`
}

// Response DTOs

type AppointmentResponse struct {
	ID            uuid.UUID          `json:"id"`
	PatientID     uuid.UUID          `json:"patient_id"`
	PatientName   string             `json:"patient_name,omitempty"`
	DoctorID      uuid.UUID          `json:"doctor_id"`
	DoctorName    string             `json:"doctor_name,omitempty"`
	TreatmentID   *uuid.UUID         `json:"treatment_id,omitempty"`
	TreatmentName string             `json:"treatment_name,omitempty"`
	ScheduledAt   time.Time          `json:"scheduled_at"`
	Status        string             `json:"status"`
	Complaint     string             `json:"complaint,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
