package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is the clinical note a doctor writes against an
// appointment: diagnosis, treatment performed, and prescription.
type MedicalRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Diagnosis     string     `gorm:"type:text;not null" json:"diagnosis"`
	Treatment     string     `gorm:"type:text" json:"treatment,omitempty"`
	Prescription  string     `gorm:"type:text" json:"prescription,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor      *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Appointment *Appointment   `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
