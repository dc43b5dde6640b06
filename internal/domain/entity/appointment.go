package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus lifecycle: scheduled -> completed | cancelled
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment links a patient to a doctor for a treatment at a point in
// time. The patient-by-doctor search joins through this relation.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	TreatmentID *uuid.UUID        `gorm:"type:uuid;index" json:"treatment_id,omitempty"`
	ScheduledAt time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Complaint   string            `gorm:"type:text" json:"complaint,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor    *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Treatment *Treatment     `gorm:"foreignKey:TreatmentID" json:"treatment,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentFilter is a domain-level filter for querying appointments.
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    AppointmentStatus
	StartAt   string // YYYY-MM-DD
	EndAt     string // YYYY-MM-DD
	Page      int
	Limit     int
}
