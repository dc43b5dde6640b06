package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is the core clinic record. The medical record number is assigned
// once at creation and never changes; NIK and email are unique across
// non-deleted patients (enforced by partial unique indexes).
type Patient struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MedicalRecordNumber string         `gorm:"type:varchar(16);uniqueIndex;not null" json:"medical_record_number"`
	NIK                 *string        `gorm:"type:char(16)" json:"nik,omitempty"`
	FullName            string         `gorm:"type:varchar(255);not null" json:"full_name"`
	BirthDate           *time.Time     `gorm:"type:date" json:"birth_date,omitempty"`
	Gender              string         `gorm:"type:char(1);not null" json:"gender"`
	PhoneNumber         string         `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	Email               *string        `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address             string         `gorm:"type:text" json:"address,omitempty"`
	IsActive            *bool          `gorm:"not null;default:true;index" json:"is_active"`
	AllergyNotes        string         `gorm:"type:text" json:"allergy_notes,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Appointments   []Appointment   `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
	MedicalRecords []MedicalRecord `gorm:"foreignKey:PatientID" json:"medical_records,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// PatientStatistics is an aggregate snapshot over non-deleted patients.
type PatientStatistics struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Inactive     int64 `json:"inactive"`
	Male         int64 `json:"male"`
	Female       int64 `json:"female"`
	NewThisMonth int64 `json:"new_this_month"`
}
