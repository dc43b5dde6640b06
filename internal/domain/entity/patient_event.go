package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyEventPatient = errors.New("patient event requires a patient id and record number")

// PatientEvent is a named domain event with a fixed set of fields, one
// variant per lifecycle transition. Constructors validate the payload so
// downstream consumers never see a partially filled event.
type PatientEvent struct {
	Kind                PatientEventKind `json:"kind"`
	PatientID           uuid.UUID        `json:"patient_id"`
	MedicalRecordNumber string           `json:"medical_record_number"`
	ActorID             *uuid.UUID       `json:"actor_id,omitempty"`
	OccurredAt          time.Time        `json:"occurred_at"`

	// ChangedFields is set on update events only.
	ChangedFields []string `json:"changed_fields,omitempty"`
}

type PatientEventKind string

const (
	PatientCreated  PatientEventKind = "patient.created"
	PatientUpdated  PatientEventKind = "patient.updated"
	PatientDeleted  PatientEventKind = "patient.deleted"
	PatientRestored PatientEventKind = "patient.restored"
	PatientPurged   PatientEventKind = "patient.purged"
)

// AuditAction maps the event kind onto the persisted audit action name.
func (k PatientEventKind) AuditAction() string {
	switch k {
	case PatientCreated:
		return AuditActionPatientCreate
	case PatientUpdated:
		return AuditActionPatientUpdate
	case PatientDeleted:
		return AuditActionPatientDelete
	case PatientRestored:
		return AuditActionPatientRestore
	case PatientPurged:
		return AuditActionPatientPurge
	}
	return string(k)
}

func newPatientEvent(kind PatientEventKind, p *Patient, actorID *uuid.UUID) (*PatientEvent, error) {
	if p == nil || p.ID == uuid.Nil || p.MedicalRecordNumber == "" {
		return nil, ErrEmptyEventPatient
	}
	return &PatientEvent{
		Kind:                kind,
		PatientID:           p.ID,
		MedicalRecordNumber: p.MedicalRecordNumber,
		ActorID:             actorID,
		OccurredAt:          time.Now(),
	}, nil
}

func NewPatientCreatedEvent(p *Patient, actorID *uuid.UUID) (*PatientEvent, error) {
	return newPatientEvent(PatientCreated, p, actorID)
}

func NewPatientUpdatedEvent(p *Patient, actorID *uuid.UUID, changed []string) (*PatientEvent, error) {
	ev, err := newPatientEvent(PatientUpdated, p, actorID)
	if err != nil {
		return nil, err
	}
	ev.ChangedFields = changed
	return ev, nil
}

func NewPatientDeletedEvent(p *Patient, actorID *uuid.UUID) (*PatientEvent, error) {
	return newPatientEvent(PatientDeleted, p, actorID)
}

func NewPatientRestoredEvent(p *Patient, actorID *uuid.UUID) (*PatientEvent, error) {
	return newPatientEvent(PatientRestored, p, actorID)
}

func NewPatientPurgedEvent(p *Patient, actorID *uuid.UUID) (*PatientEvent, error) {
	return newPatientEvent(PatientPurged, p, actorID)
}
