package converter

import (
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO.
// Age is derived from the birth date at conversion time.
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:                  patient.ID,
		MedicalRecordNumber: patient.MedicalRecordNumber,
		FullName:            patient.FullName,
		Gender:              patient.Gender,
		PhoneNumber:         patient.PhoneNumber,
		Address:             patient.Address,
		IsActive:            patient.IsActive,
		AllergyNotes:        patient.AllergyNotes,
		CreatedAt:           patient.CreatedAt,
		UpdatedAt:           patient.UpdatedAt,
	}

	if patient.NIK != nil {
		response.NIK = *patient.NIK
	}
	if patient.Email != nil {
		response.Email = *patient.Email
	}
	if patient.BirthDate != nil {
		response.BirthDate = patient.BirthDate.Format("2006-01-02")
		age := ageAt(*patient.BirthDate, time.Now())
		response.Age = &age
	}

	return response
}

// PatientsToPage converts a result slice plus its total count into a
// cacheable page.
func PatientsToPage(patients []entity.Patient, total int64) *dto.PatientPage {
	page := &dto.PatientPage{
		Patients: make([]dto.PatientResponse, 0, len(patients)),
		Total:    total,
	}
	for i := range patients {
		page.Patients = append(page.Patients, *PatientToResponse(&patients[i]))
	}
	return page
}

func ageAt(birthDate, at time.Time) int {
	age := at.Year() - birthDate.Year()
	if at.Month() < birthDate.Month() ||
		(at.Month() == birthDate.Month() && at.Day() < birthDate.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
