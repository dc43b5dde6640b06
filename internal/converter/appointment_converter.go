package converter

import (
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse flattens preloaded relations into display names
// when they are present.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		DoctorID:    appointment.DoctorID,
		TreatmentID: appointment.TreatmentID,
		ScheduledAt: appointment.ScheduledAt,
		Status:      string(appointment.Status),
		Complaint:   appointment.Complaint,
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}

	if appointment.Patient.ID != uuid.Nil {
		response.PatientName = appointment.Patient.FullName
	}
	if appointment.Doctor != nil {
		response.DoctorName = appointment.Doctor.User.FullName
	}
	if appointment.Treatment != nil {
		response.TreatmentName = appointment.Treatment.Name
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i]))
	}
	return responses
}
