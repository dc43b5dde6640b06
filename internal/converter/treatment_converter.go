package converter

import (
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
)

func TreatmentToResponse(treatment *entity.Treatment) *dto.TreatmentResponse {
	if treatment == nil {
		return nil
	}

	return &dto.TreatmentResponse{
		ID:          treatment.ID,
		Name:        treatment.Name,
		Description: treatment.Description,
		Price:       treatment.Price,
		IsActive:    treatment.IsActive,
		CreatedAt:   treatment.CreatedAt,
		UpdatedAt:   treatment.UpdatedAt,
	}
}

func TreatmentsToResponses(treatments []entity.Treatment) []dto.TreatmentResponse {
	responses := make([]dto.TreatmentResponse, 0, len(treatments))
	for i := range treatments {
		responses = append(responses, *TreatmentToResponse(&treatments[i]))
	}
	return responses
}
