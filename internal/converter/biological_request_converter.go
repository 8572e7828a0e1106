package converter

import (
	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/domain/entity"
)

// Wire labels the frontend expects for biological request statuses.
const (
	BiologicalStatusLabelPending   = "En cours"
	BiologicalStatusLabelCompleted = "Complété"
)

// BiologicalStatusToLabel maps the stored enum to its display label.
func BiologicalStatusToLabel(status entity.BiologicalRequestStatus) string {
	if status == entity.BiologicalStatusCompleted {
		return BiologicalStatusLabelCompleted
	}
	return BiologicalStatusLabelPending
}

// BiologicalLabelToStatus maps a display label back to the stored enum.
func BiologicalLabelToStatus(label string) entity.BiologicalRequestStatus {
	if label == BiologicalStatusLabelCompleted {
		return entity.BiologicalStatusCompleted
	}
	return entity.BiologicalStatusPending
}

// BiologicalRequestToResponse converts a BiologicalRequest entity to its DTO
func BiologicalRequestToResponse(request *entity.BiologicalRequest) *dto.BiologicalRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.BiologicalRequestResponse{
		ID:             request.ID,
		PatientID:      request.PatientID,
		SampleTypes:    []string(request.SampleTypes),
		RequestedExams: []string(request.RequestedExams),
		Status:         BiologicalStatusToLabel(request.Status),
		Results:        map[string]interface{}(request.Results),
		SamplingDate:   request.SamplingDate,
		CreatedAt:      request.CreatedAt,
		UpdatedAt:      request.UpdatedAt,
	}
}

// BiologicalRequestsToResponses converts a slice of entities to response DTOs
func BiologicalRequestsToResponses(requests []entity.BiologicalRequest) []dto.BiologicalRequestResponse {
	responses := make([]dto.BiologicalRequestResponse, len(requests))
	for i, request := range requests {
		resp := BiologicalRequestToResponse(&request)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
