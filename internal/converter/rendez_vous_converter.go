package converter

import (
	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/domain/entity"

	"github.com/google/uuid"
)

// RendezVousToResponse converts a RendezVous entity to RendezVousResponse DTO
func RendezVousToResponse(rendezVous *entity.RendezVous) *dto.RendezVousResponse {
	if rendezVous == nil {
		return nil
	}

	response := &dto.RendezVousResponse{
		ID:            rendezVous.ID,
		Date:          rendezVous.Date,
		State:         string(rendezVous.State),
		ArrivalTime:   rendezVous.ArrivalTime,
		StartTime:     rendezVous.StartTime,
		EndTime:       rendezVous.EndTime,
		Paid:          rendezVous.Paid,
		Note:          rendezVous.Note,
		Poids:         rendezVous.Weight,
		PCM:           rendezVous.PCM,
		IMC:           rendezVous.BMI,
		Pulse:         rendezVous.Pulse,
		PaSystolique:  rendezVous.BPSystolic,
		PaDiastolique: rendezVous.BPDiastolic,
		MedecinID:     rendezVous.MedecinID,
		PatientID:     rendezVous.PatientID,
		CreatedAt:     rendezVous.CreatedAt,
	}

	// Include patient info if preloaded
	if rendezVous.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&rendezVous.Patient)
	}

	return response
}

// RendezVousToResponses converts a slice of RendezVous entities to response DTOs
func RendezVousToResponses(rendezVous []entity.RendezVous) []dto.RendezVousResponse {
	responses := make([]dto.RendezVousResponse, len(rendezVous))
	for i, rv := range rendezVous {
		resp := RendezVousToResponse(&rv)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
