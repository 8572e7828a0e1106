package converter

import (
	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/domain/entity"
	"cabinet-medical-api/pkg/vitals"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO,
// enriched with the derived BMI and body surface area.
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	var heightCm *float64
	if patient.Height != nil {
		h := float64(*patient.Height)
		heightCm = &h
	}

	return &dto.PatientResponse{
		ID:               patient.ID,
		FullName:         patient.FullName,
		PhoneNumber:      patient.PhoneNumber,
		Gender:           patient.Gender,
		Poids:            patient.Weight,
		Taille:           patient.Height,
		DateOfBirth:      patient.DateOfBirth,
		Bio:              patient.Bio,
		MaladieChronique: patient.ChronicDisease,
		IMC:              vitals.BMI(patient.Weight, heightCm),
		BSA:              vitals.BSA(patient.Weight, heightCm),
		CreatedAt:        patient.CreatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to response DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i, patient := range patients {
		resp := PatientToResponse(&patient)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
