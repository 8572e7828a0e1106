package converter

import (
	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/domain/entity"
)

// MedecinToResponse converts a Medecin entity to MedecinResponse DTO
func MedecinToResponse(medecin *entity.Medecin) *dto.MedecinResponse {
	if medecin == nil {
		return nil
	}

	return &dto.MedecinResponse{
		ID:          medecin.ID,
		Email:       medecin.Email,
		FullName:    medecin.FullName,
		Speciality:  medecin.Speciality,
		PhoneNumber: medecin.PhoneNumber,
		Bio:         medecin.Bio,
		Price:       medecin.Price,
		CreatedAt:   medecin.CreatedAt,
	}
}
