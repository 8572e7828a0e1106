package repository

import (
	"cabinet-medical-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BiologicalRequestRepository interface {
	Create(db *gorm.DB, request *entity.BiologicalRequest) error
	FindOwned(db *gorm.DB, id int64, medecinID uuid.UUID) (*entity.BiologicalRequest, error)
	FindByPatient(db *gorm.DB, patientID, medecinID uuid.UUID) ([]entity.BiologicalRequest, error)
	Update(db *gorm.DB, request *entity.BiologicalRequest) error
}
