package repository

import (
	"time"

	"cabinet-medical-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	// FindOwned returns the patient only if it belongs to the given medecin.
	FindOwned(db *gorm.DB, id, medecinID uuid.UUID) (*entity.Patient, error)
	FindByMedecin(db *gorm.DB, medecinID uuid.UUID) ([]entity.Patient, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Delete(db *gorm.DB, id, medecinID uuid.UUID) (int64, error)
	CountSeenSince(db *gorm.DB, medecinID uuid.UUID, since time.Time) (int64, error)
}
