package repository

import (
	"cabinet-medical-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedecinRepository interface {
	Create(db *gorm.DB, medecin *entity.Medecin) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Medecin, error)
	FindByEmail(db *gorm.DB, email string) (*entity.Medecin, error)
}
