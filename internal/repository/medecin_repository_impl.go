package repository

import (
	"errors"

	"cabinet-medical-api/internal/domain/entity"
	domainRepo "cabinet-medical-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medecinRepository struct{}

func NewMedecinRepository() domainRepo.MedecinRepository {
	return &medecinRepository{}
}

func (r *medecinRepository) Create(db *gorm.DB, medecin *entity.Medecin) error {
	return db.Create(medecin).Error
}

func (r *medecinRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Medecin, error) {
	var medecin entity.Medecin
	err := db.Where("id = ?", id).First(&medecin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medecin, nil
}

func (r *medecinRepository) FindByEmail(db *gorm.DB, email string) (*entity.Medecin, error) {
	var medecin entity.Medecin
	err := db.Where("email = ?", email).First(&medecin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medecin, nil
}
