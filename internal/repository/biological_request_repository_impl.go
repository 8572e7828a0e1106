package repository

import (
	"errors"

	"cabinet-medical-api/internal/domain/entity"
	domainRepo "cabinet-medical-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type biologicalRequestRepository struct{}

func NewBiologicalRequestRepository() domainRepo.BiologicalRequestRepository {
	return &biologicalRequestRepository{}
}

func (r *biologicalRequestRepository) Create(db *gorm.DB, request *entity.BiologicalRequest) error {
	return db.Create(request).Error
}

func (r *biologicalRequestRepository) FindOwned(db *gorm.DB, id int64, medecinID uuid.UUID) (*entity.BiologicalRequest, error) {
	var request entity.BiologicalRequest
	err := db.Where("id = ? AND medecin_id = ?", id, medecinID).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *biologicalRequestRepository) FindByPatient(db *gorm.DB, patientID, medecinID uuid.UUID) ([]entity.BiologicalRequest, error) {
	var requests []entity.BiologicalRequest
	err := db.Where("patient_id = ? AND medecin_id = ?", patientID, medecinID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *biologicalRequestRepository) Update(db *gorm.DB, request *entity.BiologicalRequest) error {
	return db.Save(request).Error
}
