package repository

import (
	"errors"
	"time"

	"cabinet-medical-api/internal/domain/entity"
	domainRepo "cabinet-medical-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindOwned(db *gorm.DB, id, medecinID uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ? AND medecin_id = ?", id, medecinID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByMedecin(db *gorm.DB, medecinID uuid.UUID) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.Where("medecin_id = ?", medecinID).
		Order("created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Save(patient).Error
}

func (r *patientRepository) Delete(db *gorm.DB, id, medecinID uuid.UUID) (int64, error) {
	result := db.Where("id = ? AND medecin_id = ?", id, medecinID).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}

// CountSeenSince counts distinct patients with a completed consultation since
// the given time, for the dashboard.
func (r *patientRepository) CountSeenSince(db *gorm.DB, medecinID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.RendezVous{}).
		Where("medecin_id = ? AND state = ? AND date >= ?", medecinID, entity.StateCompleted, since).
		Distinct("patient_id").
		Count(&count).Error
	return count, err
}
