package repository

import (
	"errors"
	"time"

	"cabinet-medical-api/internal/domain/entity"
	domainRepo "cabinet-medical-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type rendezVousRepository struct{}

func NewRendezVousRepository() domainRepo.RendezVousRepository {
	return &rendezVousRepository{}
}

func (r *rendezVousRepository) Create(db *gorm.DB, rendezVous *entity.RendezVous) error {
	return db.Create(rendezVous).Error
}

func (r *rendezVousRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.RendezVous, error) {
	var rendezVous entity.RendezVous
	err := db.Preload("Patient").Where("id = ?", id).First(&rendezVous).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rendezVous, nil
}

// MarkWaiting applies the Scheduled -> Waiting transition as a single
// conditional UPDATE. Zero affected rows means the appointment is absent,
// not Scheduled, or not dated today.
func (r *rendezVousRepository) MarkWaiting(db *gorm.DB, id uuid.UUID, day time.Time, arrivedAt time.Time) (int64, error) {
	result := db.Model(&entity.RendezVous{}).
		Where("id = ? AND state = ? AND date = ?", id, entity.StateScheduled, day).
		Updates(map[string]interface{}{
			"state":        entity.StateWaiting,
			"arrival_time": arrivedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *rendezVousRepository) MarkInProgress(db *gorm.DB, id uuid.UUID, day time.Time, startedAt time.Time) (int64, error) {
	result := db.Model(&entity.RendezVous{}).
		Where("id = ? AND state = ? AND date = ?", id, entity.StateWaiting, day).
		Updates(map[string]interface{}{
			"state":      entity.StateInProgress,
			"start_time": startedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *rendezVousRepository) Complete(db *gorm.DB, id, medecinID uuid.UUID, day time.Time, endedAt time.Time, outcome *domainRepo.ConsultationOutcome) (int64, error) {
	updates := map[string]interface{}{
		"state":        entity.StateCompleted,
		"end_time":     endedAt,
		"paid":         outcome.Paid,
		"note":         outcome.Note,
		"weight":       outcome.Weight,
		"pcm":          outcome.PCM,
		"bmi":          outcome.BMI,
		"pulse":        outcome.Pulse,
		"bp_systolic":  outcome.BPSystolic,
		"bp_diastolic": outcome.BPDiastolic,
	}

	result := db.Model(&entity.RendezVous{}).
		Where("id = ? AND medecin_id = ? AND state = ? AND date = ?", id, medecinID, entity.StateInProgress, day).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *rendezVousRepository) SweepExpired(db *gorm.DB, today time.Time) (int64, error) {
	result := db.Model(&entity.RendezVous{}).
		Where("state = ? AND date < ?", entity.StateScheduled, today).
		Update("state", entity.StateCancelled)
	return result.RowsAffected, result.Error
}

func (r *rendezVousRepository) FindCurrentInProgress(db *gorm.DB, day time.Time) (*entity.RendezVous, error) {
	var rendezVous entity.RendezVous
	err := db.Preload("Patient").
		Where("date = ? AND state = ?", day, entity.StateInProgress).
		Order("start_time ASC").
		First(&rendezVous).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rendezVous, nil
}

func (r *rendezVousRepository) FindWaiting(db *gorm.DB, day time.Time) ([]entity.RendezVous, error) {
	var waiting []entity.RendezVous
	err := db.Preload("Patient").
		Where("date = ? AND state = ?", day, entity.StateWaiting).
		Order("arrival_time ASC, date ASC").
		Find(&waiting).Error
	if err != nil {
		return nil, err
	}
	return waiting, nil
}

func (r *rendezVousRepository) CountByStateForDay(db *gorm.DB, day time.Time) (map[entity.RendezVousState]int64, error) {
	type stateCount struct {
		State entity.RendezVousState
		Count int64
	}

	var rows []stateCount
	err := db.Model(&entity.RendezVous{}).
		Select("state, count(*) as count").
		Where("date = ?", day).
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.RendezVousState]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}

func (r *rendezVousRepository) FindForDayByMedecin(db *gorm.DB, medecinID uuid.UUID, day time.Time) ([]entity.RendezVous, error) {
	var rendezVous []entity.RendezVous
	err := db.Preload("Patient").
		Where("medecin_id = ? AND date = ?", medecinID, day).
		Order("created_at ASC").
		Find(&rendezVous).Error
	if err != nil {
		return nil, err
	}
	return rendezVous, nil
}

func (r *rendezVousRepository) FindCompletedByMedecin(db *gorm.DB, medecinID uuid.UUID) ([]entity.RendezVous, error) {
	var rendezVous []entity.RendezVous
	err := db.Preload("Patient").
		Where("medecin_id = ? AND state = ?", medecinID, entity.StateCompleted).
		Order("date DESC, end_time DESC").
		Find(&rendezVous).Error
	if err != nil {
		return nil, err
	}
	return rendezVous, nil
}

func (r *rendezVousRepository) FindNextForPatient(db *gorm.DB, patientID, medecinID uuid.UUID) (*entity.RendezVous, error) {
	var rendezVous entity.RendezVous
	err := db.Where("patient_id = ? AND medecin_id = ? AND state IN ?",
		patientID, medecinID,
		[]entity.RendezVousState{entity.StateScheduled, entity.StateWaiting, entity.StateInProgress}).
		Order("date ASC").
		First(&rendezVous).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rendezVous, nil
}

func (r *rendezVousRepository) FindScheduledForDay(db *gorm.DB, day time.Time) ([]entity.RendezVous, error) {
	var rendezVous []entity.RendezVous
	err := db.Preload("Patient").Preload("Medecin").
		Where("date = ? AND state = ?", day, entity.StateScheduled).
		Find(&rendezVous).Error
	if err != nil {
		return nil, err
	}
	return rendezVous, nil
}

func (r *rendezVousRepository) SumPaidBetween(db *gorm.DB, medecinID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.Model(&entity.RendezVous{}).
		Select("COALESCE(SUM(paid), 0)").
		Where("medecin_id = ? AND state = ? AND date >= ? AND date < ?", medecinID, entity.StateCompleted, from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *rendezVousRepository) AveragePaid(db *gorm.DB, medecinID uuid.UUID) (decimal.Decimal, error) {
	var avg decimal.NullDecimal
	err := db.Model(&entity.RendezVous{}).
		Select("COALESCE(AVG(paid), 0)").
		Where("medecin_id = ? AND state = ?", medecinID, entity.StateCompleted).
		Scan(&avg).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal, nil
}
