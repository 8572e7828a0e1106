package repository

import (
	"time"

	"cabinet-medical-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsultationOutcome carries the fields persisted when a consultation is
// completed. Nil pointers are written as NULL.
type ConsultationOutcome struct {
	Paid        decimal.Decimal
	Note        *string
	Weight      *float64
	PCM         *float64
	BMI         *float64
	Pulse       *int
	BPSystolic  *int
	BPDiastolic *int
}

// RendezVousRepository is the only legitimate writer of state, arrival_time,
// start_time and end_time. Transition methods are conditional UPDATEs: the
// guard and the write are one statement, so a zero RowsAffected result means
// the guard failed and nothing was changed.
type RendezVousRepository interface {
	Create(db *gorm.DB, rendezVous *entity.RendezVous) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.RendezVous, error)

	// MarkWaiting transitions Scheduled -> Waiting for an appointment dated
	// exactly day, stamping arrival_time.
	MarkWaiting(db *gorm.DB, id uuid.UUID, day time.Time, arrivedAt time.Time) (int64, error)
	// MarkInProgress transitions Waiting -> InProgress, stamping start_time.
	// The partial unique index on (medecin_id, date) WHERE state='InProgress'
	// rejects a second concurrent consultation for the same medecin.
	MarkInProgress(db *gorm.DB, id uuid.UUID, day time.Time, startedAt time.Time) (int64, error)
	// Complete transitions InProgress -> Completed for the owning medecin,
	// stamping end_time and persisting the outcome.
	Complete(db *gorm.DB, id, medecinID uuid.UUID, day time.Time, endedAt time.Time, outcome *ConsultationOutcome) (int64, error)
	// SweepExpired cancels every Scheduled appointment dated strictly before
	// today. Idempotent.
	SweepExpired(db *gorm.DB, today time.Time) (int64, error)

	FindCurrentInProgress(db *gorm.DB, day time.Time) (*entity.RendezVous, error)
	FindWaiting(db *gorm.DB, day time.Time) ([]entity.RendezVous, error)
	CountByStateForDay(db *gorm.DB, day time.Time) (map[entity.RendezVousState]int64, error)

	FindForDayByMedecin(db *gorm.DB, medecinID uuid.UUID, day time.Time) ([]entity.RendezVous, error)
	FindCompletedByMedecin(db *gorm.DB, medecinID uuid.UUID) ([]entity.RendezVous, error)
	FindNextForPatient(db *gorm.DB, patientID, medecinID uuid.UUID) (*entity.RendezVous, error)
	FindScheduledForDay(db *gorm.DB, day time.Time) ([]entity.RendezVous, error)

	SumPaidBetween(db *gorm.DB, medecinID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	AveragePaid(db *gorm.DB, medecinID uuid.UUID) (decimal.Decimal, error)
}
