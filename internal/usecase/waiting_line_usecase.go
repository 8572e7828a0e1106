package usecase

import (
	"context"
	"database/sql"
	"time"

	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/domain/entity"
	"cabinet-medical-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WaitingLineUsecase derives the public queue view. Snapshots are computed
// fresh from the store on every call inside a read-only transaction, so the
// current patient and the waiting list always reflect the same instant.
type WaitingLineUsecase interface {
	BuildSnapshot(ctx context.Context) (*dto.WaitingLineSnapshot, error)
	Stats(ctx context.Context) (*dto.WaitingLineStats, error)
}

type waitingLineUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	rendezVousRepo repository.RendezVousRepository
	now            func() time.Time
}

func NewWaitingLineUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rendezVousRepo repository.RendezVousRepository,
) WaitingLineUsecase {
	return &waitingLineUsecase{
		db:             db,
		log:            log,
		rendezVousRepo: rendezVousRepo,
		now:            time.Now,
	}
}

func (u *waitingLineUsecase) BuildSnapshot(ctx context.Context) (*dto.WaitingLineSnapshot, error) {
	now := u.now()
	today := dateOnly(now)

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{ReadOnly: true})
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	current, err := u.rendezVousRepo.FindCurrentInProgress(tx, today)
	if err != nil {
		u.log.Warnf("Failed to query current consultation: %+v", err)
		return nil, err
	}

	waiting, err := u.rendezVousRepo.FindWaiting(tx, today)
	if err != nil {
		u.log.Warnf("Failed to query waiting list: %+v", err)
		return nil, err
	}

	snapshot := &dto.WaitingLineSnapshot{
		Waiting:      make([]dto.WaitingLineEntry, 0, len(waiting)),
		TotalWaiting: len(waiting),
		Timestamp:    now,
	}

	if current != nil {
		appointmentTime := current.StartTime
		if appointmentTime == nil {
			appointmentTime = current.ArrivalTime
		}
		snapshot.Current = &dto.WaitingLineEntry{
			ID:              current.ID,
			FullName:        current.Patient.FullName,
			PatientID:       current.PatientID,
			AppointmentTime: appointmentTime,
		}
	}

	for i, rendezVous := range waiting {
		snapshot.Waiting = append(snapshot.Waiting, dto.WaitingLineEntry{
			ID:              rendezVous.ID,
			FullName:        rendezVous.Patient.FullName,
			PatientID:       rendezVous.PatientID,
			AppointmentTime: rendezVous.ArrivalTime,
			Position:        i + 1,
		})
	}

	return snapshot, nil
}

func (u *waitingLineUsecase) Stats(ctx context.Context) (*dto.WaitingLineStats, error) {
	now := u.now()
	today := dateOnly(now)

	counts, err := u.rendezVousRepo.CountByStateForDay(u.db.WithContext(ctx), today)
	if err != nil {
		u.log.Warnf("Failed to count rendez-vous by state: %+v", err)
		return nil, err
	}

	stats := &dto.WaitingLineStats{
		Scheduled:  counts[entity.StateScheduled],
		Waiting:    counts[entity.StateWaiting],
		InProgress: counts[entity.StateInProgress],
		Completed:  counts[entity.StateCompleted],
		Cancelled:  counts[entity.StateCancelled],
		Timestamp:  now,
	}
	stats.Total = stats.Scheduled + stats.Waiting + stats.InProgress + stats.Completed + stats.Cancelled

	return stats, nil
}
