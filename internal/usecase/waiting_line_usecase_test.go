package usecase

import (
	"context"
	"testing"
	"time"

	"cabinet-medical-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot_OrdersWaitingByArrival(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	arrive := func(h, m int) *time.Time {
		ts := time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
		return &ts
	}

	current := &entity.RendezVous{
		ID:        uuid.New(),
		Date:      day,
		State:     entity.StateInProgress,
		StartTime: arrive(9, 0),
		Patient:   entity.Patient{ID: uuid.New(), FullName: "Hassan Alaoui"},
	}
	waiting := []entity.RendezVous{
		{ID: uuid.New(), Date: day, State: entity.StateWaiting, ArrivalTime: arrive(8, 45), Patient: entity.Patient{ID: uuid.New(), FullName: "Amina Berrada"}},
		{ID: uuid.New(), Date: day, State: entity.StateWaiting, ArrivalTime: arrive(9, 5), Patient: entity.Patient{ID: uuid.New(), FullName: "Karim Idrissi"}},
		{ID: uuid.New(), Date: day, State: entity.StateWaiting, ArrivalTime: arrive(9, 20), Patient: entity.Patient{ID: uuid.New(), FullName: "Salma Tazi"}},
	}

	rvRepo := &fakeRendezVousRepo{
		findCurrentFn: func(d time.Time) (*entity.RendezVous, error) { return current, nil },
		findWaitingFn: func(d time.Time) ([]entity.RendezVous, error) { return waiting, nil },
	}

	db, mock := newTestDB(t)
	uc := NewWaitingLineUsecase(db, testLogger(), rvRepo).(*waitingLineUsecase)
	uc.now = func() time.Time { return testClock }

	mock.ExpectBegin()
	mock.ExpectRollback()

	snapshot, err := uc.BuildSnapshot(context.Background())
	require.NoError(t, err)

	require.NotNil(t, snapshot.Current)
	assert.Equal(t, "Hassan Alaoui", snapshot.Current.FullName)
	assert.Equal(t, current.StartTime, snapshot.Current.AppointmentTime)

	require.Len(t, snapshot.Waiting, 3)
	assert.Equal(t, snapshot.TotalWaiting, len(snapshot.Waiting))
	assert.Equal(t, "Amina Berrada", snapshot.Waiting[0].FullName)
	assert.Equal(t, "Karim Idrissi", snapshot.Waiting[1].FullName)
	assert.Equal(t, "Salma Tazi", snapshot.Waiting[2].FullName)
	for i, entry := range snapshot.Waiting {
		assert.Equal(t, i+1, entry.Position)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildSnapshot_EmptyLine(t *testing.T) {
	db, mock := newTestDB(t)
	uc := NewWaitingLineUsecase(db, testLogger(), &fakeRendezVousRepo{}).(*waitingLineUsecase)
	uc.now = func() time.Time { return testClock }

	mock.ExpectBegin()
	mock.ExpectRollback()

	snapshot, err := uc.BuildSnapshot(context.Background())
	require.NoError(t, err)

	assert.Nil(t, snapshot.Current)
	assert.Empty(t, snapshot.Waiting)
	assert.Equal(t, 0, snapshot.TotalWaiting)
	assert.Equal(t, testClock, snapshot.Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildSnapshot_CurrentFallsBackToArrivalTime(t *testing.T) {
	arrival := time.Date(2025, 3, 10, 8, 50, 0, 0, time.UTC)
	current := &entity.RendezVous{
		ID:          uuid.New(),
		State:       entity.StateInProgress,
		ArrivalTime: &arrival,
		Patient:     entity.Patient{ID: uuid.New(), FullName: "Hassan Alaoui"},
	}

	rvRepo := &fakeRendezVousRepo{
		findCurrentFn: func(d time.Time) (*entity.RendezVous, error) { return current, nil },
	}

	db, mock := newTestDB(t)
	uc := NewWaitingLineUsecase(db, testLogger(), rvRepo).(*waitingLineUsecase)
	uc.now = func() time.Time { return testClock }

	mock.ExpectBegin()
	mock.ExpectRollback()

	snapshot, err := uc.BuildSnapshot(context.Background())
	require.NoError(t, err)

	require.NotNil(t, snapshot.Current)
	assert.Equal(t, &arrival, snapshot.Current.AppointmentTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStats_TotalsAllStates(t *testing.T) {
	rvRepo := &fakeRendezVousRepo{
		countByStateFn: func(d time.Time) (map[entity.RendezVousState]int64, error) {
			return map[entity.RendezVousState]int64{
				entity.StateScheduled:  4,
				entity.StateWaiting:    2,
				entity.StateInProgress: 1,
				entity.StateCompleted:  6,
				entity.StateCancelled:  1,
			}, nil
		},
	}

	db, _ := newTestDB(t)
	uc := NewWaitingLineUsecase(db, testLogger(), rvRepo).(*waitingLineUsecase)
	uc.now = func() time.Time { return testClock }

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Scheduled)
	assert.Equal(t, int64(2), stats.Waiting)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(6), stats.Completed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(14), stats.Total)
}
