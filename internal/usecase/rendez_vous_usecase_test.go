package usecase

import (
	"testing"
	"time"

	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRendezVous_RejectsPastDate(t *testing.T) {
	db, _ := newTestDB(t)
	uc := NewRendezVousUsecase(db, testLogger(), &fakeRendezVousRepo{}, &fakePatientRepo{}, &fakeAuditService{}).(*rendezVousUsecase)
	uc.now = func() time.Time { return testClock }

	_, err := uc.CreateRendezVous(authCtx(uuid.New()), &dto.CreateRendezVousRequest{
		PatientID:        uuid.New(),
		DateDeRendezVous: "2025-03-09",
	})
	assert.ErrorIs(t, err, ErrNextDateInPast)
}

func TestCreateRendezVous_BooksScheduled(t *testing.T) {
	medecinID := uuid.New()
	patientID := uuid.New()

	var created *entity.RendezVous
	rvRepo := &fakeRendezVousRepo{
		createFn: func(rv *entity.RendezVous) error {
			rv.ID = uuid.New()
			created = rv
			return nil
		},
	}
	patientRepo := &fakePatientRepo{
		findOwnedFn: func(id, mid uuid.UUID) (*entity.Patient, error) {
			return &entity.Patient{ID: id, MedecinID: mid}, nil
		},
	}

	db, mock := newTestDB(t)
	uc := NewRendezVousUsecase(db, testLogger(), rvRepo, patientRepo, &fakeAuditService{}).(*rendezVousUsecase)
	uc.now = func() time.Time { return testClock }

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := uc.CreateRendezVous(authCtx(medecinID), &dto.CreateRendezVousRequest{
		PatientID:        patientID,
		DateDeRendezVous: "2025-03-24",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.StateScheduled), resp.State)
	assert.Equal(t, entity.StateScheduled, created.State)
	assert.Equal(t, time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), created.Date)
	assert.Nil(t, created.ArrivalTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletedAppointments_AggregatesRevenue(t *testing.T) {
	medecinID := uuid.New()

	rvRepo := &fakeRendezVousRepo{
		findCompletedFn: func(mid uuid.UUID) ([]entity.RendezVous, error) {
			return []entity.RendezVous{
				{ID: uuid.New(), State: entity.StateCompleted, MedecinID: mid},
				{ID: uuid.New(), State: entity.StateCompleted, MedecinID: mid},
			}, nil
		},
		sumPaidBetweenFn: func(mid uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
			// Today's window is a single day, the week window is wider.
			if to.Sub(from) <= 24*time.Hour {
				return decimal.NewFromInt(300), nil
			}
			return decimal.NewFromInt(1200), nil
		},
		averagePaidFn: func(mid uuid.UUID) (decimal.Decimal, error) {
			return decimal.NewFromInt(250), nil
		},
	}

	db, _ := newTestDB(t)
	uc := NewRendezVousUsecase(db, testLogger(), rvRepo, &fakePatientRepo{}, &fakeAuditService{}).(*rendezVousUsecase)
	uc.now = func() time.Time { return testClock }

	resp, err := uc.CompletedAppointments(authCtx(medecinID))
	require.NoError(t, err)

	assert.Len(t, resp.CompletedAppointments, 2)
	assert.True(t, decimal.NewFromInt(300).Equal(resp.TodayRevenue))
	assert.True(t, decimal.NewFromInt(1200).Equal(resp.WeekRevenue))
	assert.True(t, decimal.NewFromInt(250).Equal(resp.AveragePaid))
}

func TestGetState_ReturnsCurrentState(t *testing.T) {
	rendezVousID := uuid.New()
	rvRepo := &fakeRendezVousRepo{
		findByIDFn: func(id uuid.UUID) (*entity.RendezVous, error) {
			return &entity.RendezVous{ID: id, State: entity.StateWaiting}, nil
		},
	}

	db, _ := newTestDB(t)
	uc := NewRendezVousUsecase(db, testLogger(), rvRepo, &fakePatientRepo{}, &fakeAuditService{}).(*rendezVousUsecase)

	state, err := uc.GetState(authCtx(uuid.New()), rendezVousID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StateWaiting), state.State)
}
