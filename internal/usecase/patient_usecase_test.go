package usecase

import (
	"testing"
	"time"

	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatientUsecase(t *testing.T, patientRepo *fakePatientRepo, rvRepo *fakeRendezVousRepo) (*patientUsecase, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	audit := &fakeAuditService{}

	uc := NewPatientUsecase(db, testLogger(), patientRepo, rvRepo, audit).(*patientUsecase)
	uc.now = func() time.Time { return testClock }
	return uc, mock
}

func TestListPatients_ComputesDashboardStats(t *testing.T) {
	medecinID := uuid.New()
	// testClock is 2025-03-10, so the month starts on 2025-03-01.
	patients := []entity.Patient{
		{ID: uuid.New(), FullName: "Amina Berrada", DateOfBirth: time.Date(1985, 3, 1, 0, 0, 0, 0, time.UTC), CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), FullName: "Karim Idrissi", DateOfBirth: time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC), CreatedAt: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)},
	}

	patientRepo := &fakePatientRepo{
		findByMedecinFn: func(mid uuid.UUID) ([]entity.Patient, error) {
			assert.Equal(t, medecinID, mid)
			return patients, nil
		},
		countSeenSinceFn: func(mid uuid.UUID, since time.Time) (int64, error) {
			return 7, nil
		},
	}

	uc, _ := newPatientUsecase(t, patientRepo, &fakeRendezVousRepo{})

	list, err := uc.ListPatients(authCtx(medecinID))
	require.NoError(t, err)

	assert.Equal(t, 2, list.Total)
	// Ages at 2025-03-10: 40 and 29.
	assert.Equal(t, 34, list.AverageAge)
	assert.Equal(t, 1, list.NewPatientsThisMonth)
	assert.Equal(t, int64(7), list.PatientsViewedThisWeek)
}

func TestCreatePatient_RejectsDuplicatePhone(t *testing.T) {
	patientRepo := &fakePatientRepo{
		createFn: func(p *entity.Patient) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_patients_medecin_phone"}
		},
	}

	uc, mock := newPatientUsecase(t, patientRepo, &fakeRendezVousRepo{})
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := uc.CreatePatient(authCtx(uuid.New()), &dto.CreatePatientRequest{
		FullName:    "Amina Berrada",
		PhoneNumber: "0612345678",
		Gender:      entity.GenderFemale,
		DateOfBirth: "1985-03-01",
	})
	assert.ErrorIs(t, err, ErrPhoneAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPatientProfile_IncludesNextAppointment(t *testing.T) {
	medecinID := uuid.New()
	patientID := uuid.New()
	next := &entity.RendezVous{
		ID:        uuid.New(),
		Date:      time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC),
		State:     entity.StateScheduled,
		MedecinID: medecinID,
		PatientID: patientID,
	}

	patientRepo := &fakePatientRepo{
		findOwnedFn: func(id, mid uuid.UUID) (*entity.Patient, error) {
			return &entity.Patient{ID: id, MedecinID: mid, FullName: "Amina Berrada"}, nil
		},
	}
	rvRepo := &fakeRendezVousRepo{
		findNextFn: func(pid, mid uuid.UUID) (*entity.RendezVous, error) {
			return next, nil
		},
	}

	uc, _ := newPatientUsecase(t, patientRepo, rvRepo)

	profile, err := uc.GetPatientProfile(authCtx(medecinID), patientID)
	require.NoError(t, err)

	assert.Equal(t, "Amina Berrada", profile.Patient.FullName)
	require.NotNil(t, profile.NextAppointment)
	assert.Equal(t, next.ID, profile.NextAppointment.ID)
	assert.Equal(t, string(entity.StateScheduled), profile.NextAppointment.State)
}

func TestGetPatientProfile_NotOwned(t *testing.T) {
	uc, _ := newPatientUsecase(t, &fakePatientRepo{}, &fakeRendezVousRepo{})

	_, err := uc.GetPatientProfile(authCtx(uuid.New()), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
