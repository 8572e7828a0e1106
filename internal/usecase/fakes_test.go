package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"cabinet-medical-api/internal/domain/entity"
	"cabinet-medical-api/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB wires gorm over sqlmock. Repository behavior is faked at the
// interface level, so the mock only has to answer transaction control.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// fakeRendezVousRepo lets each test override only the calls it cares about.
type fakeRendezVousRepo struct {
	createFn         func(rendezVous *entity.RendezVous) error
	findByIDFn       func(id uuid.UUID) (*entity.RendezVous, error)
	markWaitingFn    func(id uuid.UUID, day, arrivedAt time.Time) (int64, error)
	markInProgressFn func(id uuid.UUID, day, startedAt time.Time) (int64, error)
	completeFn       func(id, medecinID uuid.UUID, day, endedAt time.Time, outcome *repository.ConsultationOutcome) (int64, error)
	sweepExpiredFn   func(today time.Time) (int64, error)
	findCurrentFn    func(day time.Time) (*entity.RendezVous, error)
	findWaitingFn    func(day time.Time) ([]entity.RendezVous, error)
	countByStateFn   func(day time.Time) (map[entity.RendezVousState]int64, error)
	findForDayFn     func(medecinID uuid.UUID, day time.Time) ([]entity.RendezVous, error)
	findCompletedFn  func(medecinID uuid.UUID) ([]entity.RendezVous, error)
	findNextFn       func(patientID, medecinID uuid.UUID) (*entity.RendezVous, error)
	findScheduledFn  func(day time.Time) ([]entity.RendezVous, error)
	sumPaidBetweenFn func(medecinID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	averagePaidFn    func(medecinID uuid.UUID) (decimal.Decimal, error)
}

func (f *fakeRendezVousRepo) Create(db *gorm.DB, rendezVous *entity.RendezVous) error {
	if f.createFn != nil {
		return f.createFn(rendezVous)
	}
	return nil
}

func (f *fakeRendezVousRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.RendezVous, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(id)
	}
	return nil, nil
}

func (f *fakeRendezVousRepo) MarkWaiting(db *gorm.DB, id uuid.UUID, day, arrivedAt time.Time) (int64, error) {
	if f.markWaitingFn != nil {
		return f.markWaitingFn(id, day, arrivedAt)
	}
	return 0, nil
}

func (f *fakeRendezVousRepo) MarkInProgress(db *gorm.DB, id uuid.UUID, day, startedAt time.Time) (int64, error) {
	if f.markInProgressFn != nil {
		return f.markInProgressFn(id, day, startedAt)
	}
	return 0, nil
}

func (f *fakeRendezVousRepo) Complete(db *gorm.DB, id, medecinID uuid.UUID, day, endedAt time.Time, outcome *repository.ConsultationOutcome) (int64, error) {
	if f.completeFn != nil {
		return f.completeFn(id, medecinID, day, endedAt, outcome)
	}
	return 0, nil
}

func (f *fakeRendezVousRepo) SweepExpired(db *gorm.DB, today time.Time) (int64, error) {
	if f.sweepExpiredFn != nil {
		return f.sweepExpiredFn(today)
	}
	return 0, nil
}

func (f *fakeRendezVousRepo) FindCurrentInProgress(db *gorm.DB, day time.Time) (*entity.RendezVous, error) {
	if f.findCurrentFn != nil {
		return f.findCurrentFn(day)
	}
	return nil, nil
}

func (f *fakeRendezVousRepo) FindWaiting(db *gorm.DB, day time.Time) ([]entity.RendezVous, error) {
	if f.findWaitingFn != nil {
		return f.findWaitingFn(day)
	}
	return nil, nil
}

func (f *fakeRendezVousRepo) CountByStateForDay(db *gorm.DB, day time.Time) (map[entity.RendezVousState]int64, error) {
	if f.countByStateFn != nil {
		return f.countByStateFn(day)
	}
	return map[entity.RendezVousState]int64{}, nil
}

func (f *fakeRendezVousRepo) FindForDayByMedecin(db *gorm.DB, medecinID uuid.UUID, day time.Time) ([]entity.RendezVous, error) {
	if f.findForDayFn != nil {
		return f.findForDayFn(medecinID, day)
	}
	return nil, nil
}

func (f *fakeRendezVousRepo) FindCompletedByMedecin(db *gorm.DB, medecinID uuid.UUID) ([]entity.RendezVous, error) {
	if f.findCompletedFn != nil {
		return f.findCompletedFn(medecinID)
	}
	return nil, nil
}

func (f *fakeRendezVousRepo) FindNextForPatient(db *gorm.DB, patientID, medecinID uuid.UUID) (*entity.RendezVous, error) {
	if f.findNextFn != nil {
		return f.findNextFn(patientID, medecinID)
	}
	return nil, nil
}

func (f *fakeRendezVousRepo) FindScheduledForDay(db *gorm.DB, day time.Time) ([]entity.RendezVous, error) {
	if f.findScheduledFn != nil {
		return f.findScheduledFn(day)
	}
	return nil, nil
}

func (f *fakeRendezVousRepo) SumPaidBetween(db *gorm.DB, medecinID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	if f.sumPaidBetweenFn != nil {
		return f.sumPaidBetweenFn(medecinID, from, to)
	}
	return decimal.Zero, nil
}

func (f *fakeRendezVousRepo) AveragePaid(db *gorm.DB, medecinID uuid.UUID) (decimal.Decimal, error) {
	if f.averagePaidFn != nil {
		return f.averagePaidFn(medecinID)
	}
	return decimal.Zero, nil
}

type fakePatientRepo struct {
	createFn         func(patient *entity.Patient) error
	findOwnedFn      func(id, medecinID uuid.UUID) (*entity.Patient, error)
	findByMedecinFn  func(medecinID uuid.UUID) ([]entity.Patient, error)
	updateFn         func(patient *entity.Patient) error
	deleteFn         func(id, medecinID uuid.UUID) (int64, error)
	countSeenSinceFn func(medecinID uuid.UUID, since time.Time) (int64, error)
}

func (f *fakePatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	if f.createFn != nil {
		return f.createFn(patient)
	}
	return nil
}

func (f *fakePatientRepo) FindOwned(db *gorm.DB, id, medecinID uuid.UUID) (*entity.Patient, error) {
	if f.findOwnedFn != nil {
		return f.findOwnedFn(id, medecinID)
	}
	return nil, nil
}

func (f *fakePatientRepo) FindByMedecin(db *gorm.DB, medecinID uuid.UUID) ([]entity.Patient, error) {
	if f.findByMedecinFn != nil {
		return f.findByMedecinFn(medecinID)
	}
	return nil, nil
}

func (f *fakePatientRepo) Update(db *gorm.DB, patient *entity.Patient) error {
	if f.updateFn != nil {
		return f.updateFn(patient)
	}
	return nil
}

func (f *fakePatientRepo) Delete(db *gorm.DB, id, medecinID uuid.UUID) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(id, medecinID)
	}
	return 0, nil
}

func (f *fakePatientRepo) CountSeenSince(db *gorm.DB, medecinID uuid.UUID, since time.Time) (int64, error) {
	if f.countSeenSinceFn != nil {
		return f.countSeenSinceFn(medecinID, since)
	}
	return 0, nil
}

// fakeAuditService records the actions it was asked to log.
type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAuditService) record(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeAuditService) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...)
}

func (f *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, medecinID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	f.record(action)
	return nil
}

func (f *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, medecinID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	f.record(action)
	return nil
}

func (f *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, medecinID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	f.record(action)
	return nil
}

// recordingNotifier counts queue-change broadcasts.
type recordingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *recordingNotifier) QueueChanged(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
}

func (n *recordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}
