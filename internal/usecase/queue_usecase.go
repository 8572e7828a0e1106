package usecase

import (
	"context"
	"errors"
	"time"

	"cabinet-medical-api/internal/converter"
	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/delivery/http/middleware"
	"cabinet-medical-api/internal/domain/entity"
	"cabinet-medical-api/internal/domain/repository"
	"cabinet-medical-api/internal/service"
	"cabinet-medical-api/pkg/vitals"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRendezVousNotFound  = errors.New("rendez-vous not found")
	ErrDuplicateRendezVous = errors.New("un rendez-vous identique existe déjà")
	ErrMedecinBusy         = errors.New("un patient est déjà en consultation")
	ErrNextDateInPast      = errors.New("prochainRdv must be today or in the future")
	ErrMedecinNotInContext = errors.New("medecin not found in context")
)

// Notifier pushes a fresh waiting-line snapshot to the public displays.
// Implementations must never fail the triggering transition; delivery
// problems are theirs to log and swallow.
type Notifier interface {
	QueueChanged(ctx context.Context)
}

// NoopNotifier discards queue-change events.
type NoopNotifier struct{}

func (NoopNotifier) QueueChanged(context.Context) {}

// QueueUsecase owns every state transition of the waiting queue. All guards
// are enforced as conditional UPDATEs so concurrent conflicting transitions
// are serialized by the database, not by in-process checks.
type QueueUsecase interface {
	EnqueueToday(ctx context.Context, req *dto.EnqueueTodayRequest) (*dto.RendezVousResponse, error)
	AdmitToWaiting(ctx context.Context, rendezVousID uuid.UUID) error
	AdmitToInProgress(ctx context.Context, rendezVousID uuid.UUID) error
	FinishConsultation(ctx context.Context, req *dto.FinishConsultationRequest) (*dto.RendezVousResponse, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type queueUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	rendezVousRepo repository.RendezVousRepository
	patientRepo    repository.PatientRepository
	auditService   service.AuditService
	notifier       Notifier
	now            func() time.Time
}

func NewQueueUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rendezVousRepo repository.RendezVousRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	notifier Notifier,
) QueueUsecase {
	return &queueUsecase{
		db:             db,
		log:            log,
		rendezVousRepo: rendezVousRepo,
		patientRepo:    patientRepo,
		auditService:   auditService,
		notifier:       notifier,
		now:            time.Now,
	}
}

// dateOnly truncates a timestamp to day granularity.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// EnqueueToday creates a same-day walk-in directly in Waiting state.
// Duplicates are rejected by the (patient, medecin, date) unique index.
func (u *queueUsecase) EnqueueToday(ctx context.Context, req *dto.EnqueueTodayRequest) (*dto.RendezVousResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	patient, err := u.patientRepo.FindOwned(u.db.WithContext(ctx), req.PatientID, medecinID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	now := u.now()
	arrival := now
	rendezVous := &entity.RendezVous{
		Date:        dateOnly(now),
		State:       entity.StateWaiting,
		ArrivalTime: &arrival,
		MedecinID:   medecinID,
		PatientID:   req.PatientID,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.rendezVousRepo.Create(tx, rendezVous); err != nil {
		if isDuplicateKeyError(err, "rendez_vous") {
			return nil, ErrDuplicateRendezVous
		}
		u.log.Warnf("Failed to create walk-in rendez-vous: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &medecinID, entity.AuditActionRendezVousEnqueue, "rendez_vous", rendezVous.ID.String(), map[string]interface{}{
		"patient_id": req.PatientID.String(),
		"state":      string(entity.StateWaiting),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notifier.QueueChanged(ctx)

	full, err := u.rendezVousRepo.FindByID(u.db.WithContext(ctx), rendezVous.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload rendez-vous %s: %+v", rendezVous.ID, err)
		return converter.RendezVousToResponse(rendezVous), nil
	}

	u.log.Infof("Walk-in enqueued: id=%s, patient=%s", rendezVous.ID, req.PatientID)
	return converter.RendezVousToResponse(full), nil
}

// AdmitToWaiting transitions Scheduled -> Waiting for a same-day
// appointment. A missing row, a wrong state and a wrong date all surface as
// ErrRendezVousNotFound; the distinction is logged only.
func (u *queueUsecase) AdmitToWaiting(ctx context.Context, rendezVousID uuid.UUID) error {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return ErrMedecinNotInContext
	}

	now := u.now()
	today := dateOnly(now)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.rendezVousRepo.MarkWaiting(tx, rendezVousID, today, now)
	if err != nil {
		u.log.Warnf("Failed to admit rendez-vous %s to waiting: %+v", rendezVousID, err)
		return err
	}
	if affected == 0 {
		u.logGuardFailure(ctx, rendezVousID, entity.StateScheduled, today)
		return ErrRendezVousNotFound
	}

	u.auditService.LogUpdate(ctx, tx, &medecinID, entity.AuditActionRendezVousAdmit, "rendez_vous", rendezVousID.String(), map[string]interface{}{
		"state": string(entity.StateScheduled),
	}, map[string]interface{}{
		"state": string(entity.StateWaiting),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.notifier.QueueChanged(ctx)
	u.log.Infof("Rendez-vous %s admitted to waiting", rendezVousID)
	return nil
}

// AdmitToInProgress transitions Waiting -> InProgress. The partial unique
// index on (medecin_id, date) WHERE state='InProgress' guarantees a medecin
// sees one patient at a time; the loser of a concurrent admit gets
// ErrMedecinBusy.
func (u *queueUsecase) AdmitToInProgress(ctx context.Context, rendezVousID uuid.UUID) error {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return ErrMedecinNotInContext
	}

	now := u.now()
	today := dateOnly(now)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.rendezVousRepo.MarkInProgress(tx, rendezVousID, today, now)
	if err != nil {
		if isDuplicateKeyError(err, "in_progress") {
			return ErrMedecinBusy
		}
		u.log.Warnf("Failed to admit rendez-vous %s to in progress: %+v", rendezVousID, err)
		return err
	}
	if affected == 0 {
		u.logGuardFailure(ctx, rendezVousID, entity.StateWaiting, today)
		return ErrRendezVousNotFound
	}

	u.auditService.LogUpdate(ctx, tx, &medecinID, entity.AuditActionRendezVousStart, "rendez_vous", rendezVousID.String(), map[string]interface{}{
		"state": string(entity.StateWaiting),
	}, map[string]interface{}{
		"state": string(entity.StateInProgress),
	})

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "in_progress") {
			return ErrMedecinBusy
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.notifier.QueueChanged(ctx)
	u.log.Infof("Rendez-vous %s admitted to in progress", rendezVousID)
	return nil
}

// FinishConsultation transitions InProgress -> Completed for the requesting
// medecin, persisting the outcome, and optionally books the follow-up in the
// same transaction. Validation happens before any write: an invalid
// prochainRdv leaves the consultation untouched.
func (u *queueUsecase) FinishConsultation(ctx context.Context, req *dto.FinishConsultationRequest) (*dto.RendezVousResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	now := u.now()
	today := dateOnly(now)

	var nextDate *time.Time
	if req.ProchainRdv != nil {
		parsed, err := time.Parse("2006-01-02", *req.ProchainRdv)
		if err != nil {
			return nil, ErrNextDateInPast
		}
		day := dateOnly(parsed)
		if day.Before(today) {
			return nil, ErrNextDateInPast
		}
		nextDate = &day
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rendezVous, err := u.rendezVousRepo.FindByID(tx, req.RendezVousID)
	if err != nil {
		u.log.Warnf("Failed to find rendez-vous %s: %+v", req.RendezVousID, err)
		return nil, err
	}
	if rendezVous == nil {
		return nil, ErrRendezVousNotFound
	}

	outcome := u.buildOutcome(req, rendezVous)

	affected, err := u.rendezVousRepo.Complete(tx, req.RendezVousID, medecinID, today, now, outcome)
	if err != nil {
		u.log.Warnf("Failed to complete rendez-vous %s: %+v", req.RendezVousID, err)
		return nil, err
	}
	if affected == 0 {
		u.logGuardFailure(ctx, req.RendezVousID, entity.StateInProgress, today)
		return nil, ErrRendezVousNotFound
	}

	if nextDate != nil {
		next := &entity.RendezVous{
			Date:      *nextDate,
			State:     entity.StateScheduled,
			MedecinID: medecinID,
			PatientID: rendezVous.PatientID,
		}
		if err := u.rendezVousRepo.Create(tx, next); err != nil {
			if isDuplicateKeyError(err, "rendez_vous") {
				return nil, ErrDuplicateRendezVous
			}
			u.log.Warnf("Failed to create follow-up rendez-vous: %+v", err)
			return nil, err
		}
	}

	u.auditService.LogUpdate(ctx, tx, &medecinID, entity.AuditActionRendezVousComplete, "rendez_vous", req.RendezVousID.String(), map[string]interface{}{
		"state": string(entity.StateInProgress),
	}, map[string]interface{}{
		"state": string(entity.StateCompleted),
		"paid":  outcome.Paid.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notifier.QueueChanged(ctx)

	completed, err := u.rendezVousRepo.FindByID(u.db.WithContext(ctx), req.RendezVousID)
	if err != nil || completed == nil {
		u.log.Warnf("Failed to reload rendez-vous %s: %+v", req.RendezVousID, err)
		return converter.RendezVousToResponse(rendezVous), nil
	}

	u.log.Infof("Consultation finished: id=%s, paid=%s", req.RendezVousID, outcome.Paid)
	return converter.RendezVousToResponse(completed), nil
}

// SweepExpired cancels every Scheduled appointment whose date has passed.
// Running it twice is a no-op the second time.
func (u *queueUsecase) SweepExpired(ctx context.Context) (int64, error) {
	today := dateOnly(u.now())

	affected, err := u.rendezVousRepo.SweepExpired(u.db.WithContext(ctx), today)
	if err != nil {
		u.log.Warnf("Failed to sweep expired rendez-vous: %+v", err)
		return 0, err
	}

	if affected > 0 {
		u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), nil, entity.AuditActionRendezVousSweep, "rendez_vous", "", map[string]interface{}{
			"state": string(entity.StateScheduled),
		}, map[string]interface{}{
			"state":     string(entity.StateCancelled),
			"cancelled": affected,
		})
		u.log.Infof("Swept %d expired rendez-vous", affected)
	}

	return affected, nil
}

// buildOutcome assembles the persisted outcome, deriving the BMI from the
// measured weight and the patient's recorded height when it is not supplied.
func (u *queueUsecase) buildOutcome(req *dto.FinishConsultationRequest, rendezVous *entity.RendezVous) *repository.ConsultationOutcome {
	bmi := req.IMC
	if bmi == nil && req.Poids != nil && rendezVous.Patient.Height != nil {
		height := float64(*rendezVous.Patient.Height)
		bmi = vitals.BMI(req.Poids, &height)
	}

	return &repository.ConsultationOutcome{
		Paid:        *req.Paye,
		Note:        req.Note,
		Weight:      req.Poids,
		PCM:         req.PCM,
		BMI:         bmi,
		Pulse:       req.Pulse,
		BPSystolic:  req.PaSystolique,
		BPDiastolic: req.PaDiastolique,
	}
}

// logGuardFailure records why a transition guard rejected the appointment.
// The caller still reports plain not-found to the client.
func (u *queueUsecase) logGuardFailure(ctx context.Context, rendezVousID uuid.UUID, wantState entity.RendezVousState, today time.Time) {
	rendezVous, err := u.rendezVousRepo.FindByID(u.db.WithContext(ctx), rendezVousID)
	if err != nil || rendezVous == nil {
		u.log.Warnf("Transition rejected: rendez-vous %s does not exist", rendezVousID)
		return
	}
	if rendezVous.State != wantState {
		u.log.Warnf("Transition rejected: rendez-vous %s is %s, want %s", rendezVousID, rendezVous.State, wantState)
		return
	}
	if !rendezVous.IsScheduledFor(today) {
		u.log.Warnf("Transition rejected: rendez-vous %s is dated %s, not today", rendezVousID, rendezVous.Date.Format("2006-01-02"))
	}
}
