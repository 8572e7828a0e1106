package usecase

import (
	"context"
	"time"

	"cabinet-medical-api/internal/converter"
	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/delivery/http/middleware"
	"cabinet-medical-api/internal/domain/entity"
	"cabinet-medical-api/internal/domain/repository"
	"cabinet-medical-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RendezVousUsecase interface {
	CreateRendezVous(ctx context.Context, req *dto.CreateRendezVousRequest) (*dto.RendezVousResponse, error)
	TodayRendezVous(ctx context.Context) (*dto.RendezVousListResponse, error)
	CompletedAppointments(ctx context.Context) (*dto.CompletedAppointmentsResponse, error)
	GetState(ctx context.Context, rendezVousID uuid.UUID) (*dto.StateResponse, error)
}

type rendezVousUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	rendezVousRepo repository.RendezVousRepository
	patientRepo    repository.PatientRepository
	auditService   service.AuditService
	now            func() time.Time
}

func NewRendezVousUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rendezVousRepo repository.RendezVousRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) RendezVousUsecase {
	return &rendezVousUsecase{
		db:             db,
		log:            log,
		rendezVousRepo: rendezVousRepo,
		patientRepo:    patientRepo,
		auditService:   auditService,
		now:            time.Now,
	}
}

// CreateRendezVous books a Scheduled appointment for a future day (or today).
func (u *rendezVousUsecase) CreateRendezVous(ctx context.Context, req *dto.CreateRendezVousRequest) (*dto.RendezVousResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	parsed, err := time.Parse("2006-01-02", req.DateDeRendezVous)
	if err != nil {
		return nil, ErrNextDateInPast
	}
	day := dateOnly(parsed)
	if day.Before(dateOnly(u.now())) {
		return nil, ErrNextDateInPast
	}

	patient, err := u.patientRepo.FindOwned(u.db.WithContext(ctx), req.PatientID, medecinID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	rendezVous := &entity.RendezVous{
		Date:      day,
		State:     entity.StateScheduled,
		MedecinID: medecinID,
		PatientID: req.PatientID,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.rendezVousRepo.Create(tx, rendezVous); err != nil {
		if isDuplicateKeyError(err, "rendez_vous") {
			return nil, ErrDuplicateRendezVous
		}
		u.log.Warnf("Failed to create rendez-vous: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &medecinID, entity.AuditActionRendezVousCreate, "rendez_vous", rendezVous.ID.String(), map[string]interface{}{
		"patient_id": req.PatientID.String(),
		"date":       day.Format("2006-01-02"),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Rendez-vous booked: id=%s, date=%s", rendezVous.ID, day.Format("2006-01-02"))
	return converter.RendezVousToResponse(rendezVous), nil
}

func (u *rendezVousUsecase) TodayRendezVous(ctx context.Context) (*dto.RendezVousListResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	today := dateOnly(u.now())
	rendezVous, err := u.rendezVousRepo.FindForDayByMedecin(u.db.WithContext(ctx), medecinID, today)
	if err != nil {
		u.log.Warnf("Failed to list today's rendez-vous for medecin %s: %+v", medecinID, err)
		return nil, err
	}

	return &dto.RendezVousListResponse{
		RendezVous: converter.RendezVousToResponses(rendezVous),
		Total:      len(rendezVous),
	}, nil
}

// CompletedAppointments returns the consultation history with the revenue
// figures the dashboard shows: today's take, this week's take and the
// average paid per consultation.
func (u *rendezVousUsecase) CompletedAppointments(ctx context.Context) (*dto.CompletedAppointmentsResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	completed, err := u.rendezVousRepo.FindCompletedByMedecin(u.db.WithContext(ctx), medecinID)
	if err != nil {
		u.log.Warnf("Failed to list completed rendez-vous for medecin %s: %+v", medecinID, err)
		return nil, err
	}

	now := u.now()
	today := dateOnly(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := today.AddDate(0, 0, -int(now.Weekday()))

	todayRevenue, err := u.rendezVousRepo.SumPaidBetween(u.db.WithContext(ctx), medecinID, today, tomorrow)
	if err != nil {
		u.log.Warnf("Failed to compute today's revenue: %+v", err)
		return nil, err
	}

	weekRevenue, err := u.rendezVousRepo.SumPaidBetween(u.db.WithContext(ctx), medecinID, weekStart, tomorrow)
	if err != nil {
		u.log.Warnf("Failed to compute week's revenue: %+v", err)
		return nil, err
	}

	averagePaid, err := u.rendezVousRepo.AveragePaid(u.db.WithContext(ctx), medecinID)
	if err != nil {
		u.log.Warnf("Failed to compute average paid: %+v", err)
		return nil, err
	}

	return &dto.CompletedAppointmentsResponse{
		CompletedAppointments: converter.RendezVousToResponses(completed),
		TodayRevenue:          todayRevenue,
		WeekRevenue:           weekRevenue,
		AveragePaid:           averagePaid,
	}, nil
}

func (u *rendezVousUsecase) GetState(ctx context.Context, rendezVousID uuid.UUID) (*dto.StateResponse, error) {
	rendezVous, err := u.rendezVousRepo.FindByID(u.db.WithContext(ctx), rendezVousID)
	if err != nil {
		u.log.Warnf("Failed to find rendez-vous %s: %+v", rendezVousID, err)
		return nil, err
	}
	if rendezVous == nil {
		return nil, ErrRendezVousNotFound
	}

	return &dto.StateResponse{State: string(rendezVous.State)}, nil
}
