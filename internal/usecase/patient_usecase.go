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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPhoneAlreadyExists   = errors.New("un patient avec ce numéro existe déjà")
	ErrPatientHasRendezVous = errors.New("patient has existing rendez-vous")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context) (*dto.PatientListResponse, error)
	GetPatientProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientProfileResponse, error)
	UpdatePatient(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, patientID uuid.UUID) error
}

type patientUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	rendezVousRepo repository.RendezVousRepository
	auditService   service.AuditService
	now            func() time.Time
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	rendezVousRepo repository.RendezVousRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:             db,
		log:            log,
		patientRepo:    patientRepo,
		rendezVousRepo: rendezVousRepo,
		auditService:   auditService,
		now:            time.Now,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		MedecinID:      medecinID,
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		Weight:         req.Poids,
		Height:         req.Taille,
		DateOfBirth:    dateOfBirth,
		Bio:            req.Bio,
		ChronicDisease: req.MaladieChronique,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Create(tx, patient); err != nil {
		if isDuplicateKeyError(err, "idx_patients_medecin_phone") {
			return nil, ErrPhoneAlreadyExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &medecinID, entity.AuditActionPatientCreate, "patient", patient.ID.String(), map[string]interface{}{
		"full_name": patient.FullName,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient created: id=%s, medecin=%s", patient.ID, medecinID)
	return converter.PatientToResponse(patient), nil
}

// ListPatients returns the medecin's patients along with the dashboard
// stats the list view shows alongside them.
func (u *patientUsecase) ListPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	patients, err := u.patientRepo.FindByMedecin(u.db.WithContext(ctx), medecinID)
	if err != nil {
		u.log.Warnf("Failed to list patients for medecin %s: %+v", medecinID, err)
		return nil, err
	}

	now := u.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	weekStart := dateOnly(now).AddDate(0, 0, -int(now.Weekday()))

	seenThisWeek, err := u.patientRepo.CountSeenSince(u.db.WithContext(ctx), medecinID, weekStart)
	if err != nil {
		u.log.Warnf("Failed to count patients seen this week: %+v", err)
		return nil, err
	}

	totalAge := 0
	newThisMonth := 0
	for i := range patients {
		totalAge += patients[i].Age(now)
		if !patients[i].CreatedAt.Before(monthStart) {
			newThisMonth++
		}
	}

	averageAge := 0
	if len(patients) > 0 {
		averageAge = totalAge / len(patients)
	}

	return &dto.PatientListResponse{
		Patients:               converter.PatientsToResponses(patients),
		Total:                  len(patients),
		AverageAge:             averageAge,
		NewPatientsThisMonth:   newThisMonth,
		PatientsViewedThisWeek: seenThisWeek,
	}, nil
}

// GetPatientProfile returns the patient record with its upcoming rendez-vous,
// if one is booked.
func (u *patientUsecase) GetPatientProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientProfileResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	patient, err := u.patientRepo.FindOwned(u.db.WithContext(ctx), patientID, medecinID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	next, err := u.rendezVousRepo.FindNextForPatient(u.db.WithContext(ctx), patientID, medecinID)
	if err != nil {
		u.log.Warnf("Failed to find next rendez-vous for patient %s: %+v", patientID, err)
		return nil, err
	}

	profile := &dto.PatientProfileResponse{
		Patient: *converter.PatientToResponse(patient),
	}
	if next != nil {
		profile.NextAppointment = converter.RendezVousToResponse(next)
	}

	return profile, nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindOwned(tx, patientID, medecinID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	oldValue := map[string]interface{}{
		"full_name":    patient.FullName,
		"phone_number": patient.PhoneNumber,
	}

	patient.FullName = req.FullName
	patient.PhoneNumber = req.PhoneNumber
	patient.Gender = req.Gender
	patient.Weight = req.Poids
	patient.Height = req.Taille
	patient.DateOfBirth = dateOfBirth
	patient.Bio = req.Bio
	patient.ChronicDisease = req.MaladieChronique

	if err := u.patientRepo.Update(tx, patient); err != nil {
		if isDuplicateKeyError(err, "idx_patients_medecin_phone") {
			return nil, ErrPhoneAlreadyExists
		}
		u.log.Warnf("Failed to update patient %s: %+v", patientID, err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, &medecinID, entity.AuditActionPatientUpdate, "patient", patient.ID.String(), oldValue, map[string]interface{}{
		"full_name":    patient.FullName,
		"phone_number": patient.PhoneNumber,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) DeletePatient(ctx context.Context, patientID uuid.UUID) error {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return ErrMedecinNotInContext
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.patientRepo.Delete(tx, patientID, medecinID)
	if err != nil {
		if isForeignKeyError(err, "rendez_vous") {
			return ErrPatientHasRendezVous
		}
		u.log.Warnf("Failed to delete patient %s: %+v", patientID, err)
		return err
	}
	if affected == 0 {
		return ErrPatientNotFound
	}

	u.auditService.LogDelete(ctx, tx, &medecinID, entity.AuditActionPatientDelete, "patient", patientID.String(), nil)

	if err := tx.Commit().Error; err != nil {
		if isForeignKeyError(err, "rendez_vous") {
			return ErrPatientHasRendezVous
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Patient deleted: id=%s, medecin=%s", patientID, medecinID)
	return nil
}
