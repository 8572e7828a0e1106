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

var ErrBiologicalRequestNotFound = errors.New("biological request not found")

type BiologicalRequestUsecase interface {
	CreateBiologicalRequest(ctx context.Context, req *dto.CreateBiologicalRequestRequest) (*dto.BiologicalRequestResponse, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.BiologicalRequestListResponse, error)
	UpdateBiologicalRequest(ctx context.Context, id int64, req *dto.UpdateBiologicalRequestRequest) (*dto.BiologicalRequestResponse, error)
}

type biologicalRequestUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	biologicalRepo repository.BiologicalRequestRepository
	patientRepo    repository.PatientRepository
	auditService   service.AuditService
}

func NewBiologicalRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	biologicalRepo repository.BiologicalRequestRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) BiologicalRequestUsecase {
	return &biologicalRequestUsecase{
		db:             db,
		log:            log,
		biologicalRepo: biologicalRepo,
		patientRepo:    patientRepo,
		auditService:   auditService,
	}
}

func (u *biologicalRequestUsecase) CreateBiologicalRequest(ctx context.Context, req *dto.CreateBiologicalRequestRequest) (*dto.BiologicalRequestResponse, error) {
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

	status := entity.BiologicalStatusPending
	if req.Status != "" {
		status = converter.BiologicalLabelToStatus(req.Status)
	}

	request := &entity.BiologicalRequest{
		PatientID:      req.PatientID,
		MedecinID:      medecinID,
		SampleTypes:    entity.JSONStringArray(req.SampleTypes),
		RequestedExams: entity.JSONStringArray(req.RequestedExams),
		Status:         status,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.biologicalRepo.Create(tx, request); err != nil {
		u.log.Warnf("Failed to create biological request: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &medecinID, entity.AuditActionBiologicalCreate, "biological_request", "", map[string]interface{}{
		"patient_id": req.PatientID.String(),
		"exams":      req.RequestedExams,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Biological request created: id=%d, patient=%s", request.ID, req.PatientID)
	return converter.BiologicalRequestToResponse(request), nil
}

func (u *biologicalRequestUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.BiologicalRequestListResponse, error) {
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

	requests, err := u.biologicalRepo.FindByPatient(u.db.WithContext(ctx), patientID, medecinID)
	if err != nil {
		u.log.Warnf("Failed to list biological requests for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.BiologicalRequestListResponse{
		Requests: converter.BiologicalRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

// UpdateBiologicalRequest records lab results and status changes. Fields left
// nil in the request keep their stored value.
func (u *biologicalRequestUsecase) UpdateBiologicalRequest(ctx context.Context, id int64, req *dto.UpdateBiologicalRequestRequest) (*dto.BiologicalRequestResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	request, err := u.biologicalRepo.FindOwned(tx, id, medecinID)
	if err != nil {
		u.log.Warnf("Failed to find biological request %d: %+v", id, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrBiologicalRequestNotFound
	}

	oldStatus := request.Status

	if req.Results != nil {
		request.Results = entity.JSON(req.Results)
	}
	if req.Status != nil {
		request.Status = converter.BiologicalLabelToStatus(*req.Status)
	}
	if req.SamplingDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.SamplingDate)
		if err != nil {
			return nil, err
		}
		request.SamplingDate = &parsed
	}

	if err := u.biologicalRepo.Update(tx, request); err != nil {
		u.log.Warnf("Failed to update biological request %d: %+v", id, err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, &medecinID, entity.AuditActionBiologicalUpdate, "biological_request", "", map[string]interface{}{
		"status": string(oldStatus),
	}, map[string]interface{}{
		"status": string(request.Status),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.BiologicalRequestToResponse(request), nil
}
