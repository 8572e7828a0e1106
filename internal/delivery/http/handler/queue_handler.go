package handler

import (
	"encoding/json"
	"net/http"

	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/usecase"
	"cabinet-medical-api/pkg/response"
	"cabinet-medical-api/pkg/validator"
)

// QueueHandler exposes the waiting-queue transitions. Each endpoint maps a
// guard failure to 404 and a uniqueness conflict to 409, mirroring what the
// conditional UPDATEs and unique indexes report.
type QueueHandler struct {
	queueUsecase usecase.QueueUsecase
	validator    *validator.CustomValidator
}

func NewQueueHandler(queueUsecase usecase.QueueUsecase, validator *validator.CustomValidator) *QueueHandler {
	return &QueueHandler{
		queueUsecase: queueUsecase,
		validator:    validator,
	}
}

func (h *QueueHandler) EnqueueToday(w http.ResponseWriter, r *http.Request) {
	var req dto.EnqueueTodayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rendezVous, err := h.queueUsecase.EnqueueToday(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrDuplicateRendezVous:
			response.Error(w, http.StatusConflict, "Un rendez-vous identique existe déjà", nil)
		default:
			response.InternalServerError(w, "Failed to enqueue patient")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient added to waiting line", rendezVous)
}

func (h *QueueHandler) AdmitToWaiting(w http.ResponseWriter, r *http.Request) {
	var req dto.AdmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.queueUsecase.AdmitToWaiting(r.Context(), req.RendezVousID); err != nil {
		switch err {
		case usecase.ErrRendezVousNotFound:
			response.NotFound(w, "Rendez-vous not found")
		default:
			response.InternalServerError(w, "Failed to admit patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient admitted to waiting line", dto.StateResponse{State: "Waiting"})
}

func (h *QueueHandler) AdmitToInProgress(w http.ResponseWriter, r *http.Request) {
	var req dto.AdmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.queueUsecase.AdmitToInProgress(r.Context(), req.RendezVousID); err != nil {
		switch err {
		case usecase.ErrRendezVousNotFound:
			response.NotFound(w, "Rendez-vous not found")
		case usecase.ErrMedecinBusy:
			response.Error(w, http.StatusConflict, "Un patient est déjà en consultation", nil)
		default:
			response.InternalServerError(w, "Failed to start consultation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Consultation started", dto.StateResponse{State: "InProgress"})
}

func (h *QueueHandler) FinishConsultation(w http.ResponseWriter, r *http.Request) {
	var req dto.FinishConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rendezVous, err := h.queueUsecase.FinishConsultation(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrRendezVousNotFound:
			response.NotFound(w, "Rendez-vous not found")
		case usecase.ErrNextDateInPast:
			response.Error(w, http.StatusBadRequest, "prochainRdv must be today or in the future", nil)
		case usecase.ErrDuplicateRendezVous:
			response.Error(w, http.StatusConflict, "Un rendez-vous identique existe déjà", nil)
		default:
			response.InternalServerError(w, "Failed to finish consultation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Consultation completed", rendezVous)
}

func (h *QueueHandler) SweepExpired(w http.ResponseWriter, r *http.Request) {
	cancelled, err := h.queueUsecase.SweepExpired(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to sweep expired rendez-vous")
		return
	}

	response.Success(w, http.StatusOK, "Expired rendez-vous swept", dto.SweepResponse{Cancelled: cancelled})
}
