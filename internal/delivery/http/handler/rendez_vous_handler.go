package handler

import (
	"encoding/json"
	"net/http"

	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/usecase"
	"cabinet-medical-api/pkg/response"
	"cabinet-medical-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type RendezVousHandler struct {
	rendezVousUsecase usecase.RendezVousUsecase
	validator         *validator.CustomValidator
}

func NewRendezVousHandler(rendezVousUsecase usecase.RendezVousUsecase, validator *validator.CustomValidator) *RendezVousHandler {
	return &RendezVousHandler{
		rendezVousUsecase: rendezVousUsecase,
		validator:         validator,
	}
}

func (h *RendezVousHandler) CreateRendezVous(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRendezVousRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rendezVous, err := h.rendezVousUsecase.CreateRendezVous(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrNextDateInPast:
			response.Error(w, http.StatusBadRequest, "Date must be today or in the future", nil)
		case usecase.ErrDuplicateRendezVous:
			response.Error(w, http.StatusConflict, "Un rendez-vous identique existe déjà", nil)
		default:
			response.InternalServerError(w, "Failed to create rendez-vous")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Rendez-vous created successfully", rendezVous)
}

func (h *RendezVousHandler) TodayRendezVous(w http.ResponseWriter, r *http.Request) {
	rendezVous, err := h.rendezVousUsecase.TodayRendezVous(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list today's rendez-vous")
		return
	}

	response.Success(w, http.StatusOK, "Today's rendez-vous retrieved successfully", rendezVous)
}

func (h *RendezVousHandler) CompletedAppointments(w http.ResponseWriter, r *http.Request) {
	completed, err := h.rendezVousUsecase.CompletedAppointments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list completed appointments")
		return
	}

	response.Success(w, http.StatusOK, "Completed appointments retrieved successfully", completed)
}

func (h *RendezVousHandler) GetState(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rendezVousID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid rendez-vous ID", nil)
		return
	}

	state, err := h.rendezVousUsecase.GetState(r.Context(), rendezVousID)
	if err != nil {
		switch err {
		case usecase.ErrRendezVousNotFound:
			response.NotFound(w, "Rendez-vous not found")
		default:
			response.InternalServerError(w, "Failed to get rendez-vous state")
		}
		return
	}

	response.Success(w, http.StatusOK, "State retrieved successfully", state)
}
