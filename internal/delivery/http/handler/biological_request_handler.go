package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/usecase"
	"cabinet-medical-api/pkg/response"
	"cabinet-medical-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BiologicalRequestHandler struct {
	biologicalUsecase usecase.BiologicalRequestUsecase
	validator         *validator.CustomValidator
}

func NewBiologicalRequestHandler(biologicalUsecase usecase.BiologicalRequestUsecase, validator *validator.CustomValidator) *BiologicalRequestHandler {
	return &BiologicalRequestHandler{
		biologicalUsecase: biologicalUsecase,
		validator:         validator,
	}
}

func (h *BiologicalRequestHandler) CreateBiologicalRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBiologicalRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.biologicalUsecase.CreateBiologicalRequest(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to create biological request")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Biological request created successfully", request)
}

func (h *BiologicalRequestHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["patientId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	requests, err := h.biologicalUsecase.ListByPatient(r.Context(), patientID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to list biological requests")
		}
		return
	}

	response.Success(w, http.StatusOK, "Biological requests retrieved successfully", requests)
}

func (h *BiologicalRequestHandler) UpdateBiologicalRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["requestId"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid biological request ID", nil)
		return
	}

	var req dto.UpdateBiologicalRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.biologicalUsecase.UpdateBiologicalRequest(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrBiologicalRequestNotFound:
			response.NotFound(w, "Biological request not found")
		default:
			response.InternalServerError(w, "Failed to update biological request")
		}
		return
	}

	response.Success(w, http.StatusOK, "Biological request updated successfully", request)
}
