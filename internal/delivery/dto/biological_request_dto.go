package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBiologicalRequestRequest struct {
	PatientID      uuid.UUID `json:"patientId" validate:"required"`
	SampleTypes    []string  `json:"sampleTypes" validate:"required,min=1"`
	RequestedExams []string  `json:"requestedExams" validate:"required,min=1"`
	Status         string    `json:"status" validate:"omitempty,oneof='En cours' 'Complété'"`
}

type UpdateBiologicalRequestRequest struct {
	Results      map[string]interface{} `json:"results"`
	Status       *string                `json:"status" validate:"omitempty,oneof='En cours' 'Complété'"`
	SamplingDate *string                `json:"samplingDate" validate:"omitempty,datetime=2006-01-02"`
}

// Response DTOs

type BiologicalRequestResponse struct {
	ID             int64                  `json:"id"`
	PatientID      uuid.UUID              `json:"patientId"`
	SampleTypes    []string               `json:"sampleTypes"`
	RequestedExams []string               `json:"requestedExams"`
	Status         string                 `json:"status"`
	Results        map[string]interface{} `json:"results,omitempty"`
	SamplingDate   *time.Time             `json:"samplingDate,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

type BiologicalRequestListResponse struct {
	Requests []BiologicalRequestResponse `json:"requests"`
	Total    int                         `json:"total"`
}
