package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	FullName         string   `json:"fullName" validate:"required,max=255"`
	PhoneNumber      string   `json:"phoneNumber" validate:"required,max=20"`
	Gender           string   `json:"gender" validate:"required,oneof=M F"`
	Poids            *float64 `json:"poids" validate:"omitempty,gte=0"`
	Taille           *int     `json:"taille" validate:"omitempty,gte=0"`
	DateOfBirth      string   `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Bio              string   `json:"bio" validate:"required"`
	MaladieChronique string   `json:"maladieChronique" validate:"required"`
}

type UpdatePatientRequest struct {
	FullName         string   `json:"fullName" validate:"required,max=255"`
	PhoneNumber      string   `json:"phoneNumber" validate:"required,max=20"`
	Gender           string   `json:"gender" validate:"required,oneof=M F"`
	Poids            *float64 `json:"poids" validate:"omitempty,gte=0"`
	Taille           *int     `json:"taille" validate:"omitempty,gte=0"`
	DateOfBirth      string   `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Bio              string   `json:"bio"`
	MaladieChronique string   `json:"maladieChronique"`
}

// Response DTOs

type PatientResponse struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"fullName"`
	PhoneNumber      string    `json:"phoneNumber"`
	Gender           string    `json:"gender"`
	Poids            *float64  `json:"poids,omitempty"`
	Taille           *int      `json:"taille,omitempty"`
	DateOfBirth      time.Time `json:"dateOfBirth"`
	Bio              string    `json:"bio,omitempty"`
	MaladieChronique string    `json:"maladieChronique,omitempty"`
	IMC              *float64  `json:"imc,omitempty"`
	BSA              *float64  `json:"bsa,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type PatientListResponse struct {
	Patients              []PatientResponse `json:"patients"`
	Total                 int               `json:"total"`
	AverageAge            int               `json:"averageAge"`
	NewPatientsThisMonth  int               `json:"newPatientsThisMonth"`
	PatientsViewedThisWeek int64            `json:"patientsViewedThisWeek"`
}

type PatientProfileResponse struct {
	Patient         PatientResponse     `json:"patient"`
	NextAppointment *RendezVousResponse `json:"nextAppointment,omitempty"`
}
