package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs. Field names follow the wire format the cabinet frontend
// already speaks (rendezVousId, paye, prochainRdv, ...).

type CreateRendezVousRequest struct {
	PatientID        uuid.UUID `json:"patientId" validate:"required"`
	DateDeRendezVous string    `json:"dateDeRendezVous" validate:"required,datetime=2006-01-02"`
}

type EnqueueTodayRequest struct {
	PatientID uuid.UUID `json:"patientId" validate:"required"`
}

type AdmitRequest struct {
	RendezVousID uuid.UUID `json:"rendezVousId" validate:"required"`
}

type FinishConsultationRequest struct {
	RendezVousID  uuid.UUID        `json:"rendezVousId" validate:"required"`
	Paye          *decimal.Decimal `json:"paye" validate:"required"`
	Note          *string          `json:"note"`
	Poids         *float64         `json:"poids" validate:"omitempty,gte=0"`
	ProchainRdv   *string          `json:"prochainRdv" validate:"omitempty,datetime=2006-01-02"`
	PCM           *float64         `json:"pcm" validate:"omitempty,gte=0"`
	IMC           *float64         `json:"imc" validate:"omitempty,gte=0"`
	Pulse         *int             `json:"pulse" validate:"omitempty,gte=0"`
	PaSystolique  *int             `json:"paSystolique" validate:"omitempty,gte=0"`
	PaDiastolique *int             `json:"paDiastolique" validate:"omitempty,gte=0"`
}

// Response DTOs

type RendezVousResponse struct {
	ID            uuid.UUID        `json:"id"`
	Date          time.Time        `json:"date"`
	State         string           `json:"state"`
	ArrivalTime   *time.Time       `json:"arrivalTime,omitempty"`
	StartTime     *time.Time       `json:"startTime,omitempty"`
	EndTime       *time.Time       `json:"endTime,omitempty"`
	Paid          *decimal.Decimal `json:"paid,omitempty"`
	Note          *string          `json:"note,omitempty"`
	Poids         *float64         `json:"poids,omitempty"`
	PCM           *float64         `json:"pcm,omitempty"`
	IMC           *float64         `json:"imc,omitempty"`
	Pulse         *int             `json:"pulse,omitempty"`
	PaSystolique  *int             `json:"paSystolique,omitempty"`
	PaDiastolique *int             `json:"paDiastolique,omitempty"`
	MedecinID     uuid.UUID        `json:"medecinId"`
	PatientID     uuid.UUID        `json:"patientId"`
	Patient       *PatientResponse `json:"patient,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type StateResponse struct {
	State string `json:"state"`
}

type RendezVousListResponse struct {
	RendezVous []RendezVousResponse `json:"rendezVous"`
	Total      int                  `json:"total"`
}

type CompletedAppointmentsResponse struct {
	CompletedAppointments []RendezVousResponse `json:"completedAppointments"`
	TodayRevenue          decimal.Decimal      `json:"todayRevenue"`
	WeekRevenue           decimal.Decimal      `json:"weekRevenue"`
	AveragePaid           decimal.Decimal      `json:"averagePaid"`
}

type SweepResponse struct {
	Cancelled int64 `json:"cancelled"`
}
