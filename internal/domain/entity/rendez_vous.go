package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RendezVousState represents the lifecycle state of an appointment.
// State is always an explicit column; it is never inferred from which
// timestamps happen to be set.
type RendezVousState string

const (
	StateScheduled  RendezVousState = "Scheduled"
	StateWaiting    RendezVousState = "Waiting"
	StateInProgress RendezVousState = "InProgress"
	StateCompleted  RendezVousState = "Completed"
	StateCancelled  RendezVousState = "Cancelled"
)

// RendezVous represents a scheduled or walk-in encounter between one patient
// and one medecin on a specific day. Date has day granularity; ArrivalTime,
// StartTime and EndTime are write-once and stamped by their transition.
//
// Constraints enforced by the schema:
//   - (patient_id, medecin_id, date) is unique
//   - (medecin_id, date) is unique among rows with state = 'InProgress'
type RendezVous struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	State       RendezVousState `gorm:"type:rendez_vous_state;not null;default:'Scheduled';index" json:"state"`
	ArrivalTime *time.Time      `gorm:"type:timestamptz" json:"arrival_time,omitempty"`
	StartTime   *time.Time      `gorm:"type:timestamptz" json:"start_time,omitempty"`
	EndTime     *time.Time      `gorm:"type:timestamptz" json:"end_time,omitempty"`

	// Outcome fields, meaningful once Completed.
	Paid        *decimal.Decimal `gorm:"type:numeric(10,2)" json:"paid,omitempty"`
	Note        *string          `gorm:"type:text" json:"note,omitempty"`
	Weight      *float64         `gorm:"column:weight;type:numeric(5,1)" json:"poids,omitempty"`
	PCM         *float64         `gorm:"column:pcm;type:numeric(5,1)" json:"pcm,omitempty"`
	BMI         *float64         `gorm:"column:bmi;type:numeric(4,1)" json:"imc,omitempty"`
	Pulse       *int             `gorm:"type:int" json:"pulse,omitempty"`
	BPSystolic  *int             `gorm:"column:bp_systolic;type:int" json:"pa_systolique,omitempty"`
	BPDiastolic *int             `gorm:"column:bp_diastolic;type:int" json:"pa_diastolique,omitempty"`

	MedecinID uuid.UUID `gorm:"type:uuid;not null;index" json:"medecin_id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Medecin Medecin `gorm:"foreignKey:MedecinID" json:"medecin,omitempty"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (RendezVous) TableName() string {
	return "rendez_vous"
}

// IsTerminal reports whether the appointment reached a terminal state.
func (r *RendezVous) IsTerminal() bool {
	return r.State == StateCompleted || r.State == StateCancelled
}

// IsScheduledFor reports whether the appointment is booked for the given day.
func (r *RendezVous) IsScheduledFor(day time.Time) bool {
	y1, m1, d1 := r.Date.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
