package entity

import (
	"time"

	"github.com/google/uuid"
)

// BiologicalRequestStatus represents the processing status of a lab request.
type BiologicalRequestStatus string

const (
	BiologicalStatusPending   BiologicalRequestStatus = "EnCours"
	BiologicalStatusCompleted BiologicalRequestStatus = "Completed"
)

// BiologicalRequest tracks a biological exam prescription: which samples to
// take, which exams to run, and the results once the lab reports back.
type BiologicalRequest struct {
	ID             int64                   `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID      uuid.UUID               `gorm:"type:uuid;not null;index" json:"patient_id"`
	MedecinID      uuid.UUID               `gorm:"type:uuid;not null;index" json:"medecin_id"`
	SampleTypes    JSONStringArray         `gorm:"type:jsonb;not null" json:"sample_types"`
	RequestedExams JSONStringArray         `gorm:"type:jsonb;not null" json:"requested_exams"`
	Status         BiologicalRequestStatus `gorm:"type:biological_request_status;not null;default:'EnCours';index" json:"status"`
	Results        JSON                    `gorm:"type:jsonb" json:"results,omitempty"`
	SamplingDate   *time.Time              `gorm:"type:date" json:"sampling_date,omitempty"`
	CreatedAt      time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time               `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Medecin Medecin `gorm:"foreignKey:MedecinID" json:"medecin,omitempty"`
}

func (BiologicalRequest) TableName() string {
	return "biological_requests"
}
