package dto

import (
	"time"

	"github.com/google/uuid"
)

// WaitingLineEntry is one row of the public display: either the patient in
// consultation or a waiting patient with its 1-based queue position.
type WaitingLineEntry struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"fullName"`
	PatientID       uuid.UUID  `json:"patientId"`
	AppointmentTime *time.Time `json:"appointmentTime,omitempty"`
	Position        int        `json:"position,omitempty"`
}

// WaitingLineSnapshot is the derived public view of today's queue. It is
// recomputed on every request and every broadcast, never cached.
type WaitingLineSnapshot struct {
	Current      *WaitingLineEntry  `json:"current"`
	Waiting      []WaitingLineEntry `json:"waiting"`
	TotalWaiting int                `json:"totalWaiting"`
	Timestamp    time.Time          `json:"timestamp"`
}

// WaitingLineStats counts today's appointments per state.
type WaitingLineStats struct {
	Total      int64     `json:"total"`
	Scheduled  int64     `json:"scheduled"`
	Waiting    int64     `json:"waiting"`
	InProgress int64     `json:"inProgress"`
	Completed  int64     `json:"completed"`
	Cancelled  int64     `json:"cancelled"`
	Timestamp  time.Time `json:"timestamp"`
}
