package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a patient record owned by a single medecin.
// Weight is in kilograms, height in centimeters.
type Patient struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MedecinID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_patients_medecin_phone" json:"medecin_id"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	PhoneNumber    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_patients_medecin_phone" json:"phone_number"`
	Gender         string    `gorm:"type:char(1);not null" json:"gender"`
	Weight         *float64  `gorm:"type:numeric(5,1)" json:"poids,omitempty"`
	Height         *int      `gorm:"type:int" json:"taille,omitempty"`
	DateOfBirth    time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Bio            string    `gorm:"type:text" json:"bio,omitempty"`
	ChronicDisease string    `gorm:"type:text" json:"maladie_chronique,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Medecin    Medecin      `gorm:"foreignKey:MedecinID" json:"medecin,omitempty"`
	RendezVous []RendezVous `gorm:"foreignKey:PatientID" json:"rendez_vous,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Age computes the patient's age in full years at the given reference time.
func (p *Patient) Age(at time.Time) int {
	age := at.Year() - p.DateOfBirth.Year()
	if at.YearDay() < p.DateOfBirth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
