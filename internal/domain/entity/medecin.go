package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medecin represents a doctor account. Every patient and appointment in the
// practice belongs to exactly one medecin.
type Medecin struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email       string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string          `gorm:"type:text;not null" json:"-"`
	FullName    string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Speciality  string          `gorm:"type:varchar(100);not null" json:"speciality"`
	PhoneNumber string          `gorm:"type:varchar(20);not null" json:"phone_number"`
	Bio         string          `gorm:"type:text" json:"bio,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patients   []Patient    `gorm:"foreignKey:MedecinID" json:"patients,omitempty"`
	RendezVous []RendezVous `gorm:"foreignKey:MedecinID" json:"rendez_vous,omitempty"`
}

func (Medecin) TableName() string {
	return "medecins"
}
