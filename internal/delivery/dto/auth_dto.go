package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type SignupRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=8"`
	FullName    string          `json:"fullName" validate:"required,max=255"`
	Speciality  string          `json:"speciality" validate:"required,max=100"`
	PhoneNumber string          `json:"phoneNumber" validate:"required,max=20"`
	Bio         string          `json:"bio" validate:"required"`
	Price       decimal.Decimal `json:"price"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Response DTOs

type MedecinResponse struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"fullName"`
	Speciality  string          `json:"speciality"`
	PhoneNumber string          `json:"phoneNumber"`
	Bio         string          `json:"bio,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type TokenResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	Medecin      MedecinResponse `json:"medecin"`
}
