package api

import (
	"stylesync/internal/entities"
	"stylesync/internal/slots"
)

// Accounts
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
}

type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Role      string `json:"role"`
}

// Bookings
type CreateBookingRequest struct {
	ServiceID int64           `json:"service_id" validate:"required,gt=0"`
	StaffID   int64           `json:"staff_id" validate:"required,gt=0"`
	Date      slots.Date      `json:"date"`
	Time      slots.TimeOfDay `json:"time" validate:"gte=0,lt=86400"`
}

// Staff area
type AvailabilityRequest struct {
	Availability []entities.AvailabilityEntry `json:"availability" validate:"max=7"`
}
