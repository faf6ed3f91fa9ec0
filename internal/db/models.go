package db

import (
	"time"

	"stylesync/internal/slots"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// Booking statuses. Only confirmed bookings occupy a staff member's time.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         string
	CreatedAt    time.Time
}

type Staff struct {
	ID       int64
	UserID   int64
	FullName string
	Email    string
	Bio      string
}

type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int64
	IsActive        bool
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

type Availability struct {
	ID        int64
	StaffID   int64
	DayOfWeek slots.DayOfWeek
	StartTime slots.TimeOfDay
	EndTime   slots.TimeOfDay
}

type Booking struct {
	ID                    int64
	Code                  string
	CustomerID            int64
	StaffID               int64
	ServiceID             int64
	StartTime             time.Time
	EndTime               time.Time
	Status                string
	StripeSessionID       string
	StripePaymentIntentID string
	ReminderSentAt        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BookingDetails is a booking joined with the names needed to render it.
type BookingDetails struct {
	Booking
	ServiceName   string
	PriceCents    int64
	StaffName     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}
