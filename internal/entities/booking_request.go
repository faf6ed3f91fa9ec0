package entities

import "stylesync/internal/slots"

// BookingRequest is what the booking flow needs to open a checkout.
type BookingRequest struct {
	CustomerID int64
	ServiceID  int64
	StaffID    int64
	Date       slots.Date
	Time       slots.TimeOfDay
}

type CheckoutResponse struct {
	BookingID   int64  `json:"booking_id"`
	Code        string `json:"code"`
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}
