package entities

import (
	"time"

	"stylesync/internal/slots"
)

type BookingResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	ServiceName string    `json:"service"`
	StaffName   string    `json:"staff"`
	Customer    string    `json:"customer,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Price       string    `json:"price"`
}

type MyBookings struct {
	Upcoming []BookingResponse `json:"upcoming"`
	Past     []BookingResponse `json:"past"`
}

type DaySchedule struct {
	Date     slots.Date        `json:"date"`
	Bookings []BookingResponse `json:"bookings"`
}
