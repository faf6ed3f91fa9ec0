package entities

import "stylesync/internal/slots"

type SlotsResponse struct {
	ServiceID       int64             `json:"service_id"`
	StaffID         int64             `json:"staff_id"`
	Date            slots.Date        `json:"date"`
	DurationMinutes int               `json:"duration_minutes"`
	Slots           []slots.TimeOfDay `json:"slots"`
}

type AvailabilityEntry struct {
	DayOfWeek slots.DayOfWeek `json:"day_of_week"`
	DayName   string          `json:"day_name,omitempty"`
	StartTime slots.TimeOfDay `json:"start_time"`
	EndTime   slots.TimeOfDay `json:"end_time"`
}
