package service

import (
	"context"
	"fmt"
	"time"

	"stylesync/internal/db"
	"stylesync/internal/entities"
	apperrors "stylesync/internal/errors"
	"stylesync/internal/slots"
	"stylesync/internal/utils"
)

type StaffDirectory interface {
	GetStaffByUserID(ctx context.Context, userID int64) (*db.Staff, error)
}

type AvailabilityStore interface {
	ListForStaff(ctx context.Context, staffID int64) ([]db.Availability, error)
	ReplaceForStaff(ctx context.Context, staffID int64, entries []db.Availability) error
}

type StaffBookings interface {
	ListConfirmedForStaff(ctx context.Context, staffID int64, from time.Time) ([]db.BookingDetails, error)
}

// StaffService backs the staff area. Every method takes the user id of the
// logged-in staff member.
type StaffService struct {
	directory    StaffDirectory
	availability AvailabilityStore
	bookings     StaffBookings
	loc          *time.Location
	currency     string
	now          func() time.Time
}

func NewStaffService(directory StaffDirectory, availability AvailabilityStore, bookings StaffBookings, loc *time.Location, currency string) *StaffService {
	if loc == nil {
		loc = time.UTC
	}
	return &StaffService{
		directory:    directory,
		availability: availability,
		bookings:     bookings,
		loc:          loc,
		currency:     currency,
		now:          time.Now,
	}
}

// Schedule returns the confirmed bookings from today on, grouped by salon
// date in ascending order.
func (s *StaffService) Schedule(ctx context.Context, userID int64) ([]entities.DaySchedule, error) {
	staff, err := s.directory.GetStaffByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := slots.DateOf(s.now().In(s.loc))
	bookings, err := s.bookings.ListConfirmedForStaff(ctx, staff.ID, today.Midnight(s.loc))
	if err != nil {
		return nil, err
	}

	days := []entities.DaySchedule{}
	for _, b := range bookings {
		start := b.StartTime.In(s.loc)
		date := slots.DateOf(start)
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, entities.DaySchedule{Date: date})
		}
		last := &days[len(days)-1]
		last.Bookings = append(last.Bookings, entities.BookingResponse{
			ID:          b.ID,
			Code:        b.Code,
			ServiceName: b.ServiceName,
			StaffName:   b.StaffName,
			Customer:    b.CustomerName,
			StartTime:   start,
			EndTime:     b.EndTime.In(s.loc),
			Status:      b.Status,
			Price:       utils.FormatCents(b.PriceCents, s.currency),
		})
	}
	return days, nil
}

func toEntries(list []db.Availability) []entities.AvailabilityEntry {
	entries := make([]entities.AvailabilityEntry, 0, len(list))
	for _, a := range list {
		entries = append(entries, entities.AvailabilityEntry{
			DayOfWeek: a.DayOfWeek,
			DayName:   a.DayOfWeek.String(),
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
		})
	}
	return entries
}

func (s *StaffService) Availability(ctx context.Context, userID int64) ([]entities.AvailabilityEntry, error) {
	staff, err := s.directory.GetStaffByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.availability.ListForStaff(ctx, staff.ID)
	if err != nil {
		return nil, err
	}
	return toEntries(list), nil
}

// ReplaceAvailability overwrites the staff member's week. Days left out
// become days off.
func (s *StaffService) ReplaceAvailability(ctx context.Context, userID int64, entries []entities.AvailabilityEntry) ([]entities.AvailabilityEntry, error) {
	staff, err := s.directory.GetStaffByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[slots.DayOfWeek]bool, len(entries))
	week := make([]db.Availability, 0, len(entries))
	for _, e := range entries {
		if !e.DayOfWeek.Valid() {
			return nil, fmt.Errorf("day_of_week %d out of range 0-6: %w", e.DayOfWeek, apperrors.ErrInvalidInput)
		}
		if seen[e.DayOfWeek] {
			return nil, fmt.Errorf("%s listed twice: %w", e.DayOfWeek, apperrors.ErrInvalidInput)
		}
		seen[e.DayOfWeek] = true
		if _, err := slots.NewWorkingWindow(e.StartTime, e.EndTime); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", e.DayOfWeek, err, apperrors.ErrInvalidInput)
		}
		week = append(week, db.Availability{StaffID: staff.ID, DayOfWeek: e.DayOfWeek, StartTime: e.StartTime, EndTime: e.EndTime})
	}

	if err := s.availability.ReplaceForStaff(ctx, staff.ID, week); err != nil {
		return nil, err
	}
	return s.Availability(ctx, userID)
}
