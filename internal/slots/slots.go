// Package slots computes the bookable start times of a staff member's day.
//
// The calculation sweeps the working window in Granularity steps and jumps
// over confirmed bookings. It performs no I/O of its own: working hours and
// bookings are read through the AvailabilityLookup and BookingLookup
// capabilities supplied by the caller.
package slots

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Granularity is the spacing of candidate start times, independent of the
// service length.
const Granularity = 15 * time.Minute

var (
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrInvalidWindow   = errors.New("working window must start before it ends")
)

// WorkingWindow is a staff member's recurring working hours for one weekday.
// The zero value is empty; use NewWorkingWindow to build a usable one.
type WorkingWindow struct {
	start TimeOfDay
	end   TimeOfDay
}

func NewWorkingWindow(start, end TimeOfDay) (WorkingWindow, error) {
	if start >= end {
		return WorkingWindow{}, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, start, end)
	}
	return WorkingWindow{start: start, end: end}, nil
}

func (w WorkingWindow) Start() TimeOfDay { return w.start }
func (w WorkingWindow) End() TimeOfDay   { return w.end }

// Interval is a half-open [Start, End) span occupied by a confirmed booking.
type Interval struct {
	Start time.Time
	End   time.Time
}

// AvailabilityLookup returns the working window of a staff member for a
// weekday. ok is false when the staff member does not work that day.
type AvailabilityLookup interface {
	WorkingWindow(ctx context.Context, staffID int64, day DayOfWeek) (window WorkingWindow, ok bool, err error)
}

// BookingLookup returns the confirmed bookings of a staff member on a date,
// sorted by start time and not overlapping each other.
type BookingLookup interface {
	ConfirmedBookings(ctx context.Context, staffID int64, date Date) ([]Interval, error)
}

type AvailabilityLookupFunc func(ctx context.Context, staffID int64, day DayOfWeek) (WorkingWindow, bool, error)

func (f AvailabilityLookupFunc) WorkingWindow(ctx context.Context, staffID int64, day DayOfWeek) (WorkingWindow, bool, error) {
	return f(ctx, staffID, day)
}

type BookingLookupFunc func(ctx context.Context, staffID int64, date Date) ([]Interval, error)

func (f BookingLookupFunc) ConfirmedBookings(ctx context.Context, staffID int64, date Date) ([]Interval, error) {
	return f(ctx, staffID, date)
}

// Calculator binds the two lookups and the salon's time zone.
type Calculator struct {
	availability AvailabilityLookup
	bookings     BookingLookup
	loc          *time.Location
}

func NewCalculator(availability AvailabilityLookup, bookings BookingLookup, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{availability: availability, bookings: bookings, loc: loc}
}

func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Slots returns the start times at which a service of durationMinutes can be
// booked with staffID on date. A day off and a fully booked day both yield an
// empty, non-nil slice. Lookup errors are returned wrapped and unchanged.
func (c *Calculator) Slots(ctx context.Context, durationMinutes int, staffID int64, date Date) ([]TimeOfDay, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d minutes", ErrInvalidDuration, durationMinutes)
	}

	window, ok, err := c.availability.WorkingWindow(ctx, staffID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("lookup working window for staff %d on %s: %w", staffID, date.Weekday(), err)
	}
	if !ok {
		return []TimeOfDay{}, nil
	}

	booked, err := c.bookings.ConfirmedBookings(ctx, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("lookup confirmed bookings for staff %d on %s: %w", staffID, date, err)
	}

	return Compute(time.Duration(durationMinutes)*time.Minute, date, window, booked, c.loc), nil
}

// Compute sweeps the working window of date in loc and returns every
// Granularity-aligned start time at which duration fits before the next
// booking and before the end of the day. After a booking the sweep resumes
// at the booking's end, which may be off the 15-minute grid.
//
// bookings must be sorted by Start and must not overlap.
func Compute(duration time.Duration, date Date, window WorkingWindow, bookings []Interval, loc *time.Location) []TimeOfDay {
	if loc == nil {
		loc = time.UTC
	}
	workdayStart := date.At(window.Start(), loc)
	workdayEnd := date.At(window.End(), loc)

	out := make([]TimeOfDay, 0, int(workdayEnd.Sub(workdayStart)/Granularity)+1)
	cursor := workdayStart

	emitUntil := func(limit time.Time) {
		if limit.After(workdayEnd) {
			limit = workdayEnd
		}
		for !cursor.Add(duration).After(limit) {
			out = append(out, TimeOfDayOf(cursor.In(loc)))
			cursor = cursor.Add(Granularity)
		}
	}

	for _, b := range bookings {
		emitUntil(b.Start)
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	emitUntil(workdayEnd)

	return out
}

// Contains reports whether t is one of the computed slots.
func Contains(slots []TimeOfDay, t TimeOfDay) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}
