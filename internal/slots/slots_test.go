package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-28 is a Wednesday.
var wednesday = NewDate(2026, time.January, 28)

func tod(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func todList(t *testing.T, ss ...string) []TimeOfDay {
	t.Helper()
	out := make([]TimeOfDay, 0, len(ss))
	for _, s := range ss {
		out = append(out, tod(t, s))
	}
	return out
}

func mustWindow(t *testing.T, start, end string) WorkingWindow {
	t.Helper()
	w, err := NewWorkingWindow(tod(t, start), tod(t, end))
	require.NoError(t, err)
	return w
}

func at(t *testing.T, d Date, s string) time.Time {
	t.Helper()
	return d.At(tod(t, s), time.UTC)
}

func fixedAvailability(day DayOfWeek, w WorkingWindow) AvailabilityLookupFunc {
	return func(_ context.Context, _ int64, d DayOfWeek) (WorkingWindow, bool, error) {
		if d != day {
			return WorkingWindow{}, false, nil
		}
		return w, true, nil
	}
}

func fixedBookings(bookings ...Interval) BookingLookupFunc {
	return func(context.Context, int64, Date) ([]Interval, error) {
		return bookings, nil
	}
}

func TestCalculator_NoBookingsThirtyMinutes(t *testing.T) {
	calc := NewCalculator(fixedAvailability(Wednesday, mustWindow(t, "09:00", "17:00")), fixedBookings(), time.UTC)

	got, err := calc.Slots(context.Background(), 30, 1, wednesday)
	require.NoError(t, err)

	var want []TimeOfDay
	for s := tod(t, "09:00"); s <= tod(t, "16:30"); s += TimeOfDay(Granularity / time.Second) {
		want = append(want, s)
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, 31)
}

func TestCalculator_SingleBookingSplitsTheDay(t *testing.T) {
	calc := NewCalculator(
		fixedAvailability(Wednesday, mustWindow(t, "09:00", "12:00")),
		fixedBookings(Interval{Start: at(t, wednesday, "10:00"), End: at(t, wednesday, "10:30")}),
		time.UTC,
	)

	got, err := calc.Slots(context.Background(), 30, 1, wednesday)
	require.NoError(t, err)
	assert.Equal(t, todList(t, "09:00", "09:15", "09:30", "10:30", "10:45", "11:00", "11:15", "11:30"), got)
}

func TestCalculator_ServiceLongerThanWindow(t *testing.T) {
	calc := NewCalculator(fixedAvailability(Wednesday, mustWindow(t, "09:00", "09:45")), fixedBookings(), time.UTC)

	got, err := calc.Slots(context.Background(), 60, 1, wednesday)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCalculator_DayOffSkipsBookingLookup(t *testing.T) {
	bookingsCalled := false
	calc := NewCalculator(
		fixedAvailability(Monday, mustWindow(t, "09:00", "17:00")),
		BookingLookupFunc(func(context.Context, int64, Date) ([]Interval, error) {
			bookingsCalled = true
			return nil, nil
		}),
		time.UTC,
	)

	got, err := calc.Slots(context.Background(), 30, 1, wednesday)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, bookingsCalled)
}

func TestCalculator_BookingCoversWholeWindow(t *testing.T) {
	calc := NewCalculator(
		fixedAvailability(Wednesday, mustWindow(t, "09:00", "17:00")),
		fixedBookings(Interval{Start: at(t, wednesday, "09:00"), End: at(t, wednesday, "17:00")}),
		time.UTC,
	)

	got, err := calc.Slots(context.Background(), 15, 1, wednesday)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCalculator_RejectsNonPositiveDuration(t *testing.T) {
	calc := NewCalculator(fixedAvailability(Wednesday, mustWindow(t, "09:00", "17:00")), fixedBookings(), time.UTC)

	for _, d := range []int{0, -15} {
		_, err := calc.Slots(context.Background(), d, 1, wednesday)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestCalculator_PropagatesLookupErrors(t *testing.T) {
	storeDown := errors.New("store down")

	calc := NewCalculator(
		AvailabilityLookupFunc(func(context.Context, int64, DayOfWeek) (WorkingWindow, bool, error) {
			return WorkingWindow{}, false, storeDown
		}),
		fixedBookings(),
		time.UTC,
	)
	_, err := calc.Slots(context.Background(), 30, 1, wednesday)
	assert.ErrorIs(t, err, storeDown)

	calc = NewCalculator(
		fixedAvailability(Wednesday, mustWindow(t, "09:00", "17:00")),
		BookingLookupFunc(func(context.Context, int64, Date) ([]Interval, error) { return nil, storeDown }),
		time.UTC,
	)
	_, err = calc.Slots(context.Background(), 30, 1, wednesday)
	assert.ErrorIs(t, err, storeDown)
}

func TestCalculator_PassesStaffAndWeekdayToLookups(t *testing.T) {
	var gotStaff int64
	var gotDay DayOfWeek
	var gotDate Date
	calc := NewCalculator(
		AvailabilityLookupFunc(func(_ context.Context, staffID int64, day DayOfWeek) (WorkingWindow, bool, error) {
			gotStaff, gotDay = staffID, day
			return mustWindow(t, "09:00", "10:00"), true, nil
		}),
		BookingLookupFunc(func(_ context.Context, _ int64, d Date) ([]Interval, error) {
			gotDate = d
			return nil, nil
		}),
		time.UTC,
	)

	_, err := calc.Slots(context.Background(), 30, 42, wednesday)
	require.NoError(t, err)
	assert.Equal(t, int64(42), gotStaff)
	assert.Equal(t, Wednesday, gotDay)
	assert.Equal(t, wednesday, gotDate)
}

func TestCompute_OffGridBookingEndRealignsSweep(t *testing.T) {
	bookings := []Interval{{Start: at(t, wednesday, "09:30"), End: at(t, wednesday, "09:50")}}

	got := Compute(30*time.Minute, wednesday, mustWindow(t, "09:00", "11:00"), bookings, time.UTC)

	assert.Equal(t, todList(t, "09:00", "09:50", "10:05", "10:20"), got)
}

func TestCompute_BookingAfterWorkdayDoesNotExtendDay(t *testing.T) {
	bookings := []Interval{{Start: at(t, wednesday, "14:00"), End: at(t, wednesday, "15:00")}}

	got := Compute(30*time.Minute, wednesday, mustWindow(t, "09:00", "10:00"), bookings, time.UTC)

	assert.Equal(t, todList(t, "09:00", "09:15", "09:30"), got)
}

func TestCompute_NestedBookingNeverRewindsCursor(t *testing.T) {
	bookings := []Interval{
		{Start: at(t, wednesday, "09:00"), End: at(t, wednesday, "11:00")},
		{Start: at(t, wednesday, "09:30"), End: at(t, wednesday, "10:00")},
	}

	got := Compute(30*time.Minute, wednesday, mustWindow(t, "09:00", "12:00"), bookings, time.UTC)

	assert.Equal(t, todList(t, "11:00", "11:15", "11:30"), got)
}

func TestCompute_UsesSalonZone(t *testing.T) {
	salon := time.FixedZone("UTC-5", -5*3600)
	// 15:00 UTC is 10:00 in the salon.
	bookings := []Interval{{
		Start: time.Date(2026, time.January, 28, 15, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.January, 28, 15, 30, 0, 0, time.UTC),
	}}

	got := Compute(30*time.Minute, wednesday, mustWindow(t, "09:00", "11:00"), bookings, salon)

	assert.Equal(t, todList(t, "09:00", "09:15", "09:30", "10:30"), got)
}

func TestCompute_Properties(t *testing.T) {
	window := mustWindow(t, "08:00", "18:00")
	bookings := []Interval{
		{Start: at(t, wednesday, "08:40"), End: at(t, wednesday, "09:25")},
		{Start: at(t, wednesday, "11:00"), End: at(t, wednesday, "12:00")},
		{Start: at(t, wednesday, "12:10"), End: at(t, wednesday, "12:55")},
		{Start: at(t, wednesday, "17:15"), End: at(t, wednesday, "18:00")},
	}
	workdayStart := wednesday.At(window.Start(), time.UTC)
	workdayEnd := wednesday.At(window.End(), time.UTC)

	for _, minutes := range []int{15, 20, 30, 45, 60, 90} {
		duration := time.Duration(minutes) * time.Minute
		got := Compute(duration, wednesday, window, bookings, time.UTC)

		again := Compute(duration, wednesday, window, bookings, time.UTC)
		assert.Equal(t, got, again, "duration %d not idempotent", minutes)

		anchors := []time.Time{workdayStart}
		for _, b := range bookings {
			anchors = append(anchors, b.End)
		}

		for i, s := range got {
			start := wednesday.At(s, time.UTC)
			end := start.Add(duration)
			assert.False(t, end.After(workdayEnd), "slot %s overruns the day", s)
			for _, b := range bookings {
				ok := !end.After(b.Start) || !start.Before(b.End)
				assert.True(t, ok, "slot %s (%d min) overlaps booking %s-%s", s, minutes, b.Start.Format("15:04"), b.End.Format("15:04"))
			}
			if i > 0 {
				assert.Greater(t, s, got[i-1])
			}

			aligned := false
			for _, a := range anchors {
				if !start.Before(a) && start.Sub(a)%Granularity == 0 {
					aligned = true
					break
				}
			}
			assert.True(t, aligned, "slot %s is off grid", s)
		}
	}
}

func TestNewWorkingWindow_RejectsInvertedWindow(t *testing.T) {
	_, err := NewWorkingWindow(tod(t, "17:00"), tod(t, "09:00"))
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewWorkingWindow(tod(t, "09:00"), tod(t, "09:00"))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestContains(t *testing.T) {
	list := todList(t, "09:00", "09:15", "10:30")
	assert.True(t, Contains(list, tod(t, "10:30")))
	assert.False(t, Contains(list, tod(t, "10:00")))
	assert.False(t, Contains(nil, tod(t, "09:00")))
}
