package slots

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DayOfWeek numbers weekdays from Monday (0) to Sunday (6), the way the
// availability table stores them.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// DayOfWeekOf converts a time.Weekday (Sunday = 0) into a DayOfWeek.
func DayOfWeekOf(wd time.Weekday) DayOfWeek {
	return DayOfWeek((int(wd) + 6) % 7)
}

// Date is a calendar date with no time of day and no zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Weekday() DayOfWeek {
	return DayOfWeekOf(d.Midnight(time.UTC).Weekday())
}

// At anchors the date and a wall-clock time in loc.
func (d Date) At(tod TimeOfDay, loc *time.Location) time.Time {
	h, m, s := tod.Clock()
	return time.Date(d.Year, d.Month, d.Day, h, m, s, 0, loc)
}

func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Midnight(time.UTC).AddDate(0, 0, n))
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time expressed in seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("invalid time of day %02d:%02d:%02d", hour, minute, second)
	}
	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// ParseTimeOfDay accepts "15:04" and "15:04:05" (fractional seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDayOf(t), nil
}

// TimeOfDayOf returns the wall-clock time of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(h*3600 + m*60 + s)
}

func (t TimeOfDay) Clock() (hour, minute, second int) {
	v := int(t) % secondsPerDay
	return v / 3600, (v % 3600) / 60, v % 60
}

func (t TimeOfDay) String() string {
	h, m, s := t.Clock()
	if s != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan reads a postgres TIME column.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return t.UnmarshalText(v)
	case string:
		return t.UnmarshalText([]byte(v))
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case nil:
		return fmt.Errorf("scan time of day: null value")
	default:
		return fmt.Errorf("scan time of day: unsupported type %T", src)
	}
}

func (t TimeOfDay) Value() (driver.Value, error) {
	h, m, s := t.Clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}
