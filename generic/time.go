package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day (the engine never reasons below day granularity)
// =============================================================================

// DateLayout is the wire format of a TimePoint.
const DateLayout = "2006-01-02"

type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates any instant to its calendar day, keeping the wall-clock date.
func DayOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return DayOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DayOf(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.normalize().AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.normalize().AddDate(0, n, 0)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsSunday() bool        { return tp.Weekday() == time.Sunday }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// WeekdayIndex returns Monday=0 ... Saturday=5, Sunday=6. Pattern arrays are
// indexed with it.
func (tp TimePoint) WeekdayIndex() int {
	return (int(tp.Weekday()) + 6) % 7
}

// Key is a stable map key for the day.
func (tp TimePoint) Key() string { return tp.String() }

func (tp TimePoint) String() string {
	return tp.normalize().Format(DateLayout)
}

// MarshalText renders the day as YYYY-MM-DD.
func (tp TimePoint) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

// UnmarshalText parses YYYY-MM-DD.
func (tp *TimePoint) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// =============================================================================
// WEEK TYPE - Biweekly A/B rotation
// =============================================================================

type WeekType string

const (
	WeekA WeekType = "A"
	WeekB WeekType = "B"
)

// ParseWeekType accepts "A"/"B" in any case.
func ParseWeekType(s string) (WeekType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return WeekA, nil
	case "B":
		return WeekB, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekType, s)
}

// WeekNumber returns the 1-based week of the year. Weeks start on Monday and
// week 1 is the (possibly partial) week holding January 1st. Each year is
// numbered on its own: the last week of December and the first of January are
// not continued across the boundary.
func WeekNumber(tp TimePoint) int {
	jan1 := NewTimePoint(tp.Year(), time.January, 1)
	offset := tp.Time.YearDay() - 1
	return (offset+jan1.WeekdayIndex())/7 + 1
}

// ResolveWeekType maps a day to its rotation label: odd weeks are A, even
// weeks are B.
func ResolveWeekType(tp TimePoint) WeekType {
	if WeekNumber(tp)%2 == 0 {
		return WeekB
	}
	return WeekA
}

// =============================================================================
// CLOCK TIME - Wall-clock time of day, minute resolution
// =============================================================================

// ClockTime is minutes since midnight.
type ClockTime int

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "HH:MM" (also "H:MM" and "HHhMM").
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.Replace(strings.TrimSpace(s), "h", ":", 1)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q (use HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return NewClockTime(h, m), nil
}

// MustClock is ParseClockTime for literals; it panics on bad input.
func MustClock(s string) *ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func (c ClockTime) Minutes() int { return int(c) }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
