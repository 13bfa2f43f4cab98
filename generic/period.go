package generic

import "time"

// =============================================================================
// PERIOD - The range every balance is computed for
// =============================================================================

// Period is an inclusive range of days [Start, End].
// Balances are always computed for a period; week, month and year figures
// are the same computation over three different periods.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period and validates it.
func NewPeriod(start, end TimePoint) (Period, error) {
	p := Period{Start: start, End: end}
	return p, p.Validate()
}

// Validate rejects zero bounds and ranges that end before they start.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return &InvalidPeriodError{Period: p, Reason: "missing bound"}
	}
	if p.End.Before(p.Start) {
		return &InvalidPeriodError{Period: p, Reason: "end before start"}
	}
	return nil
}

// Contains returns true if the day is within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether [from, to] intersects the period.
func (p Period) Overlaps(from, to TimePoint) bool {
	return from.BeforeOrEqual(p.End) && to.AfterOrEqual(p.Start)
}

// Days returns all days in the period.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// SCOPES - Week / month / year-to-date around a reference day
// =============================================================================

// WeekOf returns Monday..Sunday of the week holding the day.
func WeekOf(day TimePoint) Period {
	monday := day.AddDays(-day.WeekdayIndex())
	return Period{Start: monday, End: monday.AddDays(6)}
}

// WeekDates returns Monday..Saturday of the week holding the day, the days a
// pattern can schedule.
func WeekDates(day TimePoint) []TimePoint {
	monday := day.AddDays(-day.WeekdayIndex())
	dates := make([]TimePoint, 6)
	for i := range dates {
		dates[i] = monday.AddDays(i)
	}
	return dates
}

// MonthOf returns the calendar month holding the day.
func MonthOf(day TimePoint) Period {
	return Period{Start: StartOfMonth(day.Year(), day.Month()), End: EndOfMonth(day.Year(), day.Month())}
}

// YearToDate returns January 1st through the day itself.
func YearToDate(day TimePoint) Period {
	return Period{Start: StartOfYear(day.Year()), End: day}
}

func StartOfYear(year int) TimePoint                    { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint                      { return NewTimePoint(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	return NewTimePoint(year, month, 1).AddMonths(1).AddDays(-1)
}
