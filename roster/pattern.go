package roster

import (
	"fmt"

	"github.com/clinicrota/rota-engine/generic"
)

// PatternDays is Monday..Saturday. Sunday is never scheduled.
const PatternDays = 6

// noon splits an unbroken hourly day into a morning or an afternoon shift.
var noon = generic.NewClockTime(13, 0)

// =============================================================================
// WEEK PATTERN - Per week-type template, one entry per weekday
// =============================================================================

// WeekPattern holds exactly one of Hourly or HalfDay, matching the employee's
// role family.
type WeekPattern struct {
	Hourly  *[PatternDays]HourlyDay    `json:"hourly,omitempty"`
	HalfDay *[PatternDays]HalfDayFlags `json:"half_day,omitempty"`
}

// HourlyDay is a time-range template for an hourly role. A day with no start
// or no end is not worked.
type HourlyDay struct {
	Start      *generic.ClockTime `json:"start,omitempty"`
	End        *generic.ClockTime `json:"end,omitempty"`
	BreakStart *generic.ClockTime `json:"break_start,omitempty"`
	BreakEnd   *generic.ClockTime `json:"break_end,omitempty"`
}

// HalfDayFlags marks which half-days a unit role works.
type HalfDayFlags struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
}

// NewHourlyPattern builds an hourly template.
func NewHourlyPattern(days [PatternDays]HourlyDay) *WeekPattern {
	return &WeekPattern{Hourly: &days}
}

// NewHalfDayPattern builds a half-day template.
func NewHalfDayPattern(days [PatternDays]HalfDayFlags) *WeekPattern {
	return &WeekPattern{HalfDay: &days}
}

// DefaultHalfDayPattern is every weekday Monday..Friday, both half-days.
func DefaultHalfDayPattern() *WeekPattern {
	var days [PatternDays]HalfDayFlags
	for i := 0; i < 5; i++ {
		days[i] = HalfDayFlags{Morning: true, Afternoon: true}
	}
	return NewHalfDayPattern(days)
}

// ValidateFor checks the pattern's shape against a role. A nil pattern is valid.
func (p *WeekPattern) ValidateFor(role Role) error {
	if p == nil {
		return nil
	}
	if (p.Hourly == nil) == (p.HalfDay == nil) {
		return fmt.Errorf("%w: pattern must hold exactly one of hourly or half-day entries", generic.ErrPatternShape)
	}
	switch role.Family() {
	case FamilyHourly:
		if p.Hourly == nil {
			return fmt.Errorf("%w: %s needs time ranges", generic.ErrPatternShape, role)
		}
		for i, d := range p.Hourly {
			if !d.Active() {
				continue
			}
			if *d.End <= *d.Start {
				return fmt.Errorf("%w: day %d ends before it starts", generic.ErrPatternShape, i)
			}
			if (d.BreakStart == nil) != (d.BreakEnd == nil) {
				return fmt.Errorf("%w: day %d break needs both a start and an end", generic.ErrPatternShape, i)
			}
			if d.HasBreak() && (*d.BreakStart < *d.Start || *d.BreakEnd <= *d.BreakStart || *d.BreakEnd > *d.End) {
				return fmt.Errorf("%w: day %d break %s-%s falls outside %s-%s",
					generic.ErrPatternShape, i, d.BreakStart, d.BreakEnd, d.Start, d.End)
			}
		}
	case FamilyHalfDay:
		if p.HalfDay == nil {
			return fmt.Errorf("%w: %s needs half-day flags", generic.ErrPatternShape, role)
		}
	}
	return nil
}

// Active reports whether the template has a start and an end.
func (d HourlyDay) Active() bool {
	return d.Start != nil && d.End != nil
}

// HasBreak reports whether both break bounds are set.
func (d HourlyDay) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil
}

// Hours is the template's own duration, break excluded.
func (d HourlyDay) Hours() float64 {
	if !d.Active() {
		return 0
	}
	minutes := d.End.Minutes() - d.Start.Minutes()
	if d.HasBreak() && *d.BreakEnd > *d.BreakStart {
		minutes -= d.BreakEnd.Minutes() - d.BreakStart.Minutes()
	}
	if minutes < 0 {
		return 0
	}
	return float64(minutes) / 60
}

// Slots returns the shifts this template day produces: a break splits the
// day into morning and afternoon; an unbroken day is a single shift on the
// side of 13:00 it starts.
func (d HourlyDay) Slots() []Slot {
	switch {
	case !d.Active():
		return nil
	case d.HasBreak():
		return []Slot{SlotMorning, SlotAfternoon}
	case *d.Start < noon:
		return []Slot{SlotMorning}
	default:
		return []Slot{SlotAfternoon}
	}
}

// Count is the number of half-days flagged.
func (f HalfDayFlags) Count() int {
	n := 0
	if f.Morning {
		n++
	}
	if f.Afternoon {
		n++
	}
	return n
}

// Slots returns the flagged half-days.
func (f HalfDayFlags) Slots() []Slot {
	var slots []Slot
	if f.Morning {
		slots = append(slots, SlotMorning)
	}
	if f.Afternoon {
		slots = append(slots, SlotAfternoon)
	}
	return slots
}

// ActiveHourlyDays counts template days with a start and an end.
func (p *WeekPattern) ActiveHourlyDays() int {
	if p == nil || p.Hourly == nil {
		return 0
	}
	n := 0
	for _, d := range p.Hourly {
		if d.Active() {
			n++
		}
	}
	return n
}

// SlotsFor returns the slots the pattern schedules on a day. Sunday has none.
func (p *WeekPattern) SlotsFor(day generic.TimePoint) []Slot {
	idx := day.WeekdayIndex()
	if p == nil || idx >= PatternDays {
		return nil
	}
	if p.Hourly != nil {
		return p.Hourly[idx].Slots()
	}
	return p.HalfDay[idx].Slots()
}

// HourlyDayFor returns the hourly template of a day, if any.
func (p *WeekPattern) HourlyDayFor(day generic.TimePoint) (HourlyDay, bool) {
	idx := day.WeekdayIndex()
	if p == nil || p.Hourly == nil || idx >= PatternDays {
		return HourlyDay{}, false
	}
	return p.Hourly[idx], true
}
