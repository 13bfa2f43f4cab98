/*
Package factory provides JSON to Go employee conversion.

PURPOSE:
  Converts JSON employee definitions, week patterns included, into
  roster.Employee values. Administrators edit contracts and templates as
  JSON; the factory checks the shape against the role and fills defaults.

JSON SCHEMA:
  {
    "id": "sec-1",
    "name": "Claire",
    "role": "secretary",
    "hours_per_week_a": 40,
    "pattern_a": [
      {"start": "08:00", "end": "18:00", "break_start": "12:00", "break_end": "14:00"},
      {"start": "08:00", "end": "12:00"},
      {}, {}, {}, {}
    ]
  }

  Half-day roles use flags instead of times:
    "pattern_a": [{"morning": true, "afternoon": true}, ...]

  Patterns list Monday..Saturday in order; missing trailing days are off.

DEFAULTS:
  - active: true
  - contracted hours, leave hours: left nil, resolved by the engine per role

USAGE:
  f := factory.NewEmployeeFactory()
  emp, err := f.ParseEmployee(jsonString)

SEE ALSO:
  - roster/types.go: Employee
  - roster/pattern.go: WeekPattern
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EmployeeJSON is the JSON representation of an employee.
type EmployeeJSON struct {
	ID                        string      `json:"id"`
	Name                      string      `json:"name"`
	Role                      string      `json:"role"`
	Active                    *bool       `json:"active,omitempty"`
	ContractedHoursPerWeek    *float64    `json:"contracted_hours_per_week,omitempty"`
	HoursPerHalfDayWorked     *float64    `json:"hours_per_half_day_worked,omitempty"`
	HoursPerHalfDayLeave      *float64    `json:"hours_per_half_day_leave,omitempty"`
	HalfDayLimitWeekA         *int        `json:"half_day_limit_week_a,omitempty"`
	HalfDayLimitWeekB         *int        `json:"half_day_limit_week_b,omitempty"`
	HoursPerWeekA             *float64    `json:"hours_per_week_a,omitempty"`
	HoursPerWeekB             *float64    `json:"hours_per_week_b,omitempty"`
	CumulativeOvertimeBalance float64     `json:"cumulative_overtime_balance,omitempty"`
	PatternA                  PatternJSON `json:"pattern_a,omitempty"`
	PatternB                  PatternJSON `json:"pattern_b,omitempty"`
}

// PatternJSON lists Monday..Saturday. A nil list means no pattern.
type PatternJSON []DayJSON

// DayJSON is one weekday: times for hourly roles, flags for half-day roles.
type DayJSON struct {
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	BreakStart string `json:"break_start,omitempty"`
	BreakEnd   string `json:"break_end,omitempty"`
	Morning    bool   `json:"morning,omitempty"`
	Afternoon  bool   `json:"afternoon,omitempty"`
}

func (d DayJSON) hasTimes() bool {
	return d.Start != "" || d.End != "" || d.BreakStart != "" || d.BreakEnd != ""
}

func (d DayJSON) hasFlags() bool {
	return d.Morning || d.Afternoon
}

// =============================================================================
// EMPLOYEE FACTORY
// =============================================================================

// EmployeeFactory converts JSON employees to roster values.
type EmployeeFactory struct{}

// NewEmployeeFactory creates a new employee factory.
func NewEmployeeFactory() *EmployeeFactory {
	return &EmployeeFactory{}
}

// ParseEmployee parses a JSON string into an Employee.
func (f *EmployeeFactory) ParseEmployee(jsonStr string) (*roster.Employee, error) {
	var ej EmployeeJSON
	if err := json.Unmarshal([]byte(jsonStr), &ej); err != nil {
		return nil, fmt.Errorf("failed to parse employee JSON: %w", err)
	}
	return f.FromJSON(ej)
}

// FromJSON converts EmployeeJSON to a validated roster.Employee.
func (f *EmployeeFactory) FromJSON(ej EmployeeJSON) (*roster.Employee, error) {
	role, err := roster.ParseRole(ej.Role)
	if err != nil {
		return nil, err
	}

	emp := &roster.Employee{
		ID:                        roster.EmployeeID(ej.ID),
		Name:                      ej.Name,
		Role:                      role,
		Active:                    true,
		ContractedHoursPerWeek:    ej.ContractedHoursPerWeek,
		HoursPerHalfDayWorked:     ej.HoursPerHalfDayWorked,
		HoursPerHalfDayLeave:      ej.HoursPerHalfDayLeave,
		HalfDayLimitWeekA:         ej.HalfDayLimitWeekA,
		HalfDayLimitWeekB:         ej.HalfDayLimitWeekB,
		HoursPerWeekA:             ej.HoursPerWeekA,
		HoursPerWeekB:             ej.HoursPerWeekB,
		CumulativeOvertimeBalance: ej.CumulativeOvertimeBalance,
	}
	if ej.Active != nil {
		emp.Active = *ej.Active
	}

	if emp.PatternA, err = f.ParsePattern(role, ej.PatternA); err != nil {
		return nil, fmt.Errorf("pattern A: %w", err)
	}
	if emp.PatternB, err = f.ParsePattern(role, ej.PatternB); err != nil {
		return nil, fmt.Errorf("pattern B: %w", err)
	}

	if err := emp.Validate(); err != nil {
		return nil, err
	}
	return emp, nil
}

// ParsePattern builds the pattern shape the role needs. Times on a half-day
// role, or flags on an hourly one, are a shape error.
func (f *EmployeeFactory) ParsePattern(role roster.Role, pj PatternJSON) (*roster.WeekPattern, error) {
	if pj == nil {
		return nil, nil
	}
	if len(pj) > roster.PatternDays {
		return nil, fmt.Errorf("%w: %d days given, at most %d (Monday..Saturday)",
			generic.ErrPatternShape, len(pj), roster.PatternDays)
	}

	switch role.Family() {
	case roster.FamilyHourly:
		var days [roster.PatternDays]roster.HourlyDay
		for i, d := range pj {
			if d.hasFlags() {
				return nil, fmt.Errorf("%w: %s takes times, not half-day flags (day %d)", generic.ErrPatternShape, role, i)
			}
			day, err := parseHourlyDay(d)
			if err != nil {
				return nil, fmt.Errorf("day %d: %w", i, err)
			}
			days[i] = day
		}
		p := roster.NewHourlyPattern(days)
		return p, p.ValidateFor(role)

	case roster.FamilyHalfDay:
		var days [roster.PatternDays]roster.HalfDayFlags
		for i, d := range pj {
			if d.hasTimes() {
				return nil, fmt.Errorf("%w: %s takes half-day flags, not times (day %d)", generic.ErrPatternShape, role, i)
			}
			days[i] = roster.HalfDayFlags{Morning: d.Morning, Afternoon: d.Afternoon}
		}
		return roster.NewHalfDayPattern(days), nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", generic.ErrInvalidEmployee, role)
}

// ToJSON converts an Employee to EmployeeJSON.
func (f *EmployeeFactory) ToJSON(emp *roster.Employee) EmployeeJSON {
	active := emp.Active
	return EmployeeJSON{
		ID:                        string(emp.ID),
		Name:                      emp.Name,
		Role:                      string(emp.Role),
		Active:                    &active,
		ContractedHoursPerWeek:    emp.ContractedHoursPerWeek,
		HoursPerHalfDayWorked:     emp.HoursPerHalfDayWorked,
		HoursPerHalfDayLeave:      emp.HoursPerHalfDayLeave,
		HalfDayLimitWeekA:         emp.HalfDayLimitWeekA,
		HalfDayLimitWeekB:         emp.HalfDayLimitWeekB,
		HoursPerWeekA:             emp.HoursPerWeekA,
		HoursPerWeekB:             emp.HoursPerWeekB,
		CumulativeOvertimeBalance: emp.CumulativeOvertimeBalance,
		PatternA:                  f.PatternToJSON(emp.PatternA),
		PatternB:                  f.PatternToJSON(emp.PatternB),
	}
}

// PatternToJSON is the inverse of ParsePattern. A nil pattern gives nil.
func (f *EmployeeFactory) PatternToJSON(p *roster.WeekPattern) PatternJSON {
	if p == nil {
		return nil
	}
	out := make(PatternJSON, roster.PatternDays)
	for i := 0; i < roster.PatternDays; i++ {
		switch {
		case p.Hourly != nil:
			d := p.Hourly[i]
			out[i] = DayJSON{
				Start:      clockString(d.Start),
				End:        clockString(d.End),
				BreakStart: clockString(d.BreakStart),
				BreakEnd:   clockString(d.BreakEnd),
			}
		case p.HalfDay != nil:
			out[i] = DayJSON{Morning: p.HalfDay[i].Morning, Afternoon: p.HalfDay[i].Afternoon}
		}
	}
	return out
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseHourlyDay(d DayJSON) (roster.HourlyDay, error) {
	var day roster.HourlyDay
	var err error
	if day.Start, err = parseClock(d.Start); err != nil {
		return day, err
	}
	if day.End, err = parseClock(d.End); err != nil {
		return day, err
	}
	if day.BreakStart, err = parseClock(d.BreakStart); err != nil {
		return day, err
	}
	if day.BreakEnd, err = parseClock(d.BreakEnd); err != nil {
		return day, err
	}
	return day, nil
}

func parseClock(s string) (*generic.ClockTime, error) {
	if s == "" {
		return nil, nil
	}
	c, err := generic.ParseClockTime(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrPatternShape, err)
	}
	return &c, nil
}

func clockString(c *generic.ClockTime) string {
	if c == nil {
		return ""
	}
	return c.String()
}
