package roster

import (
	"github.com/clinicrota/rota-engine/generic"
)

// =============================================================================
// OVERTIME SCOPES - Week / month / year-to-date around a reference day
// =============================================================================

// Scope names one of the three side-by-side figures.
type Scope string

const (
	ScopeWeek  Scope = "week"
	ScopeMonth Scope = "month"
	ScopeYear  Scope = "ytd"
)

// Scopes lists the scopes in display order.
var Scopes = []Scope{ScopeWeek, ScopeMonth, ScopeYear}

// Period returns the range a scope covers for a reference day.
func (s Scope) Period(ref generic.TimePoint) generic.Period {
	switch s {
	case ScopeWeek:
		return generic.WeekOf(ref)
	case ScopeMonth:
		return generic.MonthOf(ref)
	default:
		return generic.YearToDate(ref)
	}
}

// Overtime holds the three balances of one employee for a reference day.
// CumulativeBalance is the externally maintained running total, echoed for
// display.
type Overtime struct {
	EmployeeID        EmployeeID
	Reference         generic.TimePoint
	Week              Balance
	Month             Balance
	YearToDate        Balance
	CumulativeBalance float64
}

// Set stores a scope's balance.
func (o *Overtime) Set(s Scope, b Balance) {
	switch s {
	case ScopeWeek:
		o.Week = b
	case ScopeMonth:
		o.Month = b
	default:
		o.YearToDate = b
	}
}

// OvertimeScopes computes the three scopes from rows covering at least
// January 1st through the end of the reference month.
func OvertimeScopes(emp *Employee, ref generic.TimePoint, assignments []ShiftAssignment, leave []LeaveRecord) (Overtime, error) {
	out := Overtime{Reference: ref}
	if err := emp.Validate(); err != nil {
		return out, err
	}
	out.EmployeeID = emp.ID
	out.CumulativeBalance = emp.CumulativeOvertimeBalance

	for _, s := range Scopes {
		b, err := ComputeBalance(emp, s.Period(ref), assignments, leave)
		if err != nil {
			return out, err
		}
		out.Set(s, b)
	}
	return out, nil
}

// SpanOf is the smallest range holding every scope of a reference day.
func SpanOf(ref generic.TimePoint) generic.Period {
	span := generic.YearToDate(ref)
	for _, s := range Scopes {
		p := s.Period(ref)
		if p.Start.Before(span.Start) {
			span.Start = p.Start
		}
		if p.End.After(span.End) {
			span.End = p.End
		}
	}
	return span
}
