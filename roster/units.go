package roster

import (
	"github.com/clinicrota/rota-engine/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// WORK-UNIT CALCULATOR - One assignment to hours and half-days
// =============================================================================

var (
	sixty = decimal.NewFromInt(60)
	two   = decimal.NewFromInt(2)
	five  = decimal.NewFromInt(5)
)

// WorkUnit is what one assignment is worth.
type WorkUnit struct {
	Hours    generic.Amount
	HalfDays generic.Amount
}

// WorkUnits values a non-rest assignment for its owner. Callers filter rest
// rows out first.
//
// Secretary: the clocked range, with a morning cut at the break start and an
// afternoon starting at the break end. Missing times give 0 hours.
//
// Half-day roles: HoursPerHalfDayWorked, else half of an explicit daily
// contract (ContractedHoursPerWeek / 5 / 2), else 3.5.
//
// Every assignment is exactly one half-day whatever its hours.
func WorkUnits(s ShiftAssignment, emp *Employee) WorkUnit {
	unit := WorkUnit{
		Hours:    generic.ZeroAmount(generic.UnitHours),
		HalfDays: generic.NewAmountFromInt(1, generic.UnitHalfDays),
	}

	switch emp.Role {
	case RoleSecretary:
		unit.Hours = clockedHours(s)
	case RoleDoctor, RoleAssistant, RoleDirector:
		unit.Hours = halfDayHours(emp)
	}
	return unit
}

func clockedHours(s ShiftAssignment) generic.Amount {
	if s.TimeStart == nil || s.TimeEnd == nil {
		return generic.ZeroAmount(generic.UnitHours)
	}
	start, end := *s.TimeStart, *s.TimeEnd

	switch s.Slot {
	case SlotMorning:
		if s.BreakStart != nil && *s.BreakStart < end {
			end = *s.BreakStart
		}
	case SlotAfternoon:
		if s.BreakEnd != nil && *s.BreakEnd > start {
			start = *s.BreakEnd
		}
	}

	minutes := end.Minutes() - start.Minutes()
	if minutes <= 0 {
		return generic.ZeroAmount(generic.UnitHours)
	}
	return generic.Amount{
		Value: decimal.NewFromInt(int64(minutes)).Div(sixty),
		Unit:  generic.UnitHours,
	}
}

func halfDayHours(emp *Employee) generic.Amount {
	switch {
	case emp.HoursPerHalfDayWorked != nil:
		return generic.NewAmount(*emp.HoursPerHalfDayWorked, generic.UnitHours)
	case emp.ContractedHoursPerWeek != nil:
		perDay := decimal.NewFromFloat(*emp.ContractedHoursPerWeek).Div(five)
		return generic.Amount{Value: perDay.Div(two), Unit: generic.UnitHours}
	default:
		return generic.NewAmount(DefaultHoursPerHalfDayWorked, generic.UnitHours)
	}
}
