/*
balance.go - Scheduled versus performed reconciliation

PURPOSE:
  Answers "how much did this employee work against their contract over this
  range?". The same computation serves the displayed week, the month holding
  it and the year to date; only the period changes.

PER-DAY RULES (Sunday is always skipped):
  1. Week type from generic.ResolveWeekType
  2. Contracted: the week type's pattern when configured, else Monday..Friday
     fully scheduled (two half-days, or ContractedHoursPerWeek / 5 hours)
  3. Achieved: WorkUnits summed over the day's non-rest assignments
  4. Leave: each APPROVED record covering the day routes its hours through
     the classification table (classify.go)

FINAL FIGURES:
  Half-day roles (Doctor, Assistant, Director), in half-days:
    Diff = Achieved - Contracted
    A HalfDayLimitWeekX replaces the contracted half-days of a Monday..Saturday
    week that lies fully inside the period; a partially covered week keeps
    min(limit, its daily sum).

  Hourly roles (Secretary), in hours:
    Effective     = Achieved + WorkedTimeFromLeave
    OvertimeDelta = (Effective - Contracted) + OvertimeOwed - OvertimeRepaid
    Diff          = OvertimeDelta

  Status is "ok", "over" or "under" from the sign of Diff.
  Sums are exact decimals; rounding to one decimal happens once, at the end.

SEE ALSO:
  - units.go: WorkUnits
  - classify.go: Leave classification table
  - overtime.go: Week / month / year scopes
*/
package roster

import (
	"github.com/clinicrota/rota-engine/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// BALANCE
// =============================================================================

type Status string

const (
	StatusOK    Status = "ok"
	StatusOver  Status = "over"
	StatusUnder Status = "under"
)

func statusOf(diff decimal.Decimal) Status {
	switch diff.Sign() {
	case 0:
		return StatusOK
	case 1:
		return StatusOver
	default:
		return StatusUnder
	}
}

// Balance is the reconciliation of one employee over one period.
type Balance struct {
	EmployeeID EmployeeID
	Role       Role
	Period     generic.Period

	// In the role's unit: half-days or hours.
	Achieved   generic.Amount
	Contracted generic.Amount
	Diff       generic.Amount
	Status     Status

	// AchievedHours is the hour value of the staffed shifts, for every role.
	AchievedHours generic.Amount

	WorkedTimeFromLeave generic.Amount // hours
	OvertimeOwed        generic.Amount // hours
	OvertimeRepaid      generic.Amount // hours

	// EffectiveHours and OvertimeDelta are set for hourly roles only.
	EffectiveHours *generic.Amount
	OvertimeDelta  *generic.Amount

	// LeaveBalanceUnits counts paid leave taken, in half-days.
	LeaveBalanceUnits generic.Amount

	Days []DayFigures
}

// DayFigures is the per-day breakdown. Contracted is before weekly limits.
type DayFigures struct {
	Date       generic.TimePoint
	WeekType   generic.WeekType
	Contracted generic.Amount
	Achieved   generic.Amount
	LeaveHours generic.Amount
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// ComputeBalance reconciles an employee over a period. Assignments and leave
// may hold other employees' rows and rows outside the period; they are
// filtered here. It is pure: nothing is read or written elsewhere.
func ComputeBalance(emp *Employee, period generic.Period, assignments []ShiftAssignment, leave []LeaveRecord) (Balance, error) {
	if err := emp.Validate(); err != nil {
		return Balance{}, err
	}
	if err := period.Validate(); err != nil {
		return Balance{}, err
	}

	unit := emp.Role.Unit()
	shiftsByDay := make(map[string][]ShiftAssignment)
	for _, s := range assignments {
		if s.EmployeeID != emp.ID || s.IsRest || !period.Contains(s.Date) {
			continue
		}
		shiftsByDay[s.Date.Key()] = append(shiftsByDay[s.Date.Key()], s)
	}
	var approved []LeaveRecord
	for _, l := range leave {
		if l.EmployeeID == emp.ID && l.Status == StatusApproved && period.Overlaps(l.DateStart, l.DateEnd) {
			approved = append(approved, l)
		}
	}

	acc := accumulator{
		achieved:      generic.ZeroAmount(unit),
		achievedHours: generic.ZeroAmount(generic.UnitHours),
		worked:        generic.ZeroAmount(generic.UnitHours),
		owed:          generic.ZeroAmount(generic.UnitHours),
		repaid:        generic.ZeroAmount(generic.UnitHours),
		leaveUnits:    generic.ZeroAmount(generic.UnitHalfDays),
	}
	weeks := newWeekTally()
	var days []DayFigures

	for _, day := range period.Days() {
		if day.IsSunday() {
			continue
		}
		wt := generic.ResolveWeekType(day)

		contracted := contractedFor(emp, day, wt)
		weeks.add(day, wt, contracted)

		achieved := generic.ZeroAmount(unit)
		for _, s := range shiftsByDay[day.Key()] {
			wu := WorkUnits(s, emp)
			acc.achievedHours = acc.achievedHours.Add(wu.Hours)
			if unit == generic.UnitHours {
				achieved = achieved.Add(wu.Hours)
			} else {
				achieved = achieved.Add(wu.HalfDays)
			}
		}
		acc.achieved = acc.achieved.Add(achieved)

		leaveHours := acc.applyLeave(emp, day, approved)

		days = append(days, DayFigures{
			Date:       day,
			WeekType:   wt,
			Contracted: contracted,
			Achieved:   achieved,
			LeaveHours: leaveHours,
		})
	}

	contracted := weeks.total(emp, period, unit)

	b := Balance{
		EmployeeID:          emp.ID,
		Role:                emp.Role,
		Period:              period,
		Achieved:            acc.achieved.Round1(),
		Contracted:          contracted.Round1(),
		AchievedHours:       acc.achievedHours.Round1(),
		WorkedTimeFromLeave: acc.worked.Round1(),
		OvertimeOwed:        acc.owed.Round1(),
		OvertimeRepaid:      acc.repaid.Round1(),
		LeaveBalanceUnits:   acc.leaveUnits,
		Days:                days,
	}

	switch emp.Role.Family() {
	case FamilyHourly:
		effective := acc.achieved.Add(acc.worked)
		delta := effective.Sub(contracted).Add(acc.owed).Sub(acc.repaid).Round1()
		effective = effective.Round1()
		b.EffectiveHours = &effective
		b.OvertimeDelta = &delta
		b.Diff = delta
	case FamilyHalfDay:
		b.Diff = acc.achieved.Sub(contracted).Round1()
	}
	b.Status = statusOf(b.Diff.Value)
	return b, nil
}

// contractedFor is the expected work of one day, in the role's unit.
func contractedFor(emp *Employee, day generic.TimePoint, wt generic.WeekType) generic.Amount {
	idx := day.WeekdayIndex()
	weekday := idx < 5
	pattern := emp.Pattern(wt)

	switch emp.Role.Family() {
	case FamilyHourly:
		if tpl, ok := pattern.HourlyDayFor(day); ok {
			if !tpl.Active() {
				return generic.ZeroAmount(generic.UnitHours)
			}
			if target := emp.HoursPerWeek(wt); target != nil {
				active := pattern.ActiveHourlyDays()
				return generic.Amount{
					Value: decimal.NewFromFloat(*target).Div(decimal.NewFromInt(int64(active))),
					Unit:  generic.UnitHours,
				}
			}
			return generic.NewAmount(tpl.Hours(), generic.UnitHours)
		}
		if !weekday {
			return generic.ZeroAmount(generic.UnitHours)
		}
		return generic.Amount{
			Value: decimal.NewFromFloat(emp.ContractedHours()).Div(five),
			Unit:  generic.UnitHours,
		}

	case FamilyHalfDay:
		if pattern != nil && pattern.HalfDay != nil && idx < PatternDays {
			return generic.NewAmountFromInt(pattern.HalfDay[idx].Count(), generic.UnitHalfDays)
		}
		if !weekday {
			return generic.ZeroAmount(generic.UnitHalfDays)
		}
		return generic.NewAmountFromInt(2, generic.UnitHalfDays)
	}
	return generic.Amount{}
}

// =============================================================================
// ACCUMULATORS
// =============================================================================

type accumulator struct {
	achieved      generic.Amount
	achievedHours generic.Amount
	worked        generic.Amount
	owed          generic.Amount
	repaid        generic.Amount
	leaveUnits    generic.Amount
}

// applyLeave routes the day's approved leave and returns the hours counted as
// worked that day.
func (acc *accumulator) applyLeave(emp *Employee, day generic.TimePoint, approved []LeaveRecord) generic.Amount {
	workedToday := generic.ZeroAmount(generic.UnitHours)
	for _, l := range approved {
		if !l.Covers(day) {
			continue
		}
		effect := Classify(l.Type)
		if effect.IsNoop() {
			continue
		}
		hours := generic.NewAmount(l.HoursPerDay(emp), generic.UnitHours)
		if effect.CountsAsWorked {
			workedToday = workedToday.Add(hours)
		}
		if effect.CountsAsLeave {
			acc.leaveUnits = acc.leaveUnits.Add(generic.NewAmountFromInt(l.HalfDaysPerDay(), generic.UnitHalfDays))
		}
		switch effect.Overtime {
		case OvertimeRaise:
			acc.owed = acc.owed.Add(hours)
		case OvertimeLower:
			acc.repaid = acc.repaid.Add(hours)
		}
	}
	acc.worked = acc.worked.Add(workedToday)
	return workedToday
}

// weekTally groups contracted units by Monday..Saturday week so half-day
// limits can be applied per week.
type weekTally struct {
	order []string
	weeks map[string]*weekEntry
}

type weekEntry struct {
	monday   generic.TimePoint
	weekType generic.WeekType
	sum      generic.Amount
}

func newWeekTally() *weekTally {
	return &weekTally{weeks: make(map[string]*weekEntry)}
}

// add files a day under its Monday. The week keeps the type of the first day
// seen, so a week straddling New Year uses one year's label for its limit.
func (wt *weekTally) add(day generic.TimePoint, weekType generic.WeekType, contracted generic.Amount) {
	monday := generic.WeekOf(day).Start
	key := monday.Key()
	entry, ok := wt.weeks[key]
	if !ok {
		entry = &weekEntry{monday: monday, weekType: weekType, sum: contracted.Zero()}
		wt.weeks[key] = entry
		wt.order = append(wt.order, key)
	}
	entry.sum = entry.sum.Add(contracted)
}

func (wt *weekTally) total(emp *Employee, period generic.Period, unit generic.Unit) generic.Amount {
	total := generic.ZeroAmount(unit)
	for _, key := range wt.order {
		entry := wt.weeks[key]
		weekSum := entry.sum
		if emp.Role.Family() == FamilyHalfDay {
			if limit := emp.HalfDayLimit(entry.weekType); limit != nil {
				capped := generic.NewAmountFromInt(*limit, generic.UnitHalfDays)
				full := period.Contains(entry.monday) && period.Contains(entry.monday.AddDays(PatternDays-1))
				if full {
					weekSum = capped
				} else {
					weekSum = weekSum.Min(capped)
				}
			}
		}
		total = total.Add(weekSum)
	}
	return total
}
