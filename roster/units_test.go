package roster_test

import (
	"testing"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/stretchr/testify/assert"
)

func TestWorkUnits_Secretary_CutsAtBreak(t *testing.T) {
	emp := secretary("s1")
	withBreak := func(slot roster.Slot) roster.ShiftAssignment {
		s := clocked(emp, weekA, slot, "08:00", "18:00")
		s.BreakStart = generic.MustClock("12:00")
		s.BreakEnd = generic.MustClock("14:00")
		return s
	}

	tests := []struct {
		name  string
		shift roster.ShiftAssignment
		hours float64
	}{
		{"morning ends at break start", withBreak(roster.SlotMorning), 4},
		{"afternoon starts at break end", withBreak(roster.SlotAfternoon), 4},
		{"unbroken morning", clocked(emp, weekA, roster.SlotMorning, "08:00", "12:00"), 4},
		{"quarter hours", clocked(emp, weekA, roster.SlotAfternoon, "13:45", "17:30"), 3.75},
		{"missing times", roster.ShiftAssignment{EmployeeID: emp.ID, Date: weekA, Slot: roster.SlotMorning}, 0},
		{"end before start", clocked(emp, weekA, roster.SlotMorning, "12:00", "08:00"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wu := roster.WorkUnits(tt.shift, emp)
			assert.Equal(t, tt.hours, wu.Hours.Float())
			assert.Equal(t, 1.0, wu.HalfDays.Float(), "every assignment is one half-day")
		})
	}
}

func TestWorkUnits_HalfDayRoles(t *testing.T) {
	tests := []struct {
		name  string
		emp   *roster.Employee
		hours float64
	}{
		{"explicit per half-day", &roster.Employee{ID: "a", Role: roster.RoleAssistant, HoursPerHalfDayWorked: fptr(3.5)}, 3.5},
		{"half of the daily contract", &roster.Employee{ID: "d", Role: roster.RoleDoctor, ContractedHoursPerWeek: fptr(45)}, 4.5},
		{"fallback", &roster.Employee{ID: "x", Role: roster.RoleDirector}, 3.5},
		{"role default contract is not used", &roster.Employee{ID: "d2", Role: roster.RoleDoctor}, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Times on a half-day shift are ignored.
			s := clocked(tt.emp, weekA, roster.SlotMorning, "08:00", "13:00")
			wu := roster.WorkUnits(s, tt.emp)
			assert.Equal(t, tt.hours, wu.Hours.Float())
			assert.Equal(t, generic.UnitHalfDays, wu.HalfDays.Unit)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		lt       roster.LeaveType
		worked   bool
		leave    bool
		overtime roster.OvertimeEffect
	}{
		{roster.LeaveRest, false, false, roster.OvertimeNone},
		{roster.LeaveHoursOwed, false, false, roster.OvertimeRaise},
		{roster.LeaveHoursRepaid, false, false, roster.OvertimeLower},
		{roster.LeavePaid, true, true, roster.OvertimeNone},
		{roster.LeaveSick, true, false, roster.OvertimeNone},
		{roster.LeaveUnpaid, true, false, roster.OvertimeNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.lt), func(t *testing.T) {
			e := roster.Classify(tt.lt)
			assert.Equal(t, tt.worked, e.CountsAsWorked)
			assert.Equal(t, tt.leave, e.CountsAsLeave)
			assert.Equal(t, tt.overtime, e.Overtime)
		})
	}

	assert.True(t, roster.Classify(roster.LeaveRest).IsNoop())
	assert.True(t, roster.Classify("TRAINING").IsNoop(), "unknown types have no effect")
}

func TestRoleFamilies(t *testing.T) {
	assert.Equal(t, roster.FamilyHourly, roster.RoleSecretary.Family())
	for _, r := range []roster.Role{roster.RoleDoctor, roster.RoleAssistant, roster.RoleDirector} {
		assert.Equal(t, roster.FamilyHalfDay, r.Family(), r)
		assert.Equal(t, generic.UnitHalfDays, r.Unit())
	}
	assert.Equal(t, 40.0, roster.RoleDoctor.DefaultContractedHours())
	assert.Equal(t, 35.0, roster.RoleDirector.DefaultContractedHours())

	r, err := roster.ParseRole(" Secretary ")
	assert.NoError(t, err)
	assert.Equal(t, roster.RoleSecretary, r)

	_, err = roster.ParseRole("nurse")
	assert.ErrorIs(t, err, generic.ErrInvalidEmployee)
}

func TestHourlyDay_Slots(t *testing.T) {
	split := roster.HourlyDay{
		Start: generic.MustClock("08:00"), End: generic.MustClock("18:00"),
		BreakStart: generic.MustClock("12:00"), BreakEnd: generic.MustClock("14:00"),
	}
	assert.Equal(t, []roster.Slot{roster.SlotMorning, roster.SlotAfternoon}, split.Slots())
	assert.Equal(t, 8.0, split.Hours())

	morning := roster.HourlyDay{Start: generic.MustClock("12:59"), End: generic.MustClock("16:00")}
	assert.Equal(t, []roster.Slot{roster.SlotMorning}, morning.Slots())

	afternoon := roster.HourlyDay{Start: generic.MustClock("13:00"), End: generic.MustClock("17:00")}
	assert.Equal(t, []roster.Slot{roster.SlotAfternoon}, afternoon.Slots())

	assert.Nil(t, roster.HourlyDay{}.Slots())
}

func TestWeekPattern_ValidateFor(t *testing.T) {
	hourly := secretaryMondayPattern()
	halfDay := roster.DefaultHalfDayPattern()

	assert.NoError(t, hourly.ValidateFor(roster.RoleSecretary))
	assert.NoError(t, halfDay.ValidateFor(roster.RoleAssistant))
	assert.ErrorIs(t, hourly.ValidateFor(roster.RoleDoctor), generic.ErrPatternShape)
	assert.ErrorIs(t, halfDay.ValidateFor(roster.RoleSecretary), generic.ErrPatternShape)
	assert.ErrorIs(t, (&roster.WeekPattern{}).ValidateFor(roster.RoleSecretary), generic.ErrPatternShape)

	var nilPattern *roster.WeekPattern
	assert.NoError(t, nilPattern.ValidateFor(roster.RoleSecretary))

	backwards := roster.NewHourlyPattern([roster.PatternDays]roster.HourlyDay{
		{Start: generic.MustClock("18:00"), End: generic.MustClock("08:00")},
	})
	assert.ErrorIs(t, backwards.ValidateFor(roster.RoleSecretary), generic.ErrPatternShape)
}

func TestWeekPattern_ValidateFor_Breaks(t *testing.T) {
	day := func(start, end, breakStart, breakEnd string) *roster.WeekPattern {
		d := roster.HourlyDay{Start: generic.MustClock(start), End: generic.MustClock(end)}
		if breakStart != "" {
			d.BreakStart = generic.MustClock(breakStart)
		}
		if breakEnd != "" {
			d.BreakEnd = generic.MustClock(breakEnd)
		}
		return roster.NewHourlyPattern([roster.PatternDays]roster.HourlyDay{d})
	}

	tests := []struct {
		name    string
		pattern *roster.WeekPattern
		valid   bool
	}{
		{"no break", day("08:00", "12:00", "", ""), true},
		{"break inside the day", day("08:00", "18:00", "12:00", "14:00"), true},
		{"break touching both ends", day("08:00", "18:00", "08:00", "18:00"), true},
		{"break start only", day("08:00", "18:00", "12:00", ""), false},
		{"break end only", day("08:00", "18:00", "", "14:00"), false},
		{"break before the day", day("14:00", "18:00", "09:00", "10:00"), false},
		{"break past the end", day("08:00", "12:00", "11:00", "13:00"), false},
		{"empty break", day("08:00", "18:00", "12:00", "12:00"), false},
		{"reversed break", day("08:00", "18:00", "14:00", "12:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.ValidateFor(roster.RoleSecretary)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, generic.ErrPatternShape)
			}
		})
	}
}
