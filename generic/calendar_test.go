package generic_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

// =============================================================================
// WEEK TYPE
// =============================================================================

func TestWeekNumber_MondayBasedPerYear(t *testing.T) {
	tests := []struct {
		name string
		day  generic.TimePoint
		want int
	}{
		{"Jan 1 2025 is a Wednesday in week 1", day(2025, time.January, 1), 1},
		{"Sunday Jan 5 2025 closes week 1", day(2025, time.January, 5), 1},
		{"Monday Jan 6 2025 opens week 2", day(2025, time.January, 6), 2},
		{"Dec 31 2025 is week 53", day(2025, time.December, 31), 53},
		{"Jan 1 2024 is a Monday in week 1", day(2024, time.January, 1), 1},
		{"Jan 8 2024 is week 2", day(2024, time.January, 8), 2},
		{"Dec 30 2024 is week 53", day(2024, time.December, 30), 53},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generic.WeekNumber(tt.day))
		})
	}
}

func TestResolveWeekType_OddIsA_EvenIsB(t *testing.T) {
	assert.Equal(t, generic.WeekA, generic.ResolveWeekType(day(2025, time.January, 1)))
	assert.Equal(t, generic.WeekB, generic.ResolveWeekType(day(2025, time.January, 6)))
	assert.Equal(t, generic.WeekA, generic.ResolveWeekType(day(2025, time.January, 13)))
}

func TestResolveWeekType_ConstantWithinAWeek(t *testing.T) {
	// GIVEN: Monday March 10 2025
	monday := day(2025, time.March, 10)
	want := generic.ResolveWeekType(monday)

	// THEN: Every day through Sunday carries the same label
	for i := 1; i < 7; i++ {
		assert.Equal(t, want, generic.ResolveWeekType(monday.AddDays(i)), "day +%d", i)
	}
}

func TestResolveWeekType_AlternatesWithinAYear(t *testing.T) {
	monday := day(2025, time.January, 6)
	prev := generic.ResolveWeekType(monday)
	for monday = monday.AddDays(7); monday.Year() == 2025; monday = monday.AddDays(7) {
		cur := generic.ResolveWeekType(monday)
		assert.NotEqual(t, prev, cur, "week of %s", monday)
		prev = cur
	}
}

func TestResolveWeekType_Pure(t *testing.T) {
	d := day(2026, time.October, 19)
	assert.Equal(t, generic.ResolveWeekType(d), generic.ResolveWeekType(d))
}

func TestResolveWeekType_YearBoundaryRestartsNumbering(t *testing.T) {
	// Dec 31 2025 (week 53, A) and Jan 1 2026 (week 1, A) share a
	// Monday..Sunday week and a label. Numbering restarts each year, so the
	// following week is B.
	assert.Equal(t, generic.WeekA, generic.ResolveWeekType(day(2025, time.December, 31)))
	assert.Equal(t, generic.WeekA, generic.ResolveWeekType(day(2026, time.January, 1)))
	assert.Equal(t, generic.WeekB, generic.ResolveWeekType(day(2026, time.January, 5)))
}

func TestParseWeekType(t *testing.T) {
	wt, err := generic.ParseWeekType(" b ")
	require.NoError(t, err)
	assert.Equal(t, generic.WeekB, wt)

	_, err = generic.ParseWeekType("C")
	assert.ErrorIs(t, err, generic.ErrInvalidWeekType)
	assert.True(t, generic.IsClientError(err))
}

// =============================================================================
// TIME POINT & PERIOD
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d.String())
	assert.Equal(t, 0, d.WeekdayIndex(), "Monday is index 0")
	assert.Equal(t, 6, d.AddDays(6).WeekdayIndex(), "Sunday is index 6")

	_, err = generic.ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestTimePoint_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Day generic.TimePoint `json:"day"`
	}
	data, err := json.Marshal(wrapper{Day: day(2025, time.June, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-06-02"}`, string(data))

	var back wrapper
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Day.Equal(day(2025, time.June, 2)))
}

func TestPeriod_Validate(t *testing.T) {
	_, err := generic.NewPeriod(day(2025, time.March, 10), day(2025, time.March, 9))
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	var perr *generic.InvalidPeriodError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "end before start", perr.Reason)

	_, err = generic.NewPeriod(generic.TimePoint{}, day(2025, time.March, 9))
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	p, err := generic.NewPeriod(day(2025, time.March, 10), day(2025, time.March, 10))
	require.NoError(t, err)
	assert.Len(t, p.Days(), 1)
}

func TestPeriod_Overlaps(t *testing.T) {
	p := generic.Period{Start: day(2025, time.March, 10), End: day(2025, time.March, 16)}

	assert.True(t, p.Overlaps(day(2025, time.March, 1), day(2025, time.March, 10)))
	assert.True(t, p.Overlaps(day(2025, time.March, 16), day(2025, time.March, 20)))
	assert.False(t, p.Overlaps(day(2025, time.March, 17), day(2025, time.March, 20)))
	assert.False(t, p.Overlaps(day(2025, time.March, 1), day(2025, time.March, 9)))
}

func TestScopes(t *testing.T) {
	ref := day(2025, time.March, 12) // Wednesday

	week := generic.WeekOf(ref)
	assert.Equal(t, "2025-03-10", week.Start.String())
	assert.Equal(t, "2025-03-16", week.End.String())

	dates := generic.WeekDates(ref)
	require.Len(t, dates, 6)
	assert.Equal(t, "2025-03-10", dates[0].String())
	assert.Equal(t, "2025-03-15", dates[5].String())

	month := generic.MonthOf(ref)
	assert.Equal(t, "2025-03-01", month.Start.String())
	assert.Equal(t, "2025-03-31", month.End.String())

	ytd := generic.YearToDate(ref)
	assert.Equal(t, "2025-01-01", ytd.Start.String())
	assert.Equal(t, "2025-03-12", ytd.End.String())

	assert.Equal(t, "2024-02-29", generic.EndOfMonth(2024, time.February).String())
}

// =============================================================================
// CLOCK TIME
// =============================================================================

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:00", "08:00", false},
		{"8:30", "08:30", false},
		{"14h15", "14:15", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := generic.ParseClockTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

// =============================================================================
// AMOUNT
// =============================================================================

func TestAmount_Round1_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.25", "1.3"},
		{"-1.25", "-1.3"},
		{"7.94", "7.9"},
		{"2.333333", "2.3"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a := generic.Amount{Value: generic.MustParseDecimal(tt.in), Unit: generic.UnitHours}
			assert.Equal(t, tt.want, a.Round1().Value.String())
		})
	}
}

func TestAmount_NoDriftAcrossDays(t *testing.T) {
	// 35 hours over 3 days, summed back, is 35 exactly before rounding.
	perDay := generic.NewAmount(35, generic.UnitHours).Div(generic.MustParseDecimal("3"))
	total := generic.ZeroAmount(generic.UnitHours)
	for i := 0; i < 3; i++ {
		total = total.Add(perDay)
	}
	assert.Equal(t, "35", total.Round1().Value.String())
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, generic.IsNotFound(generic.ErrEmployeeNotFound))
	assert.True(t, generic.IsNotFound(generic.ErrShiftNotFound))
	assert.True(t, generic.IsConflict(generic.ErrDuplicateShift))
	assert.True(t, generic.IsClientError(generic.ErrPatternShape))
	assert.False(t, generic.IsClientError(generic.ErrEmployeeNotFound))
	assert.False(t, generic.IsNotFound(errors.New("boom")))
}
