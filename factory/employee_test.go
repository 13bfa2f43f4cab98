package factory_test

import (
	"encoding/json"
	"testing"

	"github.com/clinicrota/rota-engine/factory"
	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmployee_Secretary(t *testing.T) {
	f := factory.NewEmployeeFactory()

	emp, err := f.ParseEmployee(`{
		"id": "sec-1", "name": "Claire", "role": "secretary",
		"hours_per_week_a": 40,
		"pattern_a": [
			{"start": "08:00", "end": "18:00", "break_start": "12:00", "break_end": "14:00"},
			{"start": "8:30", "end": "12:00"}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, roster.EmployeeID("sec-1"), emp.ID)
	assert.Equal(t, roster.RoleSecretary, emp.Role)
	assert.True(t, emp.Active, "active defaults to true")
	assert.Nil(t, emp.ContractedHoursPerWeek, "left for the role default")
	require.NotNil(t, emp.HoursPerWeekA)
	assert.Equal(t, 40.0, *emp.HoursPerWeekA)
	assert.Nil(t, emp.PatternB)

	require.NotNil(t, emp.PatternA)
	require.NotNil(t, emp.PatternA.Hourly)
	assert.Nil(t, emp.PatternA.HalfDay)
	assert.Equal(t, 8.0, emp.PatternA.Hourly[0].Hours())
	assert.Equal(t, "08:30", emp.PatternA.Hourly[1].Start.String())
	assert.False(t, emp.PatternA.Hourly[2].Active(), "missing trailing days are off")
}

func TestParseEmployee_HalfDayRole(t *testing.T) {
	f := factory.NewEmployeeFactory()

	emp, err := f.ParseEmployee(`{
		"id": "doc-1", "role": "Doctor", "active": false,
		"half_day_limit_week_b": 6,
		"pattern_b": [{"morning": true, "afternoon": true}, {}, {"afternoon": true}]
	}`)
	require.NoError(t, err)

	assert.Equal(t, roster.RoleDoctor, emp.Role)
	assert.False(t, emp.Active)
	require.NotNil(t, emp.HalfDayLimitWeekB)
	assert.Equal(t, 6, *emp.HalfDayLimitWeekB)
	require.NotNil(t, emp.PatternB)
	assert.Equal(t, 2, emp.PatternB.HalfDay[0].Count())
	assert.Equal(t, []roster.Slot{roster.SlotAfternoon}, emp.PatternB.HalfDay[2].Slots())
}

func TestParseEmployee_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{
			name: "unknown role",
			json: `{"id": "x", "role": "nurse"}`,
			want: generic.ErrInvalidEmployee,
		},
		{
			name: "blank id",
			json: `{"id": " ", "role": "assistant"}`,
			want: generic.ErrInvalidEmployee,
		},
		{
			name: "times on a half-day role",
			json: `{"id": "a", "role": "assistant", "pattern_a": [{"start": "08:00", "end": "12:00"}]}`,
			want: generic.ErrPatternShape,
		},
		{
			name: "flags on an hourly role",
			json: `{"id": "s", "role": "secretary", "pattern_a": [{"morning": true}]}`,
			want: generic.ErrPatternShape,
		},
		{
			name: "seven days",
			json: `{"id": "a", "role": "assistant", "pattern_a": [{}, {}, {}, {}, {}, {}, {}]}`,
			want: generic.ErrPatternShape,
		},
		{
			name: "bad clock",
			json: `{"id": "s", "role": "secretary", "pattern_b": [{"start": "25:00", "end": "12:00"}]}`,
			want: generic.ErrPatternShape,
		},
		{
			name: "end before start",
			json: `{"id": "s", "role": "secretary", "pattern_a": [{"start": "18:00", "end": "08:00"}]}`,
			want: generic.ErrPatternShape,
		},
		{
			name: "break without an end",
			json: `{"id": "s", "role": "secretary", "pattern_a": [{"start": "08:00", "end": "18:00", "break_start": "12:00"}]}`,
			want: generic.ErrPatternShape,
		},
		{
			name: "break outside the day",
			json: `{"id": "s", "role": "secretary", "pattern_a": [{"start": "14:00", "end": "18:00", "break_start": "09:00", "break_end": "10:00"}]}`,
			want: generic.ErrPatternShape,
		},
	}

	f := factory.NewEmployeeFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseEmployee(tt.json)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestParseEmployee_MalformedJSON(t *testing.T) {
	_, err := factory.NewEmployeeFactory().ParseEmployee(`{"id": `)
	assert.Error(t, err)
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := factory.NewEmployeeFactory()
	original, err := f.ParseEmployee(`{
		"id": "sec-1", "name": "Claire", "role": "secretary",
		"contracted_hours_per_week": 28,
		"cumulative_overtime_balance": -3.5,
		"pattern_a": [{"start": "08:00", "end": "12:00"}]
	}`)
	require.NoError(t, err)

	data, err := json.Marshal(f.ToJSON(original))
	require.NoError(t, err)

	back, err := f.ParseEmployee(string(data))
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestPatternToJSON(t *testing.T) {
	f := factory.NewEmployeeFactory()

	assert.Nil(t, f.PatternToJSON(nil))

	pj := f.PatternToJSON(roster.DefaultHalfDayPattern())
	require.Len(t, pj, roster.PatternDays)
	assert.True(t, pj[4].Morning)
	assert.False(t, pj[5].Afternoon)

	p, err := f.ParsePattern(roster.RoleAssistant, pj)
	require.NoError(t, err)
	assert.Equal(t, roster.DefaultHalfDayPattern(), p)
}
