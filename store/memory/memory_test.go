package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/clinicrota/rota-engine/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = generic.NewTimePoint(2025, time.March, 10)

func TestShifts_OnePerSlotAndOrdering(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	afternoon := roster.ShiftAssignment{ID: "pm", EmployeeID: "a1", Date: monday, Slot: roster.SlotAfternoon}
	morning := roster.ShiftAssignment{ID: "am", EmployeeID: "a1", Date: monday, Slot: roster.SlotMorning}
	_, err := store.CreateShift(ctx, afternoon)
	require.NoError(t, err)
	_, err = store.CreateShift(ctx, morning)
	require.NoError(t, err)

	morning.ID = "am-2"
	_, err = store.CreateShift(ctx, morning)
	assert.ErrorIs(t, err, generic.ErrDuplicateShift)

	afternoon.Slot = roster.SlotMorning
	afternoon.Date = monday.AddDays(1)
	_, err = store.CreateShift(ctx, afternoon)
	assert.ErrorIs(t, err, generic.ErrDuplicateShift, "ids are unique too")

	shifts, err := store.ListShifts(ctx, roster.ShiftFilter{EmployeeID: "a1"})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, roster.ShiftID("am"), shifts[0].ID)
	assert.Equal(t, roster.ShiftID("pm"), shifts[1].ID)

	require.NoError(t, store.DeleteShift(ctx, "am"))
	assert.ErrorIs(t, store.DeleteShift(ctx, "am"), generic.ErrShiftNotFound)
	_, err = store.CreateShift(ctx, roster.ShiftAssignment{EmployeeID: "a1", Date: monday, Slot: roster.SlotMorning})
	assert.NoError(t, err, "slot freed by delete")
}

func TestShifts_PeriodFilter(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := store.CreateShift(ctx, roster.ShiftAssignment{EmployeeID: "a1", Date: monday.AddDays(i), Slot: roster.SlotMorning})
		require.NoError(t, err)
	}

	got, err := store.ListShifts(ctx, roster.ShiftFilter{Period: generic.Period{Start: monday.AddDays(2), End: monday.AddDays(4)}})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestEmployees_AndPatterns(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, roster.Employee{ID: "b", Role: roster.RoleDoctor, Active: true}))
	require.NoError(t, store.SaveEmployee(ctx, roster.Employee{ID: "a", Role: roster.RoleAssistant}))

	all, err := store.ListEmployees(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, roster.EmployeeID("a"), all[0].ID)

	active, err := store.ListEmployees(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, roster.EmployeeID("b"), active[0].ID)

	require.NoError(t, store.SavePattern(ctx, "b", generic.WeekA, roster.DefaultHalfDayPattern()))
	a, b, err := store.GetPatterns(ctx, "b")
	require.NoError(t, err)
	assert.NotNil(t, a)
	assert.Nil(t, b)

	_, err = store.GetEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
	assert.ErrorIs(t, store.SavePattern(ctx, "ghost", generic.WeekA, nil), generic.ErrEmployeeNotFound)
}

func TestLeave_InsertionOrderAndStatus(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	var ids []roster.LeaveID
	for i, lt := range []roster.LeaveType{roster.LeaveSick, roster.LeavePaid, roster.LeaveRest} {
		id, err := store.CreateLeave(ctx, roster.LeaveRecord{
			EmployeeID: "s1", DateStart: monday.AddDays(i), DateEnd: monday.AddDays(i),
			Type: lt, Status: roster.StatusPending,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, store.SetLeaveStatus(ctx, ids[1], roster.StatusApproved))

	pending, err := store.ListLeave(ctx, roster.LeaveFilter{Status: roster.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)
	assert.Equal(t, ids[2], pending[1].ID)

	_, err = store.CreateLeave(ctx, roster.LeaveRecord{EmployeeID: "s1", DateStart: monday, DateEnd: monday, Type: "X", Status: roster.StatusPending})
	assert.ErrorIs(t, err, generic.ErrInvalidLeave)
	assert.ErrorIs(t, store.SetLeaveStatus(ctx, "missing", roster.StatusRejected), generic.ErrLeaveNotFound)
}

func TestRolloutRuns_AndReset(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveRolloutRun(ctx, roster.RolloutRun{ID: "r1", EmployeeID: "a1", WeekStart: monday, Status: roster.RunFailed, CreatedAt: now}))
	done, err := store.IsRolloutComplete(ctx, "a1", monday)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.SaveRolloutRun(ctx, roster.RolloutRun{ID: "r1", EmployeeID: "a1", WeekStart: monday, Status: roster.RunCompleted, CreatedAt: now}))
	done, err = store.IsRolloutComplete(ctx, "a1", monday)
	require.NoError(t, err)
	assert.True(t, done)

	runs, err := store.ListRolloutRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, runs, 1, "upserted on employee and week")

	require.NoError(t, store.Reset(ctx))
	runs, err = store.ListRolloutRuns(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, runs)
}
