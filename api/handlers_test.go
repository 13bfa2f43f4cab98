/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Status code mapping (400 / 404 / 409)
- Employee, pattern, shift and leave round trips through the router
- Bulk apply idempotence over HTTP
- Balance after a leave decision
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clinicrota/rota-engine/store/memory"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Handler) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	h := NewHandler(memory.New(), logger)
	return NewRouter(h, nil), h
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const assistantJSON = `{"id": "a1", "name": "Lea", "role": "assistant"}`

const secretaryJSON = `{
	"id": "s1", "name": "Claire", "role": "secretary",
	"pattern_a": [{"start": "08:00", "end": "18:00", "break_start": "12:00", "break_end": "14:00"}]
}`

// =============================================================================
// CALENDAR
// =============================================================================

func TestGetWeekType(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/week-type?date=2025-03-12", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[WeekTypeDTO](t, rec)
	assert.Equal(t, 11, got.WeekNumber)
	assert.Equal(t, "A", got.WeekType)
	assert.Equal(t, "2025-03-10", got.WeekStart)

	rec = do(t, router, http.MethodGet, "/api/week-type?date=2025-03-17", nil)
	assert.Equal(t, "B", decode[WeekTypeDTO](t, rec).WeekType)

	rec = do(t, router, http.MethodGet, "/api/week-type?date=12/03/2025", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// EMPLOYEES & PATTERNS
// =============================================================================

func TestEmployees_CreateGetList(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/employees", assistantJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[EmployeeDTO](t, rec)
	assert.Equal(t, "half_days", string(created.Unit))
	assert.Equal(t, 35.0, created.ResolvedContractedHours)
	assert.Equal(t, 4.0, created.ResolvedLeaveHours)

	rec = do(t, router, http.MethodGet, "/api/employees/a1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lea", decode[EmployeeDTO](t, rec).Name)

	rec = do(t, router, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]EmployeeDTO](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/api/employees/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/employees", `{"id": "n1", "role": "nurse"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[ErrorResponse](t, rec).Details)

	rec = do(t, router, http.MethodPost, "/api/employees", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSavePattern_ShapeChecked(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", secretaryJSON).Code)

	// GIVEN: Half-day flags for an hourly role
	rec := do(t, router, http.MethodPut, "/api/employees/s1/patterns/B", `[{"morning": true}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// WHEN: A proper time-range template
	rec = do(t, router, http.MethodPut, "/api/employees/s1/patterns/B", `[{}, {"start": "09:00", "end": "13:00"}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: Both templates are kept
	emp := decode[EmployeeDTO](t, rec)
	require.Len(t, emp.PatternB, 6)
	assert.Equal(t, "09:00", emp.PatternB[1].Start)
	assert.Equal(t, "08:00", emp.PatternA[0].Start)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/employees/s1/patterns/C", `[]`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPut, "/api/employees/ghost/patterns/A", `[]`).Code)
}

// =============================================================================
// BULK APPLY & BALANCE
// =============================================================================

func TestApplyPattern_Idempotent(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", assistantJSON).Code)

	// WHEN: Applying the default template to a whole week
	rec := do(t, router, http.MethodPost, "/api/employees/a1/patterns/A/apply", ApplyRequest{WeekOf: "2025-03-12"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[ApplyResultDTO](t, rec)
	assert.Equal(t, 10, first.Created)
	assert.Equal(t, "10 succeeded, 0 failed", first.Summary)

	// THEN: Again creates nothing
	rec = do(t, router, http.MethodPost, "/api/employees/a1/patterns/A/apply", ApplyRequest{WeekOf: "2025-03-10"})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[ApplyResultDTO](t, rec)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 10, second.Skipped)
	assert.Empty(t, second.Failures)

	rec = do(t, router, http.MethodGet, "/api/shifts?employee_id=a1&from=2025-03-10&to=2025-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	shifts := decode[[]ShiftDTO](t, rec)
	require.Len(t, shifts, 2)
	assert.Equal(t, "present", shifts[0].Marker)
}

func TestApplyPattern_BadRequests(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", assistantJSON).Code)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"no dates", "/api/employees/a1/patterns/A/apply", ApplyRequest{}, http.StatusBadRequest},
		{"bad date", "/api/employees/a1/patterns/A/apply", ApplyRequest{Dates: []string{"tomorrow"}}, http.StatusBadRequest},
		{"bad week type", "/api/employees/a1/patterns/C/apply", ApplyRequest{WeekOf: "2025-03-10"}, http.StatusBadRequest},
		{"unknown employee", "/api/employees/ghost/patterns/A/apply", ApplyRequest{WeekOf: "2025-03-10"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestBalance_AfterLeaveApproval(t *testing.T) {
	// GIVEN: A secretary working Monday 08-18 with a 2h break
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", secretaryJSON).Code)
	rec := do(t, router, http.MethodPost, "/api/employees/s1/patterns/A/apply", ApplyRequest{Dates: []string{"2025-03-10"}})
	require.Equal(t, http.StatusCreated, rec.Code)

	balance := decode[BalanceDTO](t, do(t, router, http.MethodGet, "/api/employees/s1/balance?from=2025-03-10&to=2025-03-10", nil))
	assert.Equal(t, "hours", balance.Unit)
	assert.Equal(t, 8.0, balance.Achieved)
	assert.Equal(t, 8.0, balance.Contracted)
	require.NotNil(t, balance.OvertimeDelta)
	assert.Equal(t, 0.0, *balance.OvertimeDelta)
	require.Len(t, balance.Days, 1)

	// WHEN: Two hours owed are requested, then approved
	rec = do(t, router, http.MethodPost, "/api/leave", CreateLeaveRequest{
		EmployeeID: "s1", DateStart: "2025-03-10", LeaveType: "hours_owed",
		IsHalfDay: true, HoursOverride: ptr(2.0),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	leave := decode[LeaveDTO](t, rec)
	assert.Equal(t, "PENDING", leave.Status)
	assert.Equal(t, "2025-03-10", leave.DateEnd, "single-day default")

	pending := decode[[]LeaveDTO](t, do(t, router, http.MethodGet, "/api/leave/pending", nil))
	require.Len(t, pending, 1)

	rec = do(t, router, http.MethodPost, "/api/leave/"+leave.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APPROVED", decode[LeaveDTO](t, rec).Status)

	// THEN: The delta moves by the owed hours
	balance = decode[BalanceDTO](t, do(t, router, http.MethodGet, "/api/employees/s1/balance?from=2025-03-10&to=2025-03-10", nil))
	assert.Equal(t, 2.0, balance.OvertimeOwed)
	assert.Equal(t, 2.0, *balance.OvertimeDelta)
	assert.Equal(t, "over", balance.Status)

	ot := decode[OvertimeDTO](t, do(t, router, http.MethodGet, "/api/employees/s1/overtime?date=2025-03-12", nil))
	assert.Equal(t, "A", ot.WeekType)
	assert.Equal(t, 8.0, ot.Week.Achieved)
	assert.Equal(t, 8.0, ot.YearToDate.Achieved)
}

func TestBalance_BadRange(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", assistantJSON).Code)

	rec := do(t, router, http.MethodGet, "/api/employees/a1/balance?from=2025-03-16&to=2025-03-10", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/ghost/balance", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SHIFTS & LEAVE
// =============================================================================

func TestShifts_CreateConflictDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", assistantJSON).Code)

	req := CreateShiftRequest{EmployeeID: "a1", Date: "2025-03-10", Slot: "morning", Room: "R3"}
	rec := do(t, router, http.MethodPost, "/api/shifts", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	shift := decode[ShiftDTO](t, rec)
	assert.Equal(t, "MORNING", shift.Slot)
	assert.NotEmpty(t, shift.ID)

	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/api/shifts", req).Code)

	bad := CreateShiftRequest{EmployeeID: "a1", Date: "2025-03-10", Slot: "evening"}
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/shifts", bad).Code)

	ghost := CreateShiftRequest{EmployeeID: "ghost", Date: "2025-03-10", Slot: "afternoon"}
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/api/shifts", ghost).Code)

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/shifts/"+shift.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/shifts/"+shift.ID, nil).Code)
}

func TestLeave_RejectAndFilters(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", assistantJSON).Code)

	rec := do(t, router, http.MethodPost, "/api/leave", CreateLeaveRequest{
		EmployeeID: "a1", DateStart: "2025-03-10", DateEnd: "2025-03-12", LeaveType: "SICK_LEAVE",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[LeaveDTO](t, rec).ID

	rec = do(t, router, http.MethodPost, "/api/leave/"+id+"/reject", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "REJECTED", decode[LeaveDTO](t, rec).Status)

	rejected := decode[[]LeaveDTO](t, do(t, router, http.MethodGet, "/api/leave?status=rejected&from=2025-03-12", nil))
	assert.Len(t, rejected, 1)
	none := decode[[]LeaveDTO](t, do(t, router, http.MethodGet, "/api/leave?from=2025-03-13&to=2025-03-20", nil))
	assert.Empty(t, none)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/leave?status=maybe", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/api/leave/missing/approve", nil).Code)

	rec = do(t, router, http.MethodPost, "/api/leave", CreateLeaveRequest{EmployeeID: "a1", DateStart: "2025-03-10", LeaveType: "HOLIDAY"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, router, http.MethodPost, "/api/leave", CreateLeaveRequest{EmployeeID: "ghost", DateStart: "2025-03-10", LeaveType: "REST"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func ptr[T any](v T) *T { return &v }
