/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario sets up the expected state:
	- Employees are created from JSON
	- Patterns are rolled onto the current week
	- Leave is recorded with the right status
	- Balances match expected values

These tests run against SQLite so they double as integration tests.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/clinicrota/rota-engine/store/sqlite"
	"github.com/sirupsen/logrus/hooks/test"
)

func setupTestHandler(t *testing.T) *Handler {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger, _ := test.NewNullLogger()
	return NewHandler(store, logger)
}

func countShifts(t *testing.T, h *Handler, id roster.EmployeeID) int {
	shifts, err := h.Store.ListShifts(context.Background(), roster.ShiftFilter{EmployeeID: id})
	if err != nil {
		t.Fatalf("Failed to list shifts: %v", err)
	}
	return len(shifts)
}

func TestScenario_ClinicWeek(t *testing.T) {
	// GIVEN: The clinic-week scenario
	// WHEN: Loading it
	// THEN: One employee per role, the week rolled out, two leave records

	h := setupTestHandler(t)
	ctx := context.Background()

	if err := h.LoadScenarioByID(ctx, "clinic-week"); err != nil {
		t.Fatalf("Failed to load clinic-week scenario: %v", err)
	}

	employees, err := h.Store.ListEmployees(ctx, false)
	if err != nil {
		t.Fatalf("Failed to list employees: %v", err)
	}
	if len(employees) != 4 {
		t.Fatalf("Expected 4 employees, got %d", len(employees))
	}

	expected := map[roster.EmployeeID]int{
		"doc-1":  9,  // Wednesday afternoon off
		"asst-1": 10, // every half-day
		"sec-1":  8,  // three split days, one morning, one afternoon
		"dir-1":  10, // no pattern: default week
	}
	for id, want := range expected {
		if got := countShifts(t, h, id); got != want {
			t.Errorf("%s: expected %d shifts, got %d", id, want, got)
		}
	}

	pending, err := h.Service.PendingLeave(ctx)
	if err != nil {
		t.Fatalf("Failed to list pending leave: %v", err)
	}
	if len(pending) != 1 || pending[0].EmployeeID != "doc-1" {
		t.Errorf("Expected one pending request for doc-1, got %+v", pending)
	}

	// The assistant's approved half-day of paid leave counts as leave taken.
	week := generic.WeekOf(generic.Today())
	balance, err := h.Service.Balance(ctx, "asst-1", week)
	if err != nil {
		t.Fatalf("Failed to compute balance: %v", err)
	}
	if balance.LeaveBalanceUnits.Float() != 1 {
		t.Errorf("Expected 1 half-day of leave, got %v", balance.LeaveBalanceUnits)
	}
	if balance.Achieved.Float() != 10 {
		t.Errorf("Expected 10 half-days achieved, got %v", balance.Achieved)
	}
}

func TestScenario_LeaveMix(t *testing.T) {
	// GIVEN: One secretary with leave on four of five days
	// WHEN: Loading the scenario
	// THEN: Only Wednesday is rolled out and the delta reflects every leave type

	h := setupTestHandler(t)
	ctx := context.Background()

	if err := h.LoadScenarioByID(ctx, "leave-mix"); err != nil {
		t.Fatalf("Failed to load leave-mix scenario: %v", err)
	}

	if got := countShifts(t, h, "sec-2"); got != 2 {
		t.Fatalf("Expected 2 shifts (Wednesday split), got %d", got)
	}

	week := generic.WeekOf(generic.Today())
	b, err := h.Service.Balance(ctx, "sec-2", week)
	if err != nil {
		t.Fatalf("Failed to compute balance: %v", err)
	}

	// achieved 7 + sick 8 + paid 8 - contracted 35 + owed 3 - repaid 2 = -11
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"achieved", b.Achieved.Float(), 7},
		{"contracted", b.Contracted.Float(), 35},
		{"worked from leave", b.WorkedTimeFromLeave.Float(), 16},
		{"owed", b.OvertimeOwed.Float(), 3},
		{"repaid", b.OvertimeRepaid.Float(), 2},
		{"leave units", b.LeaveBalanceUnits.Float(), 2},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
	if b.OvertimeDelta == nil || b.OvertimeDelta.Float() != -11 {
		t.Errorf("Expected overtime delta -11, got %v", b.OvertimeDelta)
	}

	emp, err := h.Store.GetEmployee(ctx, "sec-2")
	if err != nil {
		t.Fatalf("Failed to get employee: %v", err)
	}
	if emp.CumulativeOvertimeBalance != 6.5 {
		t.Errorf("Expected carried balance 6.5, got %v", emp.CumulativeOvertimeBalance)
	}
}

func TestScenario_Alternating(t *testing.T) {
	h := setupTestHandler(t)
	ctx := context.Background()

	if err := h.LoadScenarioByID(ctx, "alternating"); err != nil {
		t.Fatalf("Failed to load alternating scenario: %v", err)
	}

	// One A week (10 half-days) and one B week (6), in whichever order the
	// calendar gives them.
	if got := countShifts(t, h, "doc-2"); got != 16 {
		t.Errorf("Expected 16 shifts over two weeks, got %d", got)
	}

	this := generic.WeekOf(generic.Today())
	b, err := h.Service.Balance(ctx, "doc-2", this)
	if err != nil {
		t.Fatalf("Failed to compute balance: %v", err)
	}
	if b.Status != roster.StatusOK {
		t.Errorf("Expected the week to match its template, got %s (diff %v)", b.Status, b.Diff)
	}
}

func TestScenario_ReloadResets(t *testing.T) {
	h := setupTestHandler(t)
	ctx := context.Background()

	for _, id := range []string{"clinic-week", "alternating"} {
		if err := h.LoadScenarioByID(ctx, id); err != nil {
			t.Fatalf("Failed to load %s: %v", id, err)
		}
	}

	employees, err := h.Store.ListEmployees(ctx, false)
	if err != nil {
		t.Fatalf("Failed to list employees: %v", err)
	}
	if len(employees) != 1 || employees[0].ID != "doc-2" {
		t.Errorf("Expected only doc-2 after reload, got %d employees", len(employees))
	}
}

func TestScenario_Endpoints(t *testing.T) {
	h := setupTestHandler(t)
	router := NewRouter(h, nil)

	rec := do(t, router, http.MethodGet, "/api/scenarios", nil)
	if got := len(decode[[]ScenarioDTO](t, rec)); got != 3 {
		t.Errorf("Expected 3 scenarios, got %d", got)
	}

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scenario, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "leave-mix"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	if got := decode[ScenarioDTO](t, rec); got.ID != "leave-mix" {
		t.Errorf("Expected current scenario leave-mix, got %q", got.ID)
	}

	rec = do(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on reset, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	if body := rec.Body.String(); body != "null\n" {
		t.Errorf("Expected null current scenario, got %q", body)
	}
}
