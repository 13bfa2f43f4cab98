/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with a small clinic
	for demos. Each scenario creates employees from JSON, rolls their A/B
	templates onto the current week and records some leave.

AVAILABLE SCENARIOS:

	clinic-week:  One employee per role, current week rolled out, some leave
	leave-mix:    One secretary with every leave type across the week
	alternating:  A doctor whose A and B templates differ, two weeks rolled out

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Create employees via factory
 3. Apply patterns to the current week
 4. Record leave requests and decisions

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "clinic-week"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, week)
 3. Add case to loadScenario

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler
  - factory/employee.go: Employee JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "clinic-week",
		Name:        "Clinic Week",
		Description: "Doctor, assistant, secretary and director with this week rolled out",
	},
	{
		ID:          "leave-mix",
		Name:        "Leave Mix",
		Description: "One secretary with paid, sick, owed and repaid hours in the same week",
	},
	{
		ID:          "alternating",
		Name:        "Alternating Weeks",
		Description: "Doctor working ten half-days in A weeks and six in B weeks",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current, Description: "Currently loaded scenario"})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	known := false
	for _, s := range scenarios {
		known = known || s.ID == req.ScenarioID
	}
	if !known {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.LoadScenarioByID(r.Context(), req.ScenarioID); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.setScenario("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// LoadScenarioByID resets the store and loads a scenario anchored on the
// current week.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string) error {
	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	h.setScenario("")

	week := generic.WeekOf(generic.Today()).Start
	var err error
	switch id {
	case "clinic-week":
		err = h.loadClinicWeekScenario(ctx, week)
	case "leave-mix":
		err = h.loadLeaveMixScenario(ctx, week)
	case "alternating":
		err = h.loadAlternatingScenario(ctx, week)
	default:
		return fmt.Errorf("unknown scenario %q", id)
	}
	if err != nil {
		return err
	}

	h.setScenario(id)
	h.Logger.WithField("scenario", id).Info("scenario loaded")
	return nil
}

func (h *Handler) setScenario(id string) {
	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadClinicWeekScenario(ctx context.Context, week generic.TimePoint) error {
	employees := []string{
		`{
			"id": "doc-1", "name": "Dr. Martin", "role": "doctor",
			"hours_per_half_day_worked": 4.5,
			"pattern_a": [
				{"morning": true, "afternoon": true},
				{"morning": true, "afternoon": true},
				{"morning": true},
				{"morning": true, "afternoon": true},
				{"morning": true, "afternoon": true}
			]
		}`,
		`{
			"id": "asst-1", "name": "Lea", "role": "assistant",
			"half_day_limit_week_a": 10, "half_day_limit_week_b": 8,
			"pattern_a": [
				{"morning": true, "afternoon": true},
				{"morning": true, "afternoon": true},
				{"morning": true, "afternoon": true},
				{"morning": true, "afternoon": true},
				{"morning": true, "afternoon": true}
			]
		}`,
		`{
			"id": "sec-1", "name": "Claire", "role": "secretary",
			"hours_per_week_a": 35,
			"pattern_a": [
				{"start": "08:00", "end": "18:00", "break_start": "12:00", "break_end": "14:00"},
				{"start": "08:00", "end": "12:00"},
				{"start": "08:00", "end": "18:00", "break_start": "12:00", "break_end": "14:00"},
				{"start": "14:00", "end": "18:00"},
				{"start": "08:00", "end": "18:00", "break_start": "12:00", "break_end": "14:00"}
			]
		}`,
		`{"id": "dir-1", "name": "Mr. Bernard", "role": "director"}`,
	}
	if err := h.createEmployees(ctx, employees); err != nil {
		return err
	}

	// Patterns only cover week A; roll out as A whatever the calendar says.
	for _, id := range []roster.EmployeeID{"doc-1", "asst-1", "sec-1", "dir-1"} {
		if _, err := h.Service.ApplyWeek(ctx, id, generic.WeekA, week); err != nil {
			return fmt.Errorf("apply %s: %w", id, err)
		}
	}

	// Assistant: approved paid half-day on Wednesday, recorded after the
	// roll-out so the shifts stay.
	if err := h.recordLeave(ctx, roster.LeaveRecord{
		EmployeeID: "asst-1", DateStart: week.AddDays(2), DateEnd: week.AddDays(2),
		Type: roster.LeavePaid, IsHalfDay: true, Reason: "appointment",
	}, roster.StatusApproved); err != nil {
		return err
	}
	// Doctor: Friday requested, awaiting a decision.
	return h.recordLeave(ctx, roster.LeaveRecord{
		EmployeeID: "doc-1", DateStart: week.AddDays(4), DateEnd: week.AddDays(4),
		Type: roster.LeavePaid, Reason: "long weekend",
	}, "")
}

func (h *Handler) loadLeaveMixScenario(ctx context.Context, week generic.TimePoint) error {
	employee := `{
		"id": "sec-2", "name": "Sophie", "role": "secretary",
		"contracted_hours_per_week": 35,
		"cumulative_overtime_balance": 6.5,
		"pattern_a": [
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"}
		],
		"pattern_b": [
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"},
			{"start": "08:00", "end": "16:00", "break_start": "12:00", "break_end": "13:00"}
		]
	}`
	if err := h.createEmployees(ctx, []string{employee}); err != nil {
		return err
	}

	// Leave first: the roll-out leaves those days empty.
	owed := 3.0
	repaid := 2.0
	records := []roster.LeaveRecord{
		{EmployeeID: "sec-2", DateStart: week, DateEnd: week, Type: roster.LeaveSick, Reason: "flu"},
		{EmployeeID: "sec-2", DateStart: week.AddDays(1), DateEnd: week.AddDays(1), Type: roster.LeavePaid},
		{EmployeeID: "sec-2", DateStart: week.AddDays(3), DateEnd: week.AddDays(3), Type: roster.LeaveHoursOwed,
			IsHalfDay: true, HoursOverride: &owed, Reason: "Saturday open day"},
		{EmployeeID: "sec-2", DateStart: week.AddDays(4), DateEnd: week.AddDays(4), Type: roster.LeaveHoursRepaid,
			IsHalfDay: true, HoursOverride: &repaid},
	}
	for _, l := range records {
		if err := h.recordLeave(ctx, l, roster.StatusApproved); err != nil {
			return err
		}
	}

	_, err := h.Service.ApplyWeek(ctx, "sec-2", "", week)
	return err
}

func (h *Handler) loadAlternatingScenario(ctx context.Context, week generic.TimePoint) error {
	employee := `{
		"id": "doc-2", "name": "Dr. Petit", "role": "doctor",
		"half_day_limit_week_a": 10, "half_day_limit_week_b": 6,
		"pattern_a": [
			{"morning": true, "afternoon": true},
			{"morning": true, "afternoon": true},
			{"morning": true, "afternoon": true},
			{"morning": true, "afternoon": true},
			{"morning": true, "afternoon": true}
		],
		"pattern_b": [
			{"morning": true, "afternoon": true},
			{},
			{"morning": true, "afternoon": true},
			{},
			{"morning": true, "afternoon": true}
		]
	}`
	if err := h.createEmployees(ctx, []string{employee}); err != nil {
		return err
	}
	for _, w := range []generic.TimePoint{week, week.AddDays(7)} {
		if _, err := h.Service.ApplyWeek(ctx, "doc-2", "", w); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) createEmployees(ctx context.Context, defs []string) error {
	for _, def := range defs {
		emp, err := h.EmployeeFactory.ParseEmployee(def)
		if err != nil {
			return err
		}
		if err := h.Service.SaveEmployee(ctx, *emp); err != nil {
			return fmt.Errorf("save %s: %w", emp.ID, err)
		}
	}
	return nil
}

// recordLeave requests leave and, when decision is set, decides it.
func (h *Handler) recordLeave(ctx context.Context, l roster.LeaveRecord, decision roster.LeaveStatus) error {
	id, err := h.Service.RequestLeave(ctx, l)
	if err != nil {
		return fmt.Errorf("leave for %s: %w", l.EmployeeID, err)
	}
	if decision == "" {
		return nil
	}
	_, err = h.Service.DecideLeave(ctx, id, decision)
	return err
}
