/*
handlers.go - HTTP API handlers for the rota engine

PURPOSE:
  Exposes the roster service via REST API. Handles HTTP request/response and
  JSON serialization, and delegates to roster.Service.

ENDPOINTS:
  Calendar:
    GET    /api/week-type?date=                      Week number and A/B label

  Employees:
    GET    /api/employees                            List (?active=true)
    POST   /api/employees                            Create or replace from JSON
    GET    /api/employees/{id}                       Employee with resolved defaults
    PUT    /api/employees/{id}/patterns/{weekType}   Replace the A or B template
    GET    /api/employees/{id}/balance?from=&to=     Reconciliation over a range
    GET    /api/employees/{id}/overtime?date=        Week / month / YTD side by side
    POST   /api/employees/{id}/patterns/{weekType}/apply
                                                     Bulk-create missing shifts

  Shifts:
    GET    /api/shifts?employee_id=&from=&to=        List
    POST   /api/shifts                               Create one
    DELETE /api/shifts/{id}                          Delete one

  Leave:
    GET    /api/leave?employee_id=&from=&to=&status= List
    POST   /api/leave                                Request (PENDING by default)
    GET    /api/leave/pending                        Awaiting a decision
    POST   /api/leave/{id}/approve                   Approve
    POST   /api/leave/{id}/reject                    Reject

  Roll-outs:
    GET    /api/rollouts?status=                     Scheduled roll-out history
    POST   /api/rollouts/run                         Roll out a week now

  Scenarios:
    GET    /api/scenarios                            List demo scenarios
    POST   /api/scenarios/load                       Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (generic.IsClientError)
  - 404: Unknown employee, shift or leave record (generic.IsNotFound)
  - 409: Slot already taken (generic.IsConflict)
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/clinicrota/rota-engine/factory"
	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is a roster store that can also be wiped for demo scenarios.
type Store interface {
	roster.Store
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           Store
	Service         *roster.Service
	EmployeeFactory *factory.EmployeeFactory
	Logger          logrus.FieldLogger

	// Scheduler backs POST /api/rollouts/run; nil disables the endpoint.
	Scheduler *RolloutScheduler

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store Store, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Store:           store,
		Service:         roster.NewService(store, logger),
		EmployeeFactory: factory.NewEmployeeFactory(),
		Logger:          logger,
	}
}

// =============================================================================
// CALENDAR
// =============================================================================

// GetWeekType resolves the A/B label of a date (today by default).
func (h *Handler) GetWeekType(w http.ResponseWriter, r *http.Request) {
	day, err := dateParam(r, "date", generic.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	writeJSON(w, http.StatusOK, WeekTypeDTO{
		Date:       day.String(),
		WeekNumber: generic.WeekNumber(day),
		WeekType:   string(generic.ResolveWeekType(day)),
		WeekStart:  generic.WeekOf(day).Start.String(),
	})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, or only active ones with ?active=true.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	employees, err := h.Store.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i := range employees {
		dtos[i] = toEmployeeDTO(h.EmployeeFactory, &employees[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(h.EmployeeFactory, emp))
}

// CreateEmployee creates or replaces an employee from its JSON definition.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req factory.EmployeeJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.EmployeeFactory.FromJSON(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}
	if err := h.Service.SaveEmployee(r.Context(), *emp); err != nil {
		writeServiceError(w, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(h.EmployeeFactory, emp))
}

// SavePattern replaces the A or B template of an employee.
// PUT /api/employees/{id}/patterns/{weekType}
func (h *Handler) SavePattern(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := roster.EmployeeID(chi.URLParam(r, "id"))
	wt, err := generic.ParseWeekType(chi.URLParam(r, "weekType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Week type must be A or B", err)
		return
	}

	var pj factory.PatternJSON
	if err := json.NewDecoder(r.Body).Decode(&pj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Store.GetEmployee(ctx, id)
	if err != nil {
		writeServiceError(w, "Failed to get employee", err)
		return
	}
	pattern, err := h.EmployeeFactory.ParsePattern(emp.Role, pj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pattern", err)
		return
	}
	if err := h.Service.SavePattern(ctx, id, wt, pattern); err != nil {
		writeServiceError(w, "Failed to save pattern", err)
		return
	}

	emp.SetPattern(wt, pattern)
	writeJSON(w, http.StatusOK, toEmployeeDTO(h.EmployeeFactory, emp))
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// GetBalance reconciles an employee over ?from=&to= (the current week when
// omitted).
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))

	week := generic.WeekOf(generic.Today())
	from, err := dateParam(r, "from", week.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := dateParam(r, "to", week.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	balance, err := h.Service.Balance(r.Context(), id, generic.Period{Start: from, End: to})
	if err != nil {
		writeServiceError(w, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(balance, true))
}

// GetOvertime returns the week, month and year-to-date figures around ?date=.
func (h *Handler) GetOvertime(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))
	ref, err := dateParam(r, "date", generic.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	overtime, err := h.Service.Overtime(r.Context(), id, ref)
	if err != nil {
		writeServiceError(w, "Failed to compute overtime", err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeDTO(overtime))
}

// =============================================================================
// BULK APPLY
// =============================================================================

// ApplyPattern creates the missing shifts of a template on the given dates.
// POST /api/employees/{id}/patterns/{weekType}/apply
func (h *Handler) ApplyPattern(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))
	wt, err := generic.ParseWeekType(chi.URLParam(r, "weekType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Week type must be A or B", err)
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var dates []generic.TimePoint
	switch {
	case len(req.Dates) > 0:
		for _, s := range req.Dates {
			d, err := generic.ParseDate(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid date in dates (use YYYY-MM-DD)", err)
				return
			}
			dates = append(dates, d)
		}
	case req.WeekOf != "":
		d, err := generic.ParseDate(req.WeekOf)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid week_of (use YYYY-MM-DD)", err)
			return
		}
		dates = generic.WeekDates(d)
	default:
		writeError(w, http.StatusBadRequest, "Either dates or week_of is required", nil)
		return
	}

	result, err := h.Service.ApplyWeekPattern(r.Context(), id, wt, dates)
	if err != nil {
		writeServiceError(w, "Failed to apply pattern", err)
		return
	}

	status := http.StatusOK
	if result.Created > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, toApplyResultDTO(result))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns assignments filtered by ?employee_id=&from=&to=.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := roster.ShiftFilter{EmployeeID: roster.EmployeeID(r.URL.Query().Get("employee_id"))}
	period, ok, err := optionalPeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	if ok {
		filter.Period = period
	}

	shifts, err := h.Store.ListShifts(r.Context(), filter)
	if err != nil {
		writeServiceError(w, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift records a single assignment.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	shift, err := req.toShift()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	id, err := h.Service.CreateShift(r.Context(), shift)
	if err != nil {
		writeServiceError(w, "Failed to create shift", err)
		return
	}
	shift.ID = id
	writeJSON(w, http.StatusCreated, toShiftDTO(shift))
}

// DeleteShift removes an assignment.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := roster.ShiftID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteShift(r.Context(), id); err != nil {
		writeServiceError(w, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListLeave returns leave filtered by ?employee_id=&from=&to=&status=.
func (h *Handler) ListLeave(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := roster.LeaveFilter{EmployeeID: roster.EmployeeID(q.Get("employee_id"))}
	if s := q.Get("status"); s != "" {
		status, err := roster.ParseLeaveStatus(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid status", err)
			return
		}
		filter.Status = status
	}
	period, ok, err := optionalPeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	if ok {
		filter.Period = period
	}

	records, err := h.Store.ListLeave(r.Context(), filter)
	if err != nil {
		writeServiceError(w, "Failed to list leave", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTOs(records))
}

// CreateLeave records a leave request.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	leave, err := req.toLeave()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave", err)
		return
	}

	id, err := h.Service.RequestLeave(r.Context(), leave)
	if err != nil {
		writeServiceError(w, "Failed to record leave", err)
		return
	}
	saved, err := h.Store.GetLeave(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to read leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(*saved))
}

// ListPendingLeave returns requests awaiting a decision.
func (h *Handler) ListPendingLeave(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.PendingLeave(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to list pending leave", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTOs(records))
}

// ApproveLeave marks a request APPROVED; it then counts in balances.
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, roster.StatusApproved)
}

// RejectLeave marks a request REJECTED.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, roster.StatusRejected)
}

func (h *Handler) decideLeave(w http.ResponseWriter, r *http.Request, status roster.LeaveStatus) {
	id := roster.LeaveID(chi.URLParam(r, "id"))
	record, err := h.Service.DecideLeave(r.Context(), id, status)
	if err != nil {
		writeServiceError(w, "Failed to update leave", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(*record))
}

// =============================================================================
// ROLL-OUT HANDLERS
// =============================================================================

// ListRolloutRuns returns roll-out history, newest first.
// GET /api/rollouts?status=completed
func (h *Handler) ListRolloutRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRolloutRuns(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, "Failed to list roll-out runs", err)
		return
	}
	dtos := make([]RolloutRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRolloutRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TriggerRollout rolls out the week holding ?week_of= (today by default).
// POST /api/rollouts/run
func (h *Handler) TriggerRollout(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Roll-out scheduler not configured", nil)
		return
	}
	weekOf, err := dateParam(r, "week_of", generic.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_of (use YYYY-MM-DD)", err)
		return
	}

	runs := h.Scheduler.RolloutWeek(r.Context(), weekOf)
	dtos := make([]RolloutRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRolloutRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError picks the status from the error's category.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case generic.IsNotFound(err):
		status = http.StatusNotFound
	case generic.IsConflict(err):
		status = http.StatusConflict
	case generic.IsClientError(err):
		status = http.StatusBadRequest
	}
	writeError(w, status, message, err)
}

func dateParam(r *http.Request, name string, fallback generic.TimePoint) (generic.TimePoint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return generic.ParseDate(raw)
}

// optionalPeriod reads ?from=&to=. Either bound alone is a one-day range on
// that side.
func optionalPeriod(r *http.Request) (generic.Period, bool, error) {
	q := r.URL.Query()
	if q.Get("from") == "" && q.Get("to") == "" {
		return generic.Period{}, false, nil
	}
	from, err := dateParam(r, "from", generic.TimePoint{})
	if err != nil {
		return generic.Period{}, false, err
	}
	to, err := dateParam(r, "to", from)
	if err != nil {
		return generic.Period{}, false, err
	}
	if from.IsZero() {
		from = to
	}
	p := generic.Period{Start: from, End: to}
	if err := p.Validate(); err != nil {
		return generic.Period{}, false, fmt.Errorf("from/to: %w", err)
	}
	return p, true, nil
}
