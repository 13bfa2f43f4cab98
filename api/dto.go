/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the roster model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:  EmployeeDTO (wraps factory.EmployeeJSON)
  Shift:     ShiftDTO, CreateShiftRequest
  Leave:     LeaveDTO, CreateLeaveRequest
  Balance:   BalanceDTO, DayDTO, OvertimeDTO
  Apply:     ApplyRequest, ApplyResultDTO
  Calendar:  WeekTypeDTO
  Roll-out:  RolloutRunDTO
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the roster service, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/employee.go: EmployeeJSON type
*/
package api

import (
	"fmt"
	"time"

	"github.com/clinicrota/rota-engine/factory"
	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO is the stored employee plus the figures resolved from defaults.
type EmployeeDTO struct {
	factory.EmployeeJSON
	Unit                    generic.Unit `json:"unit"`
	ResolvedContractedHours float64      `json:"resolved_contracted_hours"`
	ResolvedLeaveHours      float64      `json:"resolved_hours_per_half_day_leave"`
}

func toEmployeeDTO(f *factory.EmployeeFactory, e *roster.Employee) EmployeeDTO {
	return EmployeeDTO{
		EmployeeJSON:            f.ToJSON(e),
		Unit:                    e.Role.Unit(),
		ResolvedContractedHours: e.ContractedHours(),
		ResolvedLeaveHours:      e.LeaveHoursPerHalfDay(),
	}
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift assignment.
type ShiftDTO struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	Date              string   `json:"date"`
	Slot              string   `json:"slot"`
	TimeStart         string   `json:"time_start,omitempty"`
	TimeEnd           string   `json:"time_end,omitempty"`
	BreakStart        string   `json:"break_start,omitempty"`
	BreakEnd          string   `json:"break_end,omitempty"`
	Room              string   `json:"room,omitempty"`
	LinkedEmployeeIDs []string `json:"linked_employee_ids,omitempty"`
	Marker            string   `json:"marker,omitempty"`
	IsRest            bool     `json:"is_rest"`
}

// CreateShiftRequest is the body of POST /api/shifts.
type CreateShiftRequest struct {
	EmployeeID        string   `json:"employee_id"`
	Date              string   `json:"date"`
	Slot              string   `json:"slot"`
	TimeStart         string   `json:"time_start,omitempty"`
	TimeEnd           string   `json:"time_end,omitempty"`
	BreakStart        string   `json:"break_start,omitempty"`
	BreakEnd          string   `json:"break_end,omitempty"`
	Room              string   `json:"room,omitempty"`
	LinkedEmployeeIDs []string `json:"linked_employee_ids,omitempty"`
	Marker            string   `json:"marker,omitempty"`
	IsRest            bool     `json:"is_rest,omitempty"`
}

func toShiftDTO(s roster.ShiftAssignment) ShiftDTO {
	dto := ShiftDTO{
		ID:         string(s.ID),
		EmployeeID: string(s.EmployeeID),
		Date:       s.Date.String(),
		Slot:       string(s.Slot),
		TimeStart:  clockString(s.TimeStart),
		TimeEnd:    clockString(s.TimeEnd),
		BreakStart: clockString(s.BreakStart),
		BreakEnd:   clockString(s.BreakEnd),
		Room:       s.Room,
		Marker:     s.Marker,
		IsRest:     s.IsRest,
	}
	for _, id := range s.LinkedEmployeeIDs {
		dto.LinkedEmployeeIDs = append(dto.LinkedEmployeeIDs, string(id))
	}
	return dto
}

func (req CreateShiftRequest) toShift() (roster.ShiftAssignment, error) {
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		return roster.ShiftAssignment{}, fmt.Errorf("%w: %v", generic.ErrInvalidShift, err)
	}
	slot, err := roster.ParseSlot(req.Slot)
	if err != nil {
		return roster.ShiftAssignment{}, err
	}
	s := roster.ShiftAssignment{
		EmployeeID: roster.EmployeeID(req.EmployeeID),
		Date:       date,
		Slot:       slot,
		Room:       req.Room,
		Marker:     req.Marker,
		IsRest:     req.IsRest,
	}
	for _, c := range []struct {
		src string
		dst **generic.ClockTime
	}{
		{req.TimeStart, &s.TimeStart}, {req.TimeEnd, &s.TimeEnd},
		{req.BreakStart, &s.BreakStart}, {req.BreakEnd, &s.BreakEnd},
	} {
		if c.src == "" {
			continue
		}
		t, err := generic.ParseClockTime(c.src)
		if err != nil {
			return roster.ShiftAssignment{}, fmt.Errorf("%w: %v", generic.ErrInvalidShift, err)
		}
		*c.dst = &t
	}
	for _, id := range req.LinkedEmployeeIDs {
		s.LinkedEmployeeIDs = append(s.LinkedEmployeeIDs, roster.EmployeeID(id))
	}
	return s, nil
}

// =============================================================================
// LEAVE
// =============================================================================

// LeaveDTO represents a leave record.
type LeaveDTO struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	DateStart     string   `json:"date_start"`
	DateEnd       string   `json:"date_end"`
	LeaveType     string   `json:"leave_type"`
	Status        string   `json:"status"`
	IsHalfDay     bool     `json:"is_half_day"`
	HoursOverride *float64 `json:"hours_override,omitempty"`
	Reason        string   `json:"reason,omitempty"`
}

// CreateLeaveRequest is the body of POST /api/leave. Status defaults to PENDING.
type CreateLeaveRequest struct {
	EmployeeID    string   `json:"employee_id"`
	DateStart     string   `json:"date_start"`
	DateEnd       string   `json:"date_end"`
	LeaveType     string   `json:"leave_type"`
	Status        string   `json:"status,omitempty"`
	IsHalfDay     bool     `json:"is_half_day,omitempty"`
	HoursOverride *float64 `json:"hours_override,omitempty"`
	Reason        string   `json:"reason,omitempty"`
}

func toLeaveDTO(l roster.LeaveRecord) LeaveDTO {
	return LeaveDTO{
		ID:            string(l.ID),
		EmployeeID:    string(l.EmployeeID),
		DateStart:     l.DateStart.String(),
		DateEnd:       l.DateEnd.String(),
		LeaveType:     string(l.Type),
		Status:        string(l.Status),
		IsHalfDay:     l.IsHalfDay,
		HoursOverride: l.HoursOverride,
		Reason:        l.Reason,
	}
}

func toLeaveDTOs(records []roster.LeaveRecord) []LeaveDTO {
	dtos := make([]LeaveDTO, len(records))
	for i, l := range records {
		dtos[i] = toLeaveDTO(l)
	}
	return dtos
}

func (req CreateLeaveRequest) toLeave() (roster.LeaveRecord, error) {
	start, err := generic.ParseDate(req.DateStart)
	if err != nil {
		return roster.LeaveRecord{}, fmt.Errorf("%w: date_start: %v", generic.ErrInvalidLeave, err)
	}
	end := start
	if req.DateEnd != "" {
		if end, err = generic.ParseDate(req.DateEnd); err != nil {
			return roster.LeaveRecord{}, fmt.Errorf("%w: date_end: %v", generic.ErrInvalidLeave, err)
		}
	}
	leaveType, err := roster.ParseLeaveType(req.LeaveType)
	if err != nil {
		return roster.LeaveRecord{}, err
	}
	var status roster.LeaveStatus
	if req.Status != "" {
		if status, err = roster.ParseLeaveStatus(req.Status); err != nil {
			return roster.LeaveRecord{}, err
		}
	}
	return roster.LeaveRecord{
		EmployeeID:    roster.EmployeeID(req.EmployeeID),
		DateStart:     start,
		DateEnd:       end,
		Type:          leaveType,
		Status:        status,
		IsHalfDay:     req.IsHalfDay,
		HoursOverride: req.HoursOverride,
		Reason:        req.Reason,
	}, nil
}

// =============================================================================
// BALANCES
// =============================================================================

// BalanceDTO is a reconciliation in display form. Figures are in Unit unless
// their name says hours.
type BalanceDTO struct {
	EmployeeID          string   `json:"employee_id"`
	Role                string   `json:"role"`
	Unit                string   `json:"unit"`
	From                string   `json:"from"`
	To                  string   `json:"to"`
	Achieved            float64  `json:"achieved"`
	Contracted          float64  `json:"contracted"`
	Diff                float64  `json:"diff"`
	Status              string   `json:"status"`
	AchievedHours       float64  `json:"achieved_hours"`
	WorkedTimeFromLeave float64  `json:"worked_time_from_leave"`
	OvertimeOwed        float64  `json:"overtime_owed"`
	OvertimeRepaid      float64  `json:"overtime_repaid"`
	EffectiveHours      *float64 `json:"effective_hours,omitempty"`
	OvertimeDelta       *float64 `json:"overtime_delta,omitempty"`
	LeaveBalanceUnits   float64  `json:"leave_balance_units"`
	Days                []DayDTO `json:"days,omitempty"`
}

// DayDTO is one day of the breakdown.
type DayDTO struct {
	Date       string  `json:"date"`
	WeekType   string  `json:"week_type"`
	Contracted float64 `json:"contracted"`
	Achieved   float64 `json:"achieved"`
	LeaveHours float64 `json:"leave_hours"`
}

func toBalanceDTO(b roster.Balance, withDays bool) BalanceDTO {
	dto := BalanceDTO{
		EmployeeID:          string(b.EmployeeID),
		Role:                string(b.Role),
		Unit:                string(b.Role.Unit()),
		From:                b.Period.Start.String(),
		To:                  b.Period.End.String(),
		Achieved:            b.Achieved.Float(),
		Contracted:          b.Contracted.Float(),
		Diff:                b.Diff.Float(),
		Status:              string(b.Status),
		AchievedHours:       b.AchievedHours.Float(),
		WorkedTimeFromLeave: b.WorkedTimeFromLeave.Float(),
		OvertimeOwed:        b.OvertimeOwed.Float(),
		OvertimeRepaid:      b.OvertimeRepaid.Float(),
		LeaveBalanceUnits:   b.LeaveBalanceUnits.Float(),
	}
	if b.EffectiveHours != nil {
		v := b.EffectiveHours.Float()
		dto.EffectiveHours = &v
	}
	if b.OvertimeDelta != nil {
		v := b.OvertimeDelta.Float()
		dto.OvertimeDelta = &v
	}
	if withDays {
		for _, d := range b.Days {
			dto.Days = append(dto.Days, DayDTO{
				Date:       d.Date.String(),
				WeekType:   string(d.WeekType),
				Contracted: d.Contracted.Round1().Float(),
				Achieved:   d.Achieved.Round1().Float(),
				LeaveHours: d.LeaveHours.Round1().Float(),
			})
		}
	}
	return dto
}

// OvertimeDTO shows the three scopes side by side.
type OvertimeDTO struct {
	EmployeeID        string     `json:"employee_id"`
	Date              string     `json:"date"`
	WeekType          string     `json:"week_type"`
	Week              BalanceDTO `json:"week"`
	Month             BalanceDTO `json:"month"`
	YearToDate        BalanceDTO `json:"ytd"`
	CumulativeBalance float64    `json:"cumulative_balance"`
}

func toOvertimeDTO(o roster.Overtime) OvertimeDTO {
	return OvertimeDTO{
		EmployeeID:        string(o.EmployeeID),
		Date:              o.Reference.String(),
		WeekType:          string(generic.ResolveWeekType(o.Reference)),
		Week:              toBalanceDTO(o.Week, false),
		Month:             toBalanceDTO(o.Month, false),
		YearToDate:        toBalanceDTO(o.YearToDate, false),
		CumulativeBalance: o.CumulativeBalance,
	}
}

// =============================================================================
// BULK APPLY
// =============================================================================

// ApplyRequest names the target dates, either explicitly or as the week
// holding week_of (Monday..Saturday).
type ApplyRequest struct {
	Dates  []string `json:"dates,omitempty"`
	WeekOf string   `json:"week_of,omitempty"`
}

// ApplyFailureDTO is one failed create.
type ApplyFailureDTO struct {
	Date   string `json:"date"`
	Slot   string `json:"slot"`
	Reason string `json:"reason"`
}

// ApplyResultDTO reports a bulk apply.
type ApplyResultDTO struct {
	Created  int               `json:"created"`
	Skipped  int               `json:"skipped"`
	Failures []ApplyFailureDTO `json:"failures"`
	Summary  string            `json:"summary"`
	ShiftIDs []string          `json:"shift_ids,omitempty"`
}

func toApplyResultDTO(r roster.ApplyResult) ApplyResultDTO {
	dto := ApplyResultDTO{
		Created:  r.Created,
		Skipped:  r.Skipped,
		Failures: []ApplyFailureDTO{},
		Summary:  r.Summary(),
	}
	for _, f := range r.Failures {
		dto.Failures = append(dto.Failures, ApplyFailureDTO{Date: f.Date.String(), Slot: string(f.Slot), Reason: f.Reason})
	}
	for _, id := range r.ShiftIDs {
		dto.ShiftIDs = append(dto.ShiftIDs, string(id))
	}
	return dto
}

// =============================================================================
// CALENDAR & ROLL-OUT
// =============================================================================

// WeekTypeDTO answers GET /api/week-type.
type WeekTypeDTO struct {
	Date       string `json:"date"`
	WeekNumber int    `json:"week_number"`
	WeekType   string `json:"week_type"`
	WeekStart  string `json:"week_start"`
}

// RolloutRunDTO represents a scheduled weekly roll-out.
type RolloutRunDTO struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	WeekStart   string  `json:"week_start"`
	WeekType    string  `json:"week_type"`
	Status      string  `json:"status"`
	Created     int     `json:"created"`
	Skipped     int     `json:"skipped"`
	Failed      int     `json:"failed"`
	Error       string  `json:"error,omitempty"`
	StartedAt   *string `json:"started_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

func toRolloutRunDTO(r roster.RolloutRun) RolloutRunDTO {
	return RolloutRunDTO{
		ID:          r.ID,
		EmployeeID:  string(r.EmployeeID),
		WeekStart:   r.WeekStart.String(),
		WeekType:    string(r.WeekType),
		Status:      r.Status,
		Created:     r.Created,
		Skipped:     r.Skipped,
		Failed:      r.Failed,
		Error:       r.Error,
		StartedAt:   timeString(r.StartedAt),
		CompletedAt: timeString(r.CompletedAt),
	}
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is returned for every non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func clockString(c *generic.ClockTime) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
