// Package roster implements clinic workforce reconciliation on top of the
// generic primitives: shift work-units, leave classification, scheduled
// versus performed balances, and projection of week-type patterns onto
// concrete weeks.
package roster

import (
	"fmt"
	"strings"

	"github.com/clinicrota/rota-engine/generic"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type ShiftID string
type LeaveID string

// =============================================================================
// ROLE - Closed set; every switch over it is exhaustive
// =============================================================================

type Role string

const (
	RoleDoctor    Role = "doctor"
	RoleAssistant Role = "assistant"
	RoleSecretary Role = "secretary"
	RoleDirector  Role = "director"
)

// Roles lists every known role.
var Roles = []Role{RoleDoctor, RoleAssistant, RoleSecretary, RoleDirector}

// RoleFamily decides how work is counted for a role.
type RoleFamily int

const (
	// FamilyHalfDay roles count one unit per staffed half-day.
	FamilyHalfDay RoleFamily = iota
	// FamilyHourly roles count clocked hours.
	FamilyHourly
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", generic.ErrInvalidEmployee, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleAssistant, RoleSecretary, RoleDirector:
		return true
	}
	return false
}

// Family panics on an unknown role; roles are validated on the way in.
func (r Role) Family() RoleFamily {
	switch r {
	case RoleSecretary:
		return FamilyHourly
	case RoleDoctor, RoleAssistant, RoleDirector:
		return FamilyHalfDay
	}
	panic(fmt.Sprintf("roster: unknown role %q", r))
}

// Unit is the unit balances are reported in for this role.
func (r Role) Unit() generic.Unit {
	if r.Family() == FamilyHourly {
		return generic.UnitHours
	}
	return generic.UnitHalfDays
}

// DefaultContractedHours is the weekly contract used when an employee has none.
func (r Role) DefaultContractedHours() float64 {
	switch r {
	case RoleDoctor:
		return 40
	case RoleAssistant, RoleSecretary, RoleDirector:
		return 35
	}
	panic(fmt.Sprintf("roster: unknown role %q", r))
}

// =============================================================================
// EMPLOYEE
// =============================================================================

const (
	// DefaultHoursPerHalfDayLeave is used when HoursPerHalfDayLeave is nil.
	DefaultHoursPerHalfDayLeave = 4.0
	// DefaultHoursPerHalfDayWorked is the last fallback for unit roles.
	DefaultHoursPerHalfDayWorked = 3.5
)

// Employee is edited by an administrator and only read by the engine.
type Employee struct {
	ID     EmployeeID
	Name   string
	Role   Role
	Active bool

	ContractedHoursPerWeek *float64
	HoursPerHalfDayWorked  *float64 // unit roles
	HoursPerHalfDayLeave   *float64

	HalfDayLimitWeekA *int // unit roles
	HalfDayLimitWeekB *int
	HoursPerWeekA     *float64 // hourly roles
	HoursPerWeekB     *float64

	// CumulativeOvertimeBalance is owned by an external process. The engine
	// reads it for display and never writes it.
	CumulativeOvertimeBalance float64

	PatternA *WeekPattern
	PatternB *WeekPattern
}

// Validate checks what the engine relies on: an id and a known role.
// Patterns must match the role family.
func (e *Employee) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil employee", generic.ErrInvalidEmployee)
	}
	if strings.TrimSpace(string(e.ID)) == "" {
		return fmt.Errorf("%w: blank id", generic.ErrInvalidEmployee)
	}
	if !e.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q for %s", generic.ErrInvalidEmployee, e.Role, e.ID)
	}
	for _, p := range []*WeekPattern{e.PatternA, e.PatternB} {
		if err := p.ValidateFor(e.Role); err != nil {
			return fmt.Errorf("employee %s: %w", e.ID, err)
		}
	}
	return nil
}

// ContractedHours resolves the weekly contract with its role default.
func (e *Employee) ContractedHours() float64 {
	if e.ContractedHoursPerWeek != nil {
		return *e.ContractedHoursPerWeek
	}
	return e.Role.DefaultContractedHours()
}

// LeaveHoursPerHalfDay resolves HoursPerHalfDayLeave with its default.
func (e *Employee) LeaveHoursPerHalfDay() float64 {
	if e.HoursPerHalfDayLeave != nil {
		return *e.HoursPerHalfDayLeave
	}
	return DefaultHoursPerHalfDayLeave
}

// Pattern returns the template for a week type, nil when none is configured.
func (e *Employee) Pattern(wt generic.WeekType) *WeekPattern {
	if wt == generic.WeekB {
		return e.PatternB
	}
	return e.PatternA
}

// SetPattern replaces the template for a week type.
func (e *Employee) SetPattern(wt generic.WeekType, p *WeekPattern) {
	if wt == generic.WeekB {
		e.PatternB = p
		return
	}
	e.PatternA = p
}

// HalfDayLimit returns the half-day cap for a week type, if any.
func (e *Employee) HalfDayLimit(wt generic.WeekType) *int {
	if wt == generic.WeekB {
		return e.HalfDayLimitWeekB
	}
	return e.HalfDayLimitWeekA
}

// HoursPerWeek returns the hourly target for a week type, if any.
func (e *Employee) HoursPerWeek(wt generic.WeekType) *float64 {
	if wt == generic.WeekB {
		return e.HoursPerWeekB
	}
	return e.HoursPerWeekA
}

// =============================================================================
// SHIFT ASSIGNMENT
// =============================================================================

type Slot string

const (
	SlotMorning   Slot = "MORNING"
	SlotAfternoon Slot = "AFTERNOON"
)

func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToUpper(strings.TrimSpace(s))) {
	case SlotMorning:
		return SlotMorning, nil
	case SlotAfternoon:
		return SlotAfternoon, nil
	}
	return "", fmt.Errorf("%w: unknown slot %q", generic.ErrInvalidShift, s)
}

// MarkerPresent flags a half-day shift created from a template.
const MarkerPresent = "present"

// ShiftAssignment is one staffed (or rest) half-day.
type ShiftAssignment struct {
	ID         ShiftID
	EmployeeID EmployeeID
	Date       generic.TimePoint
	Slot       Slot

	// Hourly roles only.
	TimeStart  *generic.ClockTime
	TimeEnd    *generic.ClockTime
	BreakStart *generic.ClockTime
	BreakEnd   *generic.ClockTime

	Room              string
	LinkedEmployeeIDs []EmployeeID
	Marker            string

	// IsRest rows are administrative placeholders, excluded from every count.
	IsRest bool
}

// Validate checks the fields stores rely on.
func (s ShiftAssignment) Validate() error {
	if s.EmployeeID == "" {
		return fmt.Errorf("%w: missing employee", generic.ErrInvalidShift)
	}
	if s.Date.IsZero() {
		return fmt.Errorf("%w: missing date", generic.ErrInvalidShift)
	}
	if s.Slot != SlotMorning && s.Slot != SlotAfternoon {
		return fmt.Errorf("%w: unknown slot %q", generic.ErrInvalidShift, s.Slot)
	}
	return nil
}

// =============================================================================
// LEAVE RECORD
// =============================================================================

type LeaveType string

const (
	LeavePaid        LeaveType = "PAID_LEAVE"
	LeaveUnpaid      LeaveType = "UNPAID_LEAVE"
	LeaveSick        LeaveType = "SICK_LEAVE"
	LeaveRest        LeaveType = "REST"
	LeaveHoursOwed   LeaveType = "HOURS_OWED"
	LeaveHoursRepaid LeaveType = "HOURS_REPAID"
)

func ParseLeaveType(s string) (LeaveType, error) {
	lt := LeaveType(strings.ToUpper(strings.TrimSpace(s)))
	switch lt {
	case LeavePaid, LeaveUnpaid, LeaveSick, LeaveRest, LeaveHoursOwed, LeaveHoursRepaid:
		return lt, nil
	}
	return "", fmt.Errorf("%w: unknown leave type %q", generic.ErrInvalidLeave, s)
}

type LeaveStatus string

const (
	StatusPending  LeaveStatus = "PENDING"
	StatusApproved LeaveStatus = "APPROVED"
	StatusRejected LeaveStatus = "REJECTED"
)

func ParseLeaveStatus(s string) (LeaveStatus, error) {
	st := LeaveStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", generic.ErrInvalidLeave, s)
}

// LeaveRecord covers DateStart..DateEnd inclusive.
type LeaveRecord struct {
	ID         LeaveID
	EmployeeID EmployeeID
	DateStart  generic.TimePoint
	DateEnd    generic.TimePoint
	Type       LeaveType
	Status     LeaveStatus
	// IsHalfDay: the hours apply to one half-day; otherwise doubled per day.
	IsHalfDay     bool
	HoursOverride *float64
	Reason        string
}

// Covers reports whether the record spans the day.
func (l LeaveRecord) Covers(day generic.TimePoint) bool {
	return day.AfterOrEqual(l.DateStart) && day.BeforeOrEqual(l.DateEnd)
}

// Validate checks type, status and range.
func (l LeaveRecord) Validate() error {
	if l.EmployeeID == "" {
		return fmt.Errorf("%w: missing employee", generic.ErrInvalidLeave)
	}
	if _, err := ParseLeaveType(string(l.Type)); err != nil {
		return err
	}
	if _, err := ParseLeaveStatus(string(l.Status)); err != nil {
		return err
	}
	if l.DateStart.IsZero() || l.DateEnd.IsZero() || l.DateEnd.Before(l.DateStart) {
		return fmt.Errorf("%w: bad range %s..%s", generic.ErrInvalidLeave, l.DateStart, l.DateEnd)
	}
	if l.HoursOverride != nil && *l.HoursOverride < 0 {
		return fmt.Errorf("%w: negative hours override", generic.ErrInvalidLeave)
	}
	return nil
}

// HoursPerDay is the hour-equivalent the record carries on each covered day.
func (l LeaveRecord) HoursPerDay(emp *Employee) float64 {
	hours := emp.LeaveHoursPerHalfDay()
	if l.HoursOverride != nil {
		hours = *l.HoursOverride
	}
	if !l.IsHalfDay {
		hours *= 2
	}
	return hours
}

// HalfDaysPerDay is 1 for a half-day record, 2 otherwise.
func (l LeaveRecord) HalfDaysPerDay() int {
	if l.IsHalfDay {
		return 1
	}
	return 2
}
