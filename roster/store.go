/*
store.go - Collaborator interfaces the engine reads from and writes to

PURPOSE:
  The engine owns no persistence. Shifts, leave, employees and patterns
  live behind these interfaces; implementations decide how they are stored.

KEY INTERFACES:
  ShiftStore:        List / create / delete shift assignments
  LeaveStore:        List leave records by employee, range and status
  EmployeeDirectory: Look employees up
  PatternStore:      Read and replace an employee's week-type templates

  Store bundles all of them plus the administrative writes the API needs.

UNIQUENESS:
  At most one assignment per (employee, date, slot). Implementations reject
  a second one with generic.ErrDuplicateShift. The applicator checks before
  creating, but the store's constraint is the only backstop against two
  concurrent applies.

IMPLEMENTATIONS:
  - store/memory: In-memory, for tests and the demo server
  - store/sqlite: SQLite via database/sql

SEE ALSO:
  - apply.go: Main writer
  - service.go: Store-backed facade
*/
package roster

import (
	"context"
	"time"

	"github.com/clinicrota/rota-engine/generic"
)

// =============================================================================
// FILTERS
// =============================================================================

// ShiftFilter selects assignments. An empty EmployeeID means everyone; a zero
// Period means all dates.
type ShiftFilter struct {
	EmployeeID EmployeeID
	Period     generic.Period
}

// Matches applies the filter to one row.
func (f ShiftFilter) Matches(s ShiftAssignment) bool {
	if f.EmployeeID != "" && s.EmployeeID != f.EmployeeID {
		return false
	}
	if !f.Period.Start.IsZero() && !f.Period.Contains(s.Date) {
		return false
	}
	return true
}

// LeaveFilter selects leave records overlapping Period. Empty fields match all.
type LeaveFilter struct {
	EmployeeID EmployeeID
	Period     generic.Period
	Status     LeaveStatus
}

// Matches applies the filter to one record.
func (f LeaveFilter) Matches(l LeaveRecord) bool {
	if f.EmployeeID != "" && l.EmployeeID != f.EmployeeID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if !f.Period.Start.IsZero() && !f.Period.Overlaps(l.DateStart, l.DateEnd) {
		return false
	}
	return true
}

// =============================================================================
// COLLABORATORS
// =============================================================================

type ShiftStore interface {
	ListShifts(ctx context.Context, f ShiftFilter) ([]ShiftAssignment, error)
	// CreateShift returns generic.ErrDuplicateShift when the slot is taken.
	CreateShift(ctx context.Context, s ShiftAssignment) (ShiftID, error)
	DeleteShift(ctx context.Context, id ShiftID) error
}

type LeaveStore interface {
	ListLeave(ctx context.Context, f LeaveFilter) ([]LeaveRecord, error)
}

type EmployeeDirectory interface {
	// GetEmployee returns generic.ErrEmployeeNotFound for an unknown id.
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
}

type PatternStore interface {
	GetPatterns(ctx context.Context, id EmployeeID) (a, b *WeekPattern, err error)
	SavePattern(ctx context.Context, id EmployeeID, wt generic.WeekType, p *WeekPattern) error
}

// LeaveWriter records requests and decisions.
type LeaveWriter interface {
	CreateLeave(ctx context.Context, l LeaveRecord) (LeaveID, error)
	// GetLeave returns generic.ErrLeaveNotFound for an unknown id.
	GetLeave(ctx context.Context, id LeaveID) (*LeaveRecord, error)
	SetLeaveStatus(ctx context.Context, id LeaveID, status LeaveStatus) error
}

// EmployeeWriter creates or replaces an employee, patterns included.
type EmployeeWriter interface {
	SaveEmployee(ctx context.Context, e Employee) error
}

// =============================================================================
// ROLL-OUT RUNS - Audit of scheduled weekly pattern applications
// =============================================================================

// Roll-out run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// RolloutRun records one employee's scheduled apply for one week.
type RolloutRun struct {
	ID          string
	EmployeeID  EmployeeID
	WeekStart   generic.TimePoint
	WeekType    generic.WeekType
	Status      string
	Created     int
	Skipped     int
	Failed      int
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// RolloutLog persists roll-out runs, one per (employee, week).
type RolloutLog interface {
	SaveRolloutRun(ctx context.Context, r RolloutRun) error
	// ListRolloutRuns returns newest first; an empty status lists all.
	ListRolloutRuns(ctx context.Context, status string) ([]RolloutRun, error)
	IsRolloutComplete(ctx context.Context, id EmployeeID, weekStart generic.TimePoint) (bool, error)
}

// Store is everything a deployment provides.
type Store interface {
	ShiftStore
	LeaveStore
	LeaveWriter
	EmployeeDirectory
	EmployeeWriter
	PatternStore
	RolloutLog
}
