/*
errors.go - Centralized error types for the rota engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain code wraps these with context; callers test with errors.Is.

ERROR CATEGORIES:
  1. Invalid input - caller bugs, rejected before any computation
  2. Not found     - unknown employee / leave record
  3. Conflicts     - store-level uniqueness violations

  Configuration gaps (no pattern, no per-half-day hours) are NOT errors:
  they resolve through documented fallbacks. Per-item failures inside a bulk
  apply are NOT returned as errors either: they are accumulated into the
  apply result.

SEE ALSO:
  - roster/balance.go: Fails fast with these before aggregating
  - api/handlers.go: Maps them to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a range is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidEmployee is returned for a nil employee, blank id or unknown role.
	ErrInvalidEmployee = errors.New("invalid employee")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrLeaveNotFound is returned when a referenced leave record doesn't exist.
	ErrLeaveNotFound = errors.New("leave record not found")

	// ErrShiftNotFound is returned when deleting an unknown shift.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrInvalidWeekType is returned for anything other than A or B.
	ErrInvalidWeekType = errors.New("invalid week type")

	// ErrPatternShape is returned when a pattern's shape doesn't match the
	// employee's role family (time ranges for hourly, flags for half-days).
	ErrPatternShape = errors.New("pattern shape does not match role")

	// ErrDuplicateShift enforces one assignment per (employee, date, slot).
	ErrDuplicateShift = errors.New("shift already exists for employee, date and slot")

	// ErrInvalidShift is returned for shifts with an unknown slot or no date.
	ErrInvalidShift = errors.New("invalid shift")

	// ErrInvalidLeave is returned for leave with unknown type/status or bad range.
	ErrInvalidLeave = errors.New("invalid leave record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidPeriodError explains why a period was rejected.
type InvalidPeriodError struct {
	Period Period
	Reason string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period %s: %s", e.Period, e.Reason)
}

func (e *InvalidPeriodError) Unwrap() error {
	return ErrInvalidPeriod
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidEmployee) ||
		errors.Is(err, ErrInvalidWeekType) ||
		errors.Is(err, ErrPatternShape) ||
		errors.Is(err, ErrInvalidShift) ||
		errors.Is(err, ErrInvalidLeave)
}

// IsConflict returns true for uniqueness violations.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateShift)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrLeaveNotFound) ||
		errors.Is(err, ErrShiftNotFound)
}
