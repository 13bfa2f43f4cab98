/*
apply.go - Projects a week-type template onto concrete dates

PURPOSE:
  The only writer in the engine. Turns an employee's pattern for week A or B
  into shift assignments for a given set of dates, creating only what is
  missing.

RULES PER DATE:
  - Sunday: nothing.
  - Covered by APPROVED or PENDING leave: every slot of the day is skipped.
  - Each slot the pattern needs:
      exists already          -> skipped
      otherwise               -> created (template times, or marker "present")

SLOTS NEEDED:
  Half-day roles: the day's morning / afternoon flags. With no pattern, the
  default Monday..Friday both-slot week applies.
  Hourly roles: a day with a break yields MORNING and AFTERNOON, both carrying
  the whole template (the work-unit calculator cuts each at the break). An
  unbroken day yields one slot, MORNING when it starts before 13:00. With no
  pattern nothing is created: there are no times to copy.

FAILURE MODEL:
  A batch of independent writes, not a transaction. A failed create is
  recorded and the loop moves on; nothing already created is rolled back.
  Reads and argument checks fail fast before any write. The context is only
  checked before the batch starts: once started, every date is processed.

IDEMPOTENCE:
  Applying the same pattern to the same dates twice creates nothing the
  second time.
*/
package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// RESULT
// =============================================================================

// ApplyFailure is one create that didn't go through.
type ApplyFailure struct {
	Date   generic.TimePoint
	Slot   Slot
	Reason string
}

// ApplyResult reports a bulk apply. Skipped counts slots left alone because of
// leave or an existing assignment.
type ApplyResult struct {
	Created  int
	Skipped  int
	Failures []ApplyFailure
	ShiftIDs []ShiftID
}

// Summary is the user-facing one-liner.
func (r ApplyResult) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Created, len(r.Failures))
}

// =============================================================================
// APPLICATOR
// =============================================================================

type Applicator struct {
	Shifts ShiftStore
	Leaves LeaveStore
	Logger logrus.FieldLogger
	// NewID mints shift ids; uuid v4 when nil.
	NewID func() ShiftID
}

func NewApplicator(shifts ShiftStore, leaves LeaveStore, logger logrus.FieldLogger) *Applicator {
	return &Applicator{Shifts: shifts, Leaves: leaves, Logger: logger}
}

func (a *Applicator) logger() logrus.FieldLogger {
	if a.Logger == nil {
		return logrus.StandardLogger()
	}
	return a.Logger
}

func (a *Applicator) newID() ShiftID {
	if a.NewID != nil {
		return a.NewID()
	}
	return ShiftID(uuid.NewString())
}

// ApplyWeekPattern creates the missing assignments of emp's wt pattern on the
// given dates.
func (a *Applicator) ApplyWeekPattern(ctx context.Context, emp *Employee, wt generic.WeekType, dates []generic.TimePoint) (ApplyResult, error) {
	var result ApplyResult

	if err := emp.Validate(); err != nil {
		return result, err
	}
	if _, err := generic.ParseWeekType(string(wt)); err != nil {
		return result, err
	}
	dates = uniqueDays(dates)
	if len(dates) == 0 {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	log := a.logger().WithFields(logrus.Fields{
		"employee":  emp.ID,
		"week_type": wt,
	})

	pattern := emp.Pattern(wt)
	if pattern == nil {
		switch emp.Role.Family() {
		case FamilyHalfDay:
			pattern = DefaultHalfDayPattern()
		case FamilyHourly:
			log.Warn("no pattern configured for hourly employee, nothing to apply")
			return result, nil
		}
	}

	span := generic.Period{Start: dates[0], End: dates[len(dates)-1]}

	existing, err := a.Shifts.ListShifts(ctx, ShiftFilter{EmployeeID: emp.ID, Period: span})
	if err != nil {
		return result, fmt.Errorf("list shifts for %s: %w", emp.ID, err)
	}
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[slotKey(s.Date, s.Slot)] = true
	}

	leave, err := a.Leaves.ListLeave(ctx, LeaveFilter{EmployeeID: emp.ID, Period: span})
	if err != nil {
		return result, fmt.Errorf("list leave for %s: %w", emp.ID, err)
	}
	var blocking []LeaveRecord
	for _, l := range leave {
		if l.Status == StatusApproved || l.Status == StatusPending {
			blocking = append(blocking, l)
		}
	}

	for _, day := range dates {
		if day.IsSunday() {
			continue
		}
		slots := pattern.SlotsFor(day)
		if len(slots) == 0 {
			continue
		}
		if onLeave(blocking, day) {
			log.WithField("date", day).Debug("date covered by leave, skipped")
			result.Skipped += len(slots)
			continue
		}

		for _, slot := range slots {
			if taken[slotKey(day, slot)] {
				result.Skipped++
				continue
			}
			shift := buildShift(emp, pattern, day, slot)
			shift.ID = a.newID()

			// Background context: a started batch runs to completion.
			id, err := a.Shifts.CreateShift(context.WithoutCancel(ctx), shift)
			switch {
			case errors.Is(err, generic.ErrDuplicateShift):
				result.Skipped++
			case err != nil:
				log.WithFields(logrus.Fields{"date": day, "slot": slot}).WithError(err).Warn("create shift failed")
				result.Failures = append(result.Failures, ApplyFailure{Date: day, Slot: slot, Reason: err.Error()})
			default:
				taken[slotKey(day, slot)] = true
				result.Created++
				result.ShiftIDs = append(result.ShiftIDs, id)
			}
		}
	}

	log.WithFields(logrus.Fields{
		"created": result.Created,
		"skipped": result.Skipped,
		"failed":  len(result.Failures),
	}).Info("week pattern applied")
	return result, nil
}

func buildShift(emp *Employee, pattern *WeekPattern, day generic.TimePoint, slot Slot) ShiftAssignment {
	s := ShiftAssignment{EmployeeID: emp.ID, Date: day, Slot: slot}
	switch emp.Role.Family() {
	case FamilyHourly:
		tpl, _ := pattern.HourlyDayFor(day)
		s.TimeStart = tpl.Start
		s.TimeEnd = tpl.End
		s.BreakStart = tpl.BreakStart
		s.BreakEnd = tpl.BreakEnd
	case FamilyHalfDay:
		s.Marker = MarkerPresent
	}
	return s
}

func onLeave(records []LeaveRecord, day generic.TimePoint) bool {
	for _, l := range records {
		if l.Covers(day) {
			return true
		}
	}
	return false
}

func slotKey(day generic.TimePoint, slot Slot) string {
	return day.Key() + "/" + string(slot)
}

func uniqueDays(dates []generic.TimePoint) []generic.TimePoint {
	seen := make(map[string]bool, len(dates))
	out := make([]generic.TimePoint, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() || seen[d.Key()] {
			continue
		}
		seen[d.Key()] = true
		out = append(out, generic.DayOf(d.Time))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
