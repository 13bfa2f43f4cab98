package roster

// =============================================================================
// LEAVE CLASSIFICATION - What each leave type does to the books
// =============================================================================

// OvertimeEffect is the sign a leave type applies to the overtime balance.
type OvertimeEffect int

const (
	OvertimeNone  OvertimeEffect = 0
	OvertimeRaise OvertimeEffect = 1  // hours owed to the employee
	OvertimeLower OvertimeEffect = -1 // owed hours taken back
)

// LeaveEffect is the accounting effect of one leave type.
//
// CountsAsWorked adds the leave's hours to effective worked time, so an
// absence that must not show as a deficit (sick, unpaid, paid) doesn't.
// CountsAsLeave feeds the user-facing "leave taken" counter, which only paid
// leave does. The two are independent: sick leave is worked time
// without being leave taken.
type LeaveEffect struct {
	CountsAsWorked bool
	CountsAsLeave  bool
	Overtime       OvertimeEffect
}

var leaveEffects = map[LeaveType]LeaveEffect{
	LeaveRest:        {},
	LeaveHoursOwed:   {Overtime: OvertimeRaise},
	LeaveHoursRepaid: {Overtime: OvertimeLower},
	LeavePaid:        {CountsAsWorked: true, CountsAsLeave: true},
	LeaveSick:        {CountsAsWorked: true},
	LeaveUnpaid:      {CountsAsWorked: true},
}

// Classify returns the effect of a leave type. Unknown types have no effect.
func Classify(t LeaveType) LeaveEffect {
	return leaveEffects[t]
}

// IsNoop reports an effect that touches no accumulator.
func (e LeaveEffect) IsNoop() bool {
	return !e.CountsAsWorked && !e.CountsAsLeave && e.Overtime == OvertimeNone
}
