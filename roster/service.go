package roster

import (
	"context"
	"fmt"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// SERVICE - Store-backed facade over the pure computations
// =============================================================================

// Service loads inputs from a Store and runs the engine on them. It holds no
// state of its own.
type Service struct {
	store Store
	apply *Applicator
	log   logrus.FieldLogger
}

func NewService(store Store, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		store: store,
		apply: NewApplicator(store, store, logger),
		log:   logger,
	}
}

// Store exposes the underlying store for plain CRUD.
func (s *Service) Store() Store { return s.store }

// Applicator exposes the bulk applicator, e.g. to override id minting.
func (s *Service) Applicator() *Applicator { return s.apply }

// Balance reconciles one employee over a period.
func (s *Service) Balance(ctx context.Context, id EmployeeID, period generic.Period) (Balance, error) {
	if err := period.Validate(); err != nil {
		return Balance{}, err
	}
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	return s.balanceFor(ctx, emp, period)
}

func (s *Service) balanceFor(ctx context.Context, emp *Employee, period generic.Period) (Balance, error) {
	shifts, err := s.store.ListShifts(ctx, ShiftFilter{EmployeeID: emp.ID, Period: period})
	if err != nil {
		return Balance{}, fmt.Errorf("list shifts: %w", err)
	}
	leave, err := s.store.ListLeave(ctx, LeaveFilter{EmployeeID: emp.ID, Period: period, Status: StatusApproved})
	if err != nil {
		return Balance{}, fmt.Errorf("list leave: %w", err)
	}
	return ComputeBalance(emp, period, shifts, leave)
}

// Overtime computes the week, month and year-to-date balances around ref.
// The three scopes are loaded and computed concurrently.
func (s *Service) Overtime(ctx context.Context, id EmployeeID, ref generic.TimePoint) (Overtime, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Overtime{}, err
	}
	if err := emp.Validate(); err != nil {
		return Overtime{}, err
	}

	balances := make([]Balance, len(Scopes))
	g, gctx := errgroup.WithContext(ctx)
	for i, scope := range Scopes {
		i, scope := i, scope
		g.Go(func() error {
			b, err := s.balanceFor(gctx, emp, scope.Period(ref))
			if err != nil {
				return fmt.Errorf("%s scope: %w", scope, err)
			}
			balances[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Overtime{}, err
	}

	out := Overtime{
		EmployeeID:        emp.ID,
		Reference:         ref,
		CumulativeBalance: emp.CumulativeOvertimeBalance,
	}
	for i, scope := range Scopes {
		out.Set(scope, balances[i])
	}
	return out, nil
}

// ApplyWeekPattern loads the employee and runs the bulk applicator.
func (s *Service) ApplyWeekPattern(ctx context.Context, id EmployeeID, wt generic.WeekType, dates []generic.TimePoint) (ApplyResult, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return ApplyResult{}, err
	}
	return s.apply.ApplyWeekPattern(ctx, emp, wt, dates)
}

// ApplyWeek applies a pattern to Monday..Saturday of the week holding weekOf.
// An empty wt uses the week's own type.
func (s *Service) ApplyWeek(ctx context.Context, id EmployeeID, wt generic.WeekType, weekOf generic.TimePoint) (ApplyResult, error) {
	if wt == "" {
		wt = generic.ResolveWeekType(weekOf)
	}
	return s.ApplyWeekPattern(ctx, id, wt, generic.WeekDates(weekOf))
}

// RolloutResult is one employee's part of a weekly roll-out.
type RolloutResult struct {
	EmployeeID EmployeeID
	Result     ApplyResult
	Err        error
}

// RolloutWeek applies each active employee's pattern for the week holding
// weekOf. One employee's error doesn't stop the others.
func (s *Service) RolloutWeek(ctx context.Context, weekOf generic.TimePoint) ([]RolloutResult, error) {
	employees, err := s.store.ListEmployees(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	wt := generic.ResolveWeekType(weekOf)
	dates := generic.WeekDates(weekOf)

	results := make([]RolloutResult, 0, len(employees))
	for i := range employees {
		emp := &employees[i]
		res, err := s.apply.ApplyWeekPattern(ctx, emp, wt, dates)
		if err != nil {
			s.log.WithField("employee", emp.ID).WithError(err).Error("roll-out failed")
		}
		results = append(results, RolloutResult{EmployeeID: emp.ID, Result: res, Err: err})
	}
	return results, nil
}

// =============================================================================
// ADMINISTRATIVE WRITES
// =============================================================================

// SaveEmployee validates and stores an employee.
func (s *Service) SaveEmployee(ctx context.Context, e Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.store.SaveEmployee(ctx, e)
}

// SavePattern replaces one week-type template after checking its shape.
func (s *Service) SavePattern(ctx context.Context, id EmployeeID, wt generic.WeekType, p *WeekPattern) error {
	if _, err := generic.ParseWeekType(string(wt)); err != nil {
		return err
	}
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if err := p.ValidateFor(emp.Role); err != nil {
		return err
	}
	return s.store.SavePattern(ctx, id, wt, p)
}

// CreateShift records a single assignment for a known employee.
func (s *Service) CreateShift(ctx context.Context, shift ShiftAssignment) (ShiftID, error) {
	if err := shift.Validate(); err != nil {
		return "", err
	}
	if _, err := s.store.GetEmployee(ctx, shift.EmployeeID); err != nil {
		return "", err
	}
	if shift.ID == "" {
		shift.ID = s.apply.newID()
	}
	return s.store.CreateShift(ctx, shift)
}

// RequestLeave stores a leave record, PENDING unless a status is given.
func (s *Service) RequestLeave(ctx context.Context, l LeaveRecord) (LeaveID, error) {
	if l.Status == "" {
		l.Status = StatusPending
	}
	if err := l.Validate(); err != nil {
		return "", err
	}
	if _, err := s.store.GetEmployee(ctx, l.EmployeeID); err != nil {
		return "", err
	}
	return s.store.CreateLeave(ctx, l)
}

// DecideLeave approves or rejects a record.
func (s *Service) DecideLeave(ctx context.Context, id LeaveID, status LeaveStatus) (*LeaveRecord, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, fmt.Errorf("%w: decision must be APPROVED or REJECTED, got %q", generic.ErrInvalidLeave, status)
	}
	if err := s.store.SetLeaveStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"leave": id, "status": status}).Info("leave decided")
	return s.store.GetLeave(ctx, id)
}

// PendingLeave lists records awaiting a decision, oldest first.
func (s *Service) PendingLeave(ctx context.Context) ([]LeaveRecord, error) {
	return s.store.ListLeave(ctx, LeaveFilter{Status: StatusPending})
}
