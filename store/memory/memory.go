// Package memory provides an in-memory roster.Store for tests and the demo
// server.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/google/uuid"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	employees map[roster.EmployeeID]roster.Employee
	shifts    map[roster.ShiftID]roster.ShiftAssignment
	slots     map[slotKey]roster.ShiftID
	leave     map[roster.LeaveID]roster.LeaveRecord
	leaveSeq  []roster.LeaveID
	runs      map[runKey]roster.RolloutRun
}

type runKey struct {
	EmployeeID roster.EmployeeID
	WeekStart  string
}

type slotKey struct {
	EmployeeID roster.EmployeeID
	Day        string
	Slot       roster.Slot
}

var _ roster.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		employees: make(map[roster.EmployeeID]roster.Employee),
		shifts:    make(map[roster.ShiftID]roster.ShiftAssignment),
		slots:     make(map[slotKey]roster.ShiftID),
		leave:     make(map[roster.LeaveID]roster.LeaveRecord),
		runs:      make(map[runKey]roster.RolloutRun),
	}
}

// Reset drops everything.
func (m *Store) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = make(map[roster.EmployeeID]roster.Employee)
	m.shifts = make(map[roster.ShiftID]roster.ShiftAssignment)
	m.slots = make(map[slotKey]roster.ShiftID)
	m.leave = make(map[roster.LeaveID]roster.LeaveRecord)
	m.leaveSeq = nil
	m.runs = make(map[runKey]roster.RolloutRun)
	return nil
}

// =============================================================================
// EMPLOYEES & PATTERNS
// =============================================================================

func (m *Store) SaveEmployee(_ context.Context, e roster.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Store) GetEmployee(_ context.Context, id roster.EmployeeID) (*roster.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	return &e, nil
}

func (m *Store) ListEmployees(_ context.Context, activeOnly bool) ([]roster.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]roster.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if activeOnly && !e.Active {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) GetPatterns(_ context.Context, id roster.EmployeeID) (*roster.WeekPattern, *roster.WeekPattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	return e.PatternA, e.PatternB, nil
}

func (m *Store) SavePattern(_ context.Context, id roster.EmployeeID, wt generic.WeekType, p *roster.WeekPattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	e.SetPattern(wt, p)
	m.employees[id] = e
	return nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (m *Store) ListShifts(_ context.Context, f roster.ShiftFilter) ([]roster.ShiftAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []roster.ShiftAssignment
	for _, s := range m.shifts {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	sortShifts(out)
	return out, nil
}

// CreateShift enforces one row per (employee, date, slot).
func (m *Store) CreateShift(_ context.Context, s roster.ShiftAssignment) (roster.ShiftID, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	k := slotKey{EmployeeID: s.EmployeeID, Day: s.Date.Key(), Slot: s.Slot}
	if _, taken := m.slots[k]; taken {
		return "", fmt.Errorf("%w: %s %s %s", generic.ErrDuplicateShift, s.EmployeeID, s.Date, s.Slot)
	}
	if s.ID == "" {
		s.ID = roster.ShiftID(uuid.NewString())
	}
	if _, exists := m.shifts[s.ID]; exists {
		return "", fmt.Errorf("%w: id %s", generic.ErrDuplicateShift, s.ID)
	}
	m.shifts[s.ID] = s
	m.slots[k] = s.ID
	return s.ID, nil
}

func (m *Store) DeleteShift(_ context.Context, id roster.ShiftID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[id]
	if !ok {
		return fmt.Errorf("%w: %s", generic.ErrShiftNotFound, id)
	}
	delete(m.shifts, id)
	delete(m.slots, slotKey{EmployeeID: s.EmployeeID, Day: s.Date.Key(), Slot: s.Slot})
	return nil
}

func sortShifts(s []roster.ShiftAssignment) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].Date.Equal(s[j].Date) {
			return s[i].Date.Before(s[j].Date)
		}
		if s[i].EmployeeID != s[j].EmployeeID {
			return s[i].EmployeeID < s[j].EmployeeID
		}
		return s[i].Slot == roster.SlotMorning && s[j].Slot == roster.SlotAfternoon
	})
}

// =============================================================================
// LEAVE
// =============================================================================

func (m *Store) CreateLeave(_ context.Context, l roster.LeaveRecord) (roster.LeaveID, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		l.ID = roster.LeaveID(uuid.NewString())
	}
	if _, exists := m.leave[l.ID]; !exists {
		m.leaveSeq = append(m.leaveSeq, l.ID)
	}
	m.leave[l.ID] = l
	return l.ID, nil
}

func (m *Store) GetLeave(_ context.Context, id roster.LeaveID) (*roster.LeaveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leave[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrLeaveNotFound, id)
	}
	return &l, nil
}

func (m *Store) SetLeaveStatus(_ context.Context, id roster.LeaveID, status roster.LeaveStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leave[id]
	if !ok {
		return fmt.Errorf("%w: %s", generic.ErrLeaveNotFound, id)
	}
	l.Status = status
	m.leave[id] = l
	return nil
}

// ListLeave returns matches in insertion order.
func (m *Store) ListLeave(_ context.Context, f roster.LeaveFilter) ([]roster.LeaveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []roster.LeaveRecord
	for _, id := range m.leaveSeq {
		if l := m.leave[id]; f.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// =============================================================================
// ROLL-OUT RUNS
// =============================================================================

// SaveRolloutRun upserts on (employee, week).
func (m *Store) SaveRolloutRun(_ context.Context, r roster.RolloutRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[runKey{EmployeeID: r.EmployeeID, WeekStart: r.WeekStart.Key()}] = r
	return nil
}

func (m *Store) ListRolloutRuns(_ context.Context, status string) ([]roster.RolloutRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []roster.RolloutRun
	for _, r := range m.runs {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Store) IsRolloutComplete(_ context.Context, id roster.EmployeeID, weekStart generic.TimePoint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[runKey{EmployeeID: id, WeekStart: weekStart.Key()}]
	return ok && r.Status == roster.RunCompleted, nil
}
