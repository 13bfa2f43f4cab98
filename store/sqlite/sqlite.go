/*
Package sqlite provides a SQLite-backed implementation of roster.Store.

PURPOSE:
  Persists employees (with their A/B patterns), shift assignments, leave
  records and weekly roll-out runs. The engine itself owns no persistence
  format; this is one deployment choice behind the roster interfaces.

KEY TABLES:
  employees:     Configuration, patterns as JSON columns
  shifts:        One row per (employee, day, slot), enforced by a unique index
  leave_records: Inclusive date ranges with type and status
  rollout_runs:  One row per (employee, week) scheduled apply

DATES:
  Days are stored as YYYY-MM-DD text so range filters compare as strings.
  Audit timestamps are RFC3339.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block and
  there is a single writer at a time.

USAGE:
  store, err := sqlite.New("./data/rota.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := roster.NewService(store, logger)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - roster/store.go: Interface definitions
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements roster.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ roster.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		contracted_hours_per_week REAL,
		hours_per_half_day_worked REAL,
		hours_per_half_day_leave REAL,
		half_day_limit_week_a INTEGER,
		half_day_limit_week_b INTEGER,
		hours_per_week_a REAL,
		hours_per_week_b REAL,
		cumulative_overtime_balance REAL NOT NULL DEFAULT 0,
		pattern_a_json TEXT,
		pattern_b_json TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		day TEXT NOT NULL,
		slot TEXT NOT NULL,
		time_start TEXT,
		time_end TEXT,
		break_start TEXT,
		break_end TEXT,
		room TEXT,
		linked_json TEXT,
		marker TEXT,
		is_rest BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- One assignment per employee, day and slot
	CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_unique_slot
		ON shifts(employee_id, day, slot);
	CREATE INDEX IF NOT EXISTS idx_shifts_day
		ON shifts(day);

	CREATE TABLE IF NOT EXISTS leave_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date_start TEXT NOT NULL,
		date_end TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		is_half_day BOOLEAN NOT NULL DEFAULT FALSE,
		hours_override REAL,
		reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_employee_range
		ON leave_records(employee_id, date_start, date_end);
	CREATE INDEX IF NOT EXISTS idx_leave_status
		ON leave_records(status);

	CREATE TABLE IF NOT EXISTS rollout_runs (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		week_type TEXT NOT NULL,
		status TEXT NOT NULL,
		created INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT,
		completed_at TEXT,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, week_start)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES & PATTERNS
// =============================================================================

const employeeColumns = `id, name, role, active, contracted_hours_per_week,
	hours_per_half_day_worked, hours_per_half_day_leave,
	half_day_limit_week_a, half_day_limit_week_b,
	hours_per_week_a, hours_per_week_b, cumulative_overtime_balance,
	pattern_a_json, pattern_b_json`

// SaveEmployee creates or replaces an employee.
func (s *Store) SaveEmployee(ctx context.Context, e roster.Employee) error {
	patternA, err := encodePattern(e.PatternA)
	if err != nil {
		return err
	}
	patternB, err := encodePattern(e.PatternB)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (` + employeeColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			active = excluded.active,
			contracted_hours_per_week = excluded.contracted_hours_per_week,
			hours_per_half_day_worked = excluded.hours_per_half_day_worked,
			hours_per_half_day_leave = excluded.hours_per_half_day_leave,
			half_day_limit_week_a = excluded.half_day_limit_week_a,
			half_day_limit_week_b = excluded.half_day_limit_week_b,
			hours_per_week_a = excluded.hours_per_week_a,
			hours_per_week_b = excluded.hours_per_week_b,
			cumulative_overtime_balance = excluded.cumulative_overtime_balance,
			pattern_a_json = excluded.pattern_a_json,
			pattern_b_json = excluded.pattern_b_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.Name, e.Role, e.Active,
		nullFloat(e.ContractedHoursPerWeek),
		nullFloat(e.HoursPerHalfDayWorked),
		nullFloat(e.HoursPerHalfDayLeave),
		nullInt(e.HalfDayLimitWeekA),
		nullInt(e.HalfDayLimitWeekB),
		nullFloat(e.HoursPerWeekA),
		nullFloat(e.HoursPerWeekB),
		e.CumulativeOvertimeBalance,
		patternA, patternB,
		now, now,
	)
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id roster.EmployeeID) (*roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEmployees returns employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + employeeColumns + " FROM employees"
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []roster.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetPatterns returns the A and B templates.
func (s *Store) GetPatterns(ctx context.Context, id roster.EmployeeID) (*roster.WeekPattern, *roster.WeekPattern, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return e.PatternA, e.PatternB, nil
}

// SavePattern replaces one template column.
func (s *Store) SavePattern(ctx context.Context, id roster.EmployeeID, wt generic.WeekType, p *roster.WeekPattern) error {
	encoded, err := encodePattern(p)
	if err != nil {
		return err
	}
	column := "pattern_a_json"
	if wt == generic.WeekB {
		column = "pattern_b_json"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE employees SET "+column+" = ?, updated_at = ? WHERE id = ?",
		encoded, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (roster.Employee, error) {
	var e roster.Employee
	var contracted, worked, leave, hpwA, hpwB sql.NullFloat64
	var limitA, limitB sql.NullInt64
	var patternA, patternB sql.NullString

	err := row.Scan(
		&e.ID, &e.Name, &e.Role, &e.Active,
		&contracted, &worked, &leave,
		&limitA, &limitB,
		&hpwA, &hpwB, &e.CumulativeOvertimeBalance,
		&patternA, &patternB,
	)
	if err != nil {
		return e, err
	}

	e.ContractedHoursPerWeek = floatPtr(contracted)
	e.HoursPerHalfDayWorked = floatPtr(worked)
	e.HoursPerHalfDayLeave = floatPtr(leave)
	e.HalfDayLimitWeekA = intPtr(limitA)
	e.HalfDayLimitWeekB = intPtr(limitB)
	e.HoursPerWeekA = floatPtr(hpwA)
	e.HoursPerWeekB = floatPtr(hpwB)

	if e.PatternA, err = decodePattern(patternA); err != nil {
		return e, fmt.Errorf("employee %s pattern A: %w", e.ID, err)
	}
	if e.PatternB, err = decodePattern(patternB); err != nil {
		return e, fmt.Errorf("employee %s pattern B: %w", e.ID, err)
	}
	return e, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

const shiftColumns = `id, employee_id, day, slot, time_start, time_end,
	break_start, break_end, room, linked_json, marker, is_rest`

// CreateShift inserts an assignment. A taken (employee, day, slot) returns
// generic.ErrDuplicateShift.
func (s *Store) CreateShift(ctx context.Context, sh roster.ShiftAssignment) (roster.ShiftID, error) {
	if err := sh.Validate(); err != nil {
		return "", err
	}
	if sh.ID == "" {
		sh.ID = roster.ShiftID(uuid.NewString())
	}
	var linked sql.NullString
	if len(sh.LinkedEmployeeIDs) > 0 {
		b, err := json.Marshal(sh.LinkedEmployeeIDs)
		if err != nil {
			return "", err
		}
		linked = sql.NullString{String: string(b), Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (`+shiftColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.EmployeeID, sh.Date.Key(), sh.Slot,
		nullClock(sh.TimeStart), nullClock(sh.TimeEnd),
		nullClock(sh.BreakStart), nullClock(sh.BreakEnd),
		nullString(sh.Room), linked, nullString(sh.Marker), sh.IsRest,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return "", fmt.Errorf("%w: %s %s %s", generic.ErrDuplicateShift, sh.EmployeeID, sh.Date, sh.Slot)
		}
		return "", err
	}
	return sh.ID, nil
}

// ListShifts returns matching assignments by day, employee, then slot.
func (s *Store) ListShifts(ctx context.Context, f roster.ShiftFilter) ([]roster.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if f.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if !f.Period.Start.IsZero() {
		where = append(where, "day >= ? AND day <= ?")
		args = append(args, f.Period.Start.Key(), f.Period.End.Key())
	}

	query := "SELECT " + shiftColumns + " FROM shifts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day, employee_id, slot DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []roster.ShiftAssignment
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

// DeleteShift removes an assignment.
func (s *Store) DeleteShift(ctx context.Context, id roster.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrShiftNotFound, id)
	}
	return nil
}

func scanShift(row scanner) (roster.ShiftAssignment, error) {
	var sh roster.ShiftAssignment
	var day string
	var start, end, breakStart, breakEnd, room, linked, marker sql.NullString

	if err := row.Scan(
		&sh.ID, &sh.EmployeeID, &day, &sh.Slot,
		&start, &end, &breakStart, &breakEnd,
		&room, &linked, &marker, &sh.IsRest,
	); err != nil {
		return sh, err
	}

	var err error
	if sh.Date, err = generic.ParseDate(day); err != nil {
		return sh, err
	}
	for _, c := range []struct {
		src sql.NullString
		dst **generic.ClockTime
	}{
		{start, &sh.TimeStart}, {end, &sh.TimeEnd},
		{breakStart, &sh.BreakStart}, {breakEnd, &sh.BreakEnd},
	} {
		if *c.dst, err = parseClock(c.src); err != nil {
			return sh, err
		}
	}
	sh.Room = room.String
	sh.Marker = marker.String
	if linked.Valid {
		if err := json.Unmarshal([]byte(linked.String), &sh.LinkedEmployeeIDs); err != nil {
			return sh, fmt.Errorf("shift %s linked employees: %w", sh.ID, err)
		}
	}
	return sh, nil
}

// =============================================================================
// LEAVE
// =============================================================================

const leaveColumns = `id, employee_id, date_start, date_end, leave_type, status,
	is_half_day, hours_override, reason`

// CreateLeave inserts a leave record.
func (s *Store) CreateLeave(ctx context.Context, l roster.LeaveRecord) (roster.LeaveID, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	if l.ID == "" {
		l.ID = roster.LeaveID(uuid.NewString())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_records (`+leaveColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.EmployeeID, l.DateStart.Key(), l.DateEnd.Key(), l.Type, l.Status,
		l.IsHalfDay, nullFloat(l.HoursOverride), nullString(l.Reason),
		now, now,
	)
	if err != nil {
		return "", err
	}
	return l.ID, nil
}

// GetLeave retrieves a leave record by ID.
func (s *Store) GetLeave(ctx context.Context, id roster.LeaveID) (*roster.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+leaveColumns+" FROM leave_records WHERE id = ?", id)
	l, err := scanLeave(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrLeaveNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SetLeaveStatus records an approval decision.
func (s *Store) SetLeaveStatus(ctx context.Context, id roster.LeaveID, status roster.LeaveStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE leave_records SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrLeaveNotFound, id)
	}
	return nil
}

// ListLeave returns records overlapping the filter's period, oldest first.
func (s *Store) ListLeave(ctx context.Context, f roster.LeaveFilter) ([]roster.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if f.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if !f.Period.Start.IsZero() {
		where = append(where, "date_start <= ? AND date_end >= ?")
		args = append(args, f.Period.End.Key(), f.Period.Start.Key())
	}

	query := "SELECT " + leaveColumns + " FROM leave_records"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []roster.LeaveRecord
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, l)
	}
	return records, rows.Err()
}

func scanLeave(row scanner) (roster.LeaveRecord, error) {
	var l roster.LeaveRecord
	var start, end string
	var override sql.NullFloat64
	var reason sql.NullString

	if err := row.Scan(
		&l.ID, &l.EmployeeID, &start, &end, &l.Type, &l.Status,
		&l.IsHalfDay, &override, &reason,
	); err != nil {
		return l, err
	}

	var err error
	if l.DateStart, err = generic.ParseDate(start); err != nil {
		return l, err
	}
	if l.DateEnd, err = generic.ParseDate(end); err != nil {
		return l, err
	}
	l.HoursOverride = floatPtr(override)
	l.Reason = reason.String
	return l, nil
}

// =============================================================================
// ROLL-OUT RUNS
// =============================================================================

// SaveRolloutRun upserts on (employee, week).
func (s *Store) SaveRolloutRun(ctx context.Context, r roster.RolloutRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rollout_runs (id, employee_id, week_start, week_type, status,
			created, skipped, failed, error, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, week_start) DO UPDATE SET
			status = excluded.status,
			created = excluded.created,
			skipped = excluded.skipped,
			failed = excluded.failed,
			error = excluded.error,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, r.WeekStart.Key(), r.WeekType, r.Status,
		r.Created, r.Skipped, r.Failed, nullString(r.Error),
		nullTime(r.StartedAt), nullTime(r.CompletedAt),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListRolloutRuns returns runs, newest first.
func (s *Store) ListRolloutRuns(ctx context.Context, status string) ([]roster.RolloutRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, week_start, week_type, status, created, skipped,
			failed, error, started_at, completed_at, created_at
		FROM rollout_runs`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []roster.RolloutRun
	for rows.Next() {
		var r roster.RolloutRun
		var weekStart, createdAt string
		var errText, startedAt, completedAt sql.NullString
		if err := rows.Scan(
			&r.ID, &r.EmployeeID, &weekStart, &r.WeekType, &r.Status,
			&r.Created, &r.Skipped, &r.Failed, &errText,
			&startedAt, &completedAt, &createdAt,
		); err != nil {
			return nil, err
		}
		r.WeekStart, _ = generic.ParseDate(weekStart)
		r.Error = errText.String
		r.StartedAt = parseTime(startedAt)
		r.CompletedAt = parseTime(completedAt)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// IsRolloutComplete reports whether the week was already rolled out.
func (s *Store) IsRolloutComplete(ctx context.Context, id roster.EmployeeID, weekStart generic.TimePoint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rollout_runs
		WHERE employee_id = ? AND week_start = ? AND status = ?`,
		id, weekStart.Key(), roster.RunCompleted,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all data (for demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"shifts", "leave_records", "rollout_runs", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullClock(c *generic.ClockTime) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: c.String(), Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func intPtr(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}

func parseClock(s sql.NullString) (*generic.ClockTime, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	c, err := generic.ParseClockTime(s.String)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func parseTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func encodePattern(p *roster.WeekPattern) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode pattern: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodePattern(s sql.NullString) (*roster.WeekPattern, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var p roster.WeekPattern
	if err := json.Unmarshal([]byte(s.String), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
