/*
scheduler.go - Automated weekly pattern roll-out

PURPOSE:
  Periodically applies every active employee's A/B template to an upcoming
  week so the rota is populated before anyone edits it by hand.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each tick targets the week LeadWeeks ahead of today
  - Skips (employee, week) pairs already rolled out successfully
  - Records roll-out runs for audit and UI display
  - A run with failed slots is recorded as failed and retried next tick;
    the apply only creates what is missing, so a retry is safe

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - LeadWeeks:     How far ahead to roll out (default: 1, i.e. next week)
  - Enabled:       Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRolloutScheduler(store, service, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerRollout endpoint (manual roll-out)
  - roster/apply.go: Applicator
*/
package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RolloutScheduler handles automated weekly roll-outs.
type RolloutScheduler struct {
	Store         roster.Store
	Service       *roster.Service
	Logger        logrus.FieldLogger
	CheckInterval time.Duration
	LeadWeeks     int
	Enabled       bool

	// Today is the clock; generic.Today when nil.
	Today func() generic.TimePoint

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRolloutScheduler creates a new scheduler.
func NewRolloutScheduler(store roster.Store, service *roster.Service, logger logrus.FieldLogger) *RolloutScheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RolloutScheduler{
		Store:         store,
		Service:       service,
		Logger:        logger.WithField("component", "scheduler"),
		CheckInterval: 1 * time.Hour,
		LeadWeeks:     1,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (rs *RolloutScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Info("disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	rs.Logger.WithField("interval", rs.CheckInterval).Info("started")
}

// Stop stops the scheduler and waits for an in-flight roll-out.
func (rs *RolloutScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info("stopped")
	}
}

func (rs *RolloutScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndProcess()

	for {
		select {
		case <-rs.ticker.C:
			rs.checkAndProcess()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RolloutScheduler) today() generic.TimePoint {
	if rs.Today != nil {
		return rs.Today()
	}
	return generic.Today()
}

// TargetWeek is the Monday the next tick rolls out.
func (rs *RolloutScheduler) TargetWeek() generic.TimePoint {
	return generic.WeekOf(rs.today().AddDays(7 * rs.LeadWeeks)).Start
}

func (rs *RolloutScheduler) checkAndProcess() {
	rs.RolloutWeek(context.Background(), rs.TargetWeek())
}

// RunNow triggers an immediate check (for testing/admin).
func (rs *RolloutScheduler) RunNow() {
	rs.checkAndProcess()
}

// RolloutWeek rolls out the week holding weekOf for every active employee
// not yet done, and returns the runs it recorded.
func (rs *RolloutScheduler) RolloutWeek(ctx context.Context, weekOf generic.TimePoint) []roster.RolloutRun {
	week := generic.WeekOf(weekOf)
	log := rs.Logger.WithField("week", week.Start.String())

	employees, err := rs.Store.ListEmployees(ctx, true)
	if err != nil {
		log.WithError(err).Error("listing employees")
		return nil
	}

	var runs []roster.RolloutRun
	skipped := 0
	for _, emp := range employees {
		done, err := rs.Store.IsRolloutComplete(ctx, emp.ID, week.Start)
		if err != nil {
			log.WithField("employee", emp.ID).WithError(err).Error("checking roll-out status")
			continue
		}
		if done {
			skipped++
			continue
		}
		run, err := rs.processRollout(ctx, emp.ID, week.Start)
		if err != nil {
			log.WithField("employee", emp.ID).WithError(err).Error("roll-out failed")
		}
		runs = append(runs, run)
	}

	if len(runs) > 0 || skipped > 0 {
		log.WithFields(logrus.Fields{"processed": len(runs), "skipped": skipped}).Info("roll-out completed")
	}
	return runs
}

func (rs *RolloutScheduler) processRollout(ctx context.Context, id roster.EmployeeID, weekStart generic.TimePoint) (roster.RolloutRun, error) {
	startTime := time.Now()
	run := roster.RolloutRun{
		ID:         "run-" + uuid.NewString(),
		EmployeeID: id,
		WeekStart:  weekStart,
		WeekType:   generic.ResolveWeekType(weekStart),
		Status:     roster.RunRunning,
		StartedAt:  &startTime,
		CreatedAt:  startTime,
	}
	if err := rs.Store.SaveRolloutRun(ctx, run); err != nil {
		return run, err
	}

	result, err := rs.Service.ApplyWeek(ctx, id, run.WeekType, weekStart)
	completedTime := time.Now()
	run.CompletedAt = &completedTime
	run.Created = result.Created
	run.Skipped = result.Skipped
	run.Failed = len(result.Failures)

	switch {
	case err != nil:
		run.Status = roster.RunFailed
		run.Error = err.Error()
	case run.Failed > 0:
		run.Status = roster.RunFailed
		run.Error = result.Summary()
		err = errors.New(run.Error)
	default:
		run.Status = roster.RunCompleted
	}

	if serr := rs.Store.SaveRolloutRun(ctx, run); serr != nil {
		return run, errors.Join(err, serr)
	}

	rs.Logger.WithFields(logrus.Fields{
		"employee": id,
		"week":     weekStart.String(),
		"created":  run.Created,
		"skipped":  run.Skipped,
		"failed":   run.Failed,
	}).Info("rolled out")
	return run, err
}
