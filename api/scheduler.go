/*
scheduler.go - Background reminder scheduler

PURPOSE:
  Periodically scans jobs and scheduled shifts and pushes reminder
  notifications through the notification port: one for each of the
  nearest upcoming pay period ends, and one per scheduled shift the
  user asked to be notified about.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Period reminders are recorded on the period (NotificationID) so
    they are scheduled once
  - Shift reminders are keyed by a stable identifier; the port treats
    Schedule as an upsert, so re-scheduling the same identifier is
    harmless

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReminderScheduler(store, notifier)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - engine/period.go: UpcomingPeriodReminders
  - ports.go: LogNotifier
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/shift-engine/engine"
)

// periodReminderLimit caps how many future period ends get reminders
// per job. Only the nearest two matter to the user.
const periodReminderLimit = 2

// ReminderScheduler pushes period-end and shift reminders.
type ReminderScheduler struct {
	Store         engine.Store
	Notifier      engine.NotificationPort
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReminderScheduler creates a new scheduler.
func NewReminderScheduler(store engine.Store, notifier engine.NotificationPort) *ReminderScheduler {
	return &ReminderScheduler{
		Store:         store,
		Notifier:      notifier,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *ReminderScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *ReminderScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *ReminderScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndSchedule()

	for {
		select {
		case <-rs.ticker.C:
			rs.checkAndSchedule()
		case <-rs.stop:
			return
		}
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (rs *ReminderScheduler) RunNow() {
	rs.checkAndSchedule()
}

func (rs *ReminderScheduler) checkAndSchedule() {
	ctx := context.Background()
	now := time.Now().UTC()

	jobs, err := rs.Store.ListJobs(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing jobs: %v", err)
		return
	}

	periodCount := 0
	shiftCount := 0

	for _, job := range jobs {
		periodCount += rs.schedulePeriodReminders(ctx, job, now)
		shiftCount += rs.scheduleShiftReminders(ctx, job, now)
	}

	if periodCount > 0 || shiftCount > 0 {
		log.Printf("[Scheduler] Scheduled %d period reminders, %d shift reminders", periodCount, shiftCount)
	}
}

func (rs *ReminderScheduler) schedulePeriodReminders(ctx context.Context, job engine.Job, now time.Time) int {
	if !job.PayPeriods.Enabled {
		return 0
	}

	periods, err := rs.Store.ListPeriods(ctx, job.ID)
	if err != nil {
		log.Printf("[Scheduler] Error listing periods for %s: %v", job.ID, err)
		return 0
	}

	events := engine.UpcomingPeriodReminders(job, periods, now, periodReminderLimit)
	scheduled := 0
	for _, n := range events {
		if err := rs.Notifier.Schedule(ctx, n); err != nil {
			log.Printf("[Scheduler] Error scheduling %s: %v", n.Identifier, err)
			continue
		}
		// Mark the period so the reminder is not re-created next tick.
		for i := range periods {
			if "period-"+string(periods[i].ID) == n.Identifier {
				periods[i].NotificationID = n.Identifier
				if err := rs.Store.SavePeriods(ctx, periods[i:i+1]); err != nil {
					log.Printf("[Scheduler] Error saving period %s: %v", periods[i].ID, err)
				}
				break
			}
		}
		scheduled++
	}
	return scheduled
}

func (rs *ReminderScheduler) scheduleShiftReminders(ctx context.Context, job engine.Job, now time.Time) int {
	shifts, err := rs.Store.ListScheduled(ctx, job.ID)
	if err != nil {
		log.Printf("[Scheduler] Error listing scheduled shifts for %s: %v", job.ID, err)
		return 0
	}

	scheduled := 0
	for _, s := range shifts {
		if !s.NotifyMe {
			continue
		}
		at := s.Start.Add(-s.ReminderBefore)
		if !at.After(now) {
			continue
		}
		err := rs.Notifier.Schedule(ctx, engine.Notification{
			Identifier: "shift-" + string(s.ID),
			Title:      "Upcoming shift",
			Body:       job.Name + " starts at " + s.Start.Format("15:04"),
			At:         at,
		})
		if err != nil {
			log.Printf("[Scheduler] Error scheduling shift reminder %s: %v", s.ID, err)
			continue
		}
		scheduled++
	}
	return scheduled
}
