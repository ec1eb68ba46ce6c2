package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/engine/store"
)

// recordingNotifier captures scheduled notifications.
type recordingNotifier struct {
	mu        sync.Mutex
	scheduled []engine.Notification
}

func (n *recordingNotifier) Schedule(_ context.Context, event engine.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled = append(n.scheduled, event)
	return nil
}

func (n *recordingNotifier) Cancel(context.Context, string) error { return nil }

func (n *recordingNotifier) identifiers() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(n.scheduled))
	for _, e := range n.scheduled {
		ids = append(ids, e.Identifier)
	}
	return ids
}

func TestReminderScheduler_SchedulesPeriodRemindersOnce(t *testing.T) {
	// GIVEN: A job with two future periods
	// WHEN: Running the check twice
	// THEN: Each period gets exactly one reminder

	ctx := context.Background()
	mem := store.NewMemory()
	notifier := &recordingNotifier{}

	now := time.Now().UTC()
	job := engine.Job{
		ID:        "job-1",
		Name:      "Cafe",
		HourlyPay: decimal.NewFromInt(20),
		PayPeriods: engine.PayPeriodConfig{
			Enabled:       true,
			DurationDays:  14,
			LastPeriodEnd: engine.DayOf(now).AddDate(0, 0, 10),
		},
	}
	mem.SaveJob(ctx, job)
	created, err := job.PayPeriods.EnsureCoverage("job-1", nil, now.AddDate(0, 0, 20))
	if err != nil {
		t.Fatalf("EnsureCoverage: %v", err)
	}
	mem.SavePeriods(ctx, created)

	rs := NewReminderScheduler(mem, notifier)
	rs.RunNow()
	rs.RunNow()

	ids := notifier.identifiers()
	if len(ids) != 2 {
		t.Fatalf("scheduled %d reminders, want 2 (got %v)", len(ids), ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("reminder %s scheduled twice", id)
		}
		seen[id] = true
	}

	// Periods carry the reminder identifier afterwards.
	periods, _ := mem.ListPeriods(ctx, "job-1")
	for _, p := range periods {
		if p.EndOfDay().After(now) && p.NotificationID == "" {
			t.Errorf("future period %s not marked", p.ID)
		}
	}
}

func TestReminderScheduler_ShiftReminders(t *testing.T) {
	// GIVEN: A future scheduled shift with NotifyMe, and a past one
	// WHEN: Running the check
	// THEN: Only the future shift gets a reminder, offset by ReminderBefore

	ctx := context.Background()
	mem := store.NewMemory()
	notifier := &recordingNotifier{}

	now := time.Now().UTC()
	mem.SaveJob(ctx, engine.Job{ID: "job-1", Name: "Cafe", HourlyPay: decimal.NewFromInt(20)})
	mem.SaveScheduled(ctx, []engine.ScheduledShift{
		{
			ID: "future", JobID: "job-1",
			Start: now.Add(48 * time.Hour), End: now.Add(56 * time.Hour),
			NotifyMe: true, ReminderBefore: time.Hour,
		},
		{
			ID: "past", JobID: "job-1",
			Start: now.Add(-48 * time.Hour), End: now.Add(-40 * time.Hour),
			NotifyMe: true, ReminderBefore: time.Hour,
		},
		{
			ID: "silent", JobID: "job-1",
			Start: now.Add(24 * time.Hour), End: now.Add(32 * time.Hour),
		},
	})

	rs := NewReminderScheduler(mem, notifier)
	rs.RunNow()

	ids := notifier.identifiers()
	if len(ids) != 1 || ids[0] != "shift-future" {
		t.Fatalf("scheduled = %v, want [shift-future]", ids)
	}
	wantAt := now.Add(47 * time.Hour)
	if !notifier.scheduled[0].At.Equal(wantAt) {
		t.Errorf("At = %s, want %s", notifier.scheduled[0].At, wantAt)
	}
}
