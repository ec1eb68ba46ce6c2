package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/engine/store"
)

// The memory store must satisfy the full persistence contract.
var _ engine.Store = (*store.Memory)(nil)

func testJob(id engine.JobID) engine.Job {
	return engine.Job{
		ID:        id,
		Name:      "Cafe",
		HourlyPay: decimal.NewFromInt(20),
	}
}

func testShift(id engine.ShiftID, jobID engine.JobID, start time.Time) engine.Shift {
	return engine.Shift{
		ID:        id,
		JobID:     jobID,
		Start:     start,
		End:       start.Add(8 * time.Hour),
		HourlyPay: decimal.NewFromInt(20),
	}
}

func TestMemory_JobRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	if err := m.SaveJob(ctx, testJob("job-1")); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	got, err := m.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Name != "Cafe" {
		t.Errorf("Name = %q, want Cafe", got.Name)
	}

	if _, err := m.GetJob(ctx, "missing"); !errors.Is(err, engine.ErrJobNotFound) {
		t.Errorf("missing job: err = %v, want ErrJobNotFound", err)
	}
}

func TestMemory_DeleteJobCascades(t *testing.T) {
	// GIVEN: A job with a shift, a period, and a scheduled shift
	// WHEN: Deleting the job
	// THEN: Everything it owns is gone

	ctx := context.Background()
	m := store.NewMemory()
	start := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

	m.SaveJob(ctx, testJob("job-1"))
	m.SaveShift(ctx, testShift("s1", "job-1", start))
	m.SavePeriods(ctx, []engine.PayPeriod{{ID: "p1", JobID: "job-1"}})
	m.SaveScheduled(ctx, []engine.ScheduledShift{{ID: "sc1", JobID: "job-1", Start: start}})

	if err := m.DeleteJob(ctx, "job-1"); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}

	if _, err := m.GetShift(ctx, "s1"); !errors.Is(err, engine.ErrShiftNotFound) {
		t.Errorf("shift survived cascade: %v", err)
	}
	if periods, _ := m.ListPeriods(ctx, "job-1"); len(periods) != 0 {
		t.Errorf("periods survived cascade: %d", len(periods))
	}
	if scheduled, _ := m.ListScheduled(ctx, "job-1"); len(scheduled) != 0 {
		t.Errorf("scheduled shifts survived cascade: %d", len(scheduled))
	}
}

func TestMemory_ListShiftsSortedByStart(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	base := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

	m.SaveShift(ctx, testShift("late", "job-1", base.AddDate(0, 0, 2)))
	m.SaveShift(ctx, testShift("early", "job-1", base))
	m.SaveShift(ctx, testShift("other", "job-2", base))

	shifts, err := m.ListShifts(ctx, "job-1")
	if err != nil {
		t.Fatalf("ListShifts: %v", err)
	}
	if len(shifts) != 2 || shifts[0].ID != "early" || shifts[1].ID != "late" {
		t.Errorf("shifts = %v, want [early late]", shifts)
	}
}

func TestMemory_ListShiftsInRange(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	base := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

	m.SaveShift(ctx, testShift("in", "job-1", base))
	m.SaveShift(ctx, testShift("before", "job-1", base.AddDate(0, 0, -10)))
	m.SaveShift(ctx, testShift("otherjob", "job-2", base))

	// All jobs in range.
	all, _ := m.ListShiftsInRange(ctx, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), nil)
	if len(all) != 2 {
		t.Errorf("all jobs: got %d shifts, want 2", len(all))
	}

	// Filtered to job-1.
	jobID := engine.JobID("job-1")
	filtered, _ := m.ListShiftsInRange(ctx, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1), &jobID)
	if len(filtered) != 1 || filtered[0].ID != "in" {
		t.Errorf("filtered = %v, want [in]", filtered)
	}
}

func TestMemory_SaveShiftCopiesBreaks(t *testing.T) {
	// GIVEN: A shift saved with one break
	// WHEN: The caller mutates its break slice afterwards
	// THEN: The stored record is unaffected

	ctx := context.Background()
	m := store.NewMemory()
	start := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

	s := testShift("s1", "job-1", start)
	s.Breaks = []engine.Break{{ID: "b1", Start: start, End: start.Add(30 * time.Minute), Unpaid: true}}
	m.SaveShift(ctx, s)

	s.Breaks[0].ID = "mutated"

	got, _ := m.GetShift(ctx, "s1")
	if got.Breaks[0].ID != "b1" {
		t.Errorf("stored break ID = %q, want b1", got.Breaks[0].ID)
	}
}

func TestMemory_SeriesLookupAndDelete(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	start := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)

	m.SaveScheduled(ctx, []engine.ScheduledShift{
		{ID: "a", JobID: "job-1", Start: start, RepeatID: "series-x"},
		{ID: "b", JobID: "job-1", Start: start.AddDate(0, 0, 7), RepeatID: "series-x"},
		{ID: "c", JobID: "job-1", Start: start, RepeatID: "series-y"},
	})

	series, err := m.ListSeries(ctx, "series-x")
	if err != nil {
		t.Fatalf("ListSeries: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("got %d instances, want 2", len(series))
	}

	if err := m.DeleteScheduled(ctx, []engine.ScheduleID{"a", "b"}); err != nil {
		t.Fatalf("DeleteScheduled: %v", err)
	}
	remaining, _ := m.ListScheduled(ctx, "job-1")
	if len(remaining) != 1 || remaining[0].ID != "c" {
		t.Errorf("remaining = %v, want [c]", remaining)
	}
}
