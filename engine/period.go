/*
period.go - Pay period windows, coverage, and recomputation

PURPOSE:
  Pay periods are contiguous, non-overlapping windows of DurationDays
  length, anchored so that one window's end equals the job's
  LastPeriodEnd date. This file finds a shift's window, generates
  missing windows, and recomputes the per-window accumulators from the
  shift set.

COVERAGE IS EXPLICIT:
  Finding a period never creates one. A shift outside all existing
  windows yields a no-coverage diagnostic; the caller decides whether
  to call EnsureCoverage first. Silent auto-generation would hide
  configuration mistakes (a wrong anchor date manufactures an entire
  period history).

RECOMPUTATION:
  Recompute is a full pass, not incremental: accumulators are zeroed
  and every non-active shift is folded into its window. Running it
  twice on an unchanged shift set yields identical results. The
  legacy accumulate-without-reset behavior is preserved behind
  RecomputeOptions.LegacyAccumulate for callers that depend on the
  historical double-counting output; see DESIGN.md.

SEE ALSO:
  - clock.go: Day arithmetic
  - ports.go: Notification events for upcoming period ends
*/
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY PERIOD CONFIGURATION
// =============================================================================

// PayPeriodConfig is the per-job period schedule.
type PayPeriodConfig struct {
	Enabled       bool
	DurationDays  int       // window length, e.g. 7 or 14
	LastPeriodEnd time.Time // anchor: some window ends on this date
}

// WindowFor returns the window containing the given date, derived
// arithmetically from the anchor. ok is false when periods are
// disabled or misconfigured.
func (c PayPeriodConfig) WindowFor(date time.Time) (start, end time.Time, ok bool) {
	if !c.Enabled || c.DurationDays <= 0 || c.LastPeriodEnd.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	k := c.windowIndex(date)
	end = DayOf(c.LastPeriodEnd).AddDate(0, 0, k*c.DurationDays)
	start = end.AddDate(0, 0, -(c.DurationDays - 1))
	return start, end, true
}

// windowIndex returns the step count from the anchored window (index 0)
// to the window containing date. Negative indexes are past windows.
func (c PayPeriodConfig) windowIndex(date time.Time) int {
	diff := DaysBetween(c.LastPeriodEnd, date)
	return ceilDiv(diff, c.DurationDays)
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}

// =============================================================================
// PERIOD LOOKUP
// =============================================================================

// FindPeriod scans the period set for the window containing t.
// A linear scan is deliberate: realistic period counts are tiny.
func FindPeriod(periods []PayPeriod, t time.Time) (*PayPeriod, bool) {
	for i := range periods {
		if periods[i].Contains(t) {
			return &periods[i], true
		}
	}
	return nil, false
}

// =============================================================================
// COVERAGE GENERATION
// =============================================================================

// EnsureCoverage walks from the anchored window toward the target date
// in DurationDays steps and returns the windows missing from the
// existing set, keeping coverage contiguous. The caller persists the
// returned periods. Returns ErrPeriodsDisabled when the config has
// periods off.
func (c PayPeriodConfig) EnsureCoverage(jobID JobID, existing []PayPeriod, through time.Time) ([]PayPeriod, error) {
	if !c.Enabled || c.DurationDays <= 0 || c.LastPeriodEnd.IsZero() {
		return nil, ErrPeriodsDisabled
	}

	have := make(map[time.Time]bool, len(existing))
	for _, p := range existing {
		have[DayOf(p.Start)] = true
	}

	target := c.windowIndex(through)
	step := 1
	if target < 0 {
		step = -1
	}

	var created []PayPeriod
	for k := 0; ; k += step {
		end := DayOf(c.LastPeriodEnd).AddDate(0, 0, k*c.DurationDays)
		start := end.AddDate(0, 0, -(c.DurationDays - 1))
		if !have[start] {
			created = append(created, PayPeriod{
				ID:       PeriodID(uuid.NewString()),
				JobID:    jobID,
				Start:    start,
				End:      end,
				TotalPay: decimal.Zero,
			})
		}
		if k == target {
			break
		}
	}
	return created, nil
}

// =============================================================================
// RECOMPUTATION
// =============================================================================

// RecomputeOptions controls the accumulator pass.
type RecomputeOptions struct {
	// LegacyAccumulate skips zeroing accumulators before the scan,
	// reproducing the historical behavior where repeated recomputes
	// double-count. Off by default; kept for byte-compatible migration
	// of old period records only.
	LegacyAccumulate bool
}

// RecomputeResult carries the updated periods plus diagnostics for
// shifts no window covered.
type RecomputeResult struct {
	Periods    []PayPeriod
	Assigned   int
	Unassigned []ShiftID
	Warnings   []Warning
}

// RecomputePeriods folds every completed shift into its containing
// period. Input slices are not mutated; the result holds fresh copies.
func RecomputePeriods(periods []PayPeriod, shifts []Shift, opts RecomputeOptions) RecomputeResult {
	out := make([]PayPeriod, len(periods))
	copy(out, periods)

	if !opts.LegacyAccumulate {
		for i := range out {
			out[i].ShiftCount = 0
			out[i].TotalPay = decimal.Zero
			out[i].TotalSeconds = 0
		}
	}

	res := RecomputeResult{}
	for _, s := range shifts {
		if s.End.IsZero() {
			// Active shift, not yet completed.
			continue
		}
		p, found := FindPeriod(out, s.Start)
		if !found {
			res.Unassigned = append(res.Unassigned, s.ID)
			res.Warnings = append(res.Warnings, Warning{
				Code:    WarnNoPeriodCoverage,
				Message: fmt.Sprintf("no pay period covers shift starting %s", s.Start.Format(time.RFC3339)),
				Ref:     string(s.ID),
			})
			continue
		}
		p.ShiftCount++
		p.TotalPay = p.TotalPay.Add(s.TotalPay)
		p.TotalSeconds += s.DurationSeconds
		res.Assigned++
	}

	res.Periods = out
	return res
}

// =============================================================================
// PERIOD-END REMINDERS
// =============================================================================

// reminderHour is the hour-of-day (UTC) reminders fire on the period's
// last day.
const reminderHour = 9

// UpcomingPeriodReminders returns notification events for the nearest
// future period ends, at most limit of them. Periods that already have
// a scheduled reminder are skipped.
func UpcomingPeriodReminders(job Job, periods []PayPeriod, now time.Time, limit int) []Notification {
	var future []PayPeriod
	for _, p := range periods {
		if p.EndOfDay().After(now) && p.NotificationID == "" {
			future = append(future, p)
		}
	}
	sort.Slice(future, func(i, j int) bool { return future[i].End.Before(future[j].End) })
	if len(future) > limit {
		future = future[:limit]
	}

	events := make([]Notification, 0, len(future))
	for _, p := range future {
		events = append(events, Notification{
			Identifier: "period-" + string(p.ID),
			Title:      "Pay period ending",
			Body: fmt.Sprintf("Your %s pay period ends on %s.",
				job.Name, p.End.Format("Jan 2")),
			At: p.End.Add(reminderHour * time.Hour),
		})
	}
	return events
}
