/*
recurrence.go - Repeat series expansion and cancellation

PURPOSE:
  Expands a scheduled-shift template into a series of future instances
  sharing a repeat identifier, and cancels series from an anchor date
  forward. Past occurrences are always preserved on cancellation.

CADENCES:
  Daily, weekly, biweekly, monthly. Monthly steps by calendar month,
  so Jan 31 + 1 month normalizes per time.AddDate.

END CONDITIONS:
  A rule ends at Until (inclusive) or after MaxInstances, whichever
  comes first. maxSeriesInstances caps runaway rules.

SEE ALSO:
  - ports.go: Calendar add/remove requests for mirrored instances
*/
package engine

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CADENCE
// =============================================================================

type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// Next returns the start of the following occurrence.
func (c Cadence) Next(t time.Time) (time.Time, bool) {
	switch c {
	case CadenceDaily:
		return t.AddDate(0, 0, 1), true
	case CadenceWeekly:
		return t.AddDate(0, 0, 7), true
	case CadenceBiweekly:
		return t.AddDate(0, 0, 14), true
	case CadenceMonthly:
		return t.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}

// =============================================================================
// REPEAT RULE
// =============================================================================

// maxSeriesInstances bounds expansion regardless of the rule's end
// condition.
const maxSeriesInstances = 365

// RepeatRule describes how a template repeats.
type RepeatRule struct {
	Cadence      Cadence
	Until        time.Time // inclusive end; zero means "cap only"
	MaxInstances int       // 0 means "until Until", capped regardless
}

func (r RepeatRule) limit() int {
	n := r.MaxInstances
	if n <= 0 || n > maxSeriesInstances {
		n = maxSeriesInstances
	}
	return n
}

// =============================================================================
// EXPANSION
// =============================================================================

// ExpandSeries generates the instances of a repeat series from the
// template. The template itself becomes the first instance; all
// instances share a freshly generated repeat identifier. Instance IDs
// are generated per instance.
//
// Returns ErrInvalidDuration when the template interval is degenerate
// and ErrInvalidRepeatRule for an unknown cadence or a rule with no
// reachable occurrence.
func ExpandSeries(template ScheduledShift, rule RepeatRule) ([]ScheduledShift, error) {
	if !template.End.After(template.Start) {
		return nil, &InvalidDurationError{Start: template.Start, End: template.End}
	}
	if _, ok := rule.Cadence.Next(template.Start); !ok {
		return nil, ErrInvalidRepeatRule
	}
	if !rule.Until.IsZero() && rule.Until.Before(template.Start) {
		return nil, ErrInvalidRepeatRule
	}

	repeatID := uuid.NewString()
	length := template.End.Sub(template.Start)
	limit := rule.limit()

	var series []ScheduledShift
	start := template.Start
	for len(series) < limit {
		if !rule.Until.IsZero() && start.After(rule.Until) {
			break
		}
		inst := template
		inst.ID = ScheduleID(uuid.NewString())
		inst.Start = start
		inst.End = start.Add(length)
		inst.RepeatID = repeatID
		inst.Repeating = true
		series = append(series, inst)

		start, _ = rule.Cadence.Next(start)
	}
	return series, nil
}

// =============================================================================
// CANCELLATION
// =============================================================================

// CancelResult partitions a schedule set after a series cancellation.
type CancelResult struct {
	// Removed holds the canceled instances (start >= anchor, matching
	// repeat ID), Kept everything else.
	Removed []ScheduledShift
	Kept    []ScheduledShift

	// CalendarEventIDs of removed instances that were mirrored to an
	// external calendar; the caller requests their deletion.
	CalendarEventIDs []string

	// Found is false when no instance carries the repeat ID. The
	// cancellation is then a no-op, reported as a warning.
	Found    bool
	Warnings []Warning
}

// CancelSeries removes all instances of the series with start dates at
// or after the anchor. Past occurrences keep their repeat ID so the
// series history remains traceable.
func CancelSeries(instances []ScheduledShift, repeatID string, anchor time.Time) CancelResult {
	res := CancelResult{}
	for _, inst := range instances {
		if inst.RepeatID == repeatID {
			res.Found = true
			if !inst.Start.Before(anchor) {
				res.Removed = append(res.Removed, inst)
				if inst.CalendarEventID != "" {
					res.CalendarEventIDs = append(res.CalendarEventIDs, inst.CalendarEventID)
				}
				continue
			}
		}
		res.Kept = append(res.Kept, inst)
	}
	if !res.Found {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnSeriesNotFound,
			Message: "no scheduled shifts share this repeat identifier",
			Ref:     repeatID,
		})
	}
	return res
}
