/*
stats.go - Rollups over a shift collection

PURPOSE:
  Buckets shifts by calendar unit (day/week/month) over a date range
  and sums pay, worked time, and break time per bucket, plus overall
  totals. Feeds charts and the summary header of the history screen.

RANGE PRESETS:
  The "week" preset is a rolling 7 days ending now, not a calendar
  week. Month, six months, and year slide back by calendar units.

FILTERING:
  An optional job filter is an equality predicate on JobID; nil means
  all jobs.

SEE ALSO:
  - clock.go: Bucket anchors (DayOf, StartOfWeek, StartOfMonth)
*/
package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RANGE PRESETS
// =============================================================================

type RangePreset string

const (
	RangeWeek      RangePreset = "week"
	RangeMonth     RangePreset = "month"
	RangeSixMonths RangePreset = "six_months"
	RangeYear      RangePreset = "year"
)

// Window returns the [from, to] interval for the preset, ending now.
func (r RangePreset) Window(now time.Time) (from, to time.Time) {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7), now
	case RangeMonth:
		return now.AddDate(0, -1, 0), now
	case RangeSixMonths:
		return now.AddDate(0, -6, 0), now
	case RangeYear:
		return now.AddDate(-1, 0, 0), now
	default:
		return now.AddDate(0, 0, -7), now
	}
}

// DefaultBucket returns the natural bucket unit for the preset.
func (r RangePreset) DefaultBucket() BucketUnit {
	switch r {
	case RangeWeek, RangeMonth:
		return BucketDay
	case RangeSixMonths:
		return BucketWeek
	case RangeYear:
		return BucketMonth
	default:
		return BucketDay
	}
}

// =============================================================================
// BUCKETS
// =============================================================================

type BucketUnit string

const (
	BucketDay   BucketUnit = "day"
	BucketWeek  BucketUnit = "week"
	BucketMonth BucketUnit = "month"
)

func (u BucketUnit) anchor(t time.Time) time.Time {
	switch u {
	case BucketWeek:
		return StartOfWeek(t)
	case BucketMonth:
		return StartOfMonth(t)
	default:
		return DayOf(t)
	}
}

func (u BucketUnit) label(anchor time.Time) string {
	switch u {
	case BucketMonth:
		return anchor.Format("Jan 2006")
	default:
		return anchor.Format("Jan 2")
	}
}

// Bucket is one aggregation slot.
type Bucket struct {
	Start time.Time
	Label string

	ShiftCount    int
	TotalPay      decimal.Decimal
	TaxedPay      decimal.Decimal
	WorkedSeconds int64
	BreakSeconds  int64
}

// =============================================================================
// REPORT
// =============================================================================

// StatsFilter selects and shapes the aggregation.
type StatsFilter struct {
	From   time.Time
	To     time.Time
	Bucket BucketUnit
	Job    *JobID // nil = all jobs
}

// StatsReport is the aggregation result, buckets in chronological order.
type StatsReport struct {
	Buckets []Bucket

	ShiftCount    int
	TotalPay      decimal.Decimal
	TaxedPay      decimal.Decimal
	WorkedSeconds int64
	BreakSeconds  int64
}

// Summarize buckets and totals the shift collection. Shifts whose
// start falls outside [From, To] or that miss the job filter are
// skipped; uncompleted shifts (zero end) are skipped too.
func Summarize(shifts []Shift, f StatsFilter) StatsReport {
	unit := f.Bucket
	if unit == "" {
		unit = BucketDay
	}

	buckets := map[time.Time]*Bucket{}
	report := StatsReport{TotalPay: decimal.Zero, TaxedPay: decimal.Zero}

	for _, s := range shifts {
		if s.End.IsZero() {
			continue
		}
		if f.Job != nil && s.JobID != *f.Job {
			continue
		}
		if s.Start.Before(f.From) || s.Start.After(f.To) {
			continue
		}

		anchor := unit.anchor(s.Start)
		b, ok := buckets[anchor]
		if !ok {
			b = &Bucket{
				Start:    anchor,
				Label:    unit.label(anchor),
				TotalPay: decimal.Zero,
				TaxedPay: decimal.Zero,
			}
			buckets[anchor] = b
		}

		b.ShiftCount++
		b.TotalPay = b.TotalPay.Add(s.TotalPay)
		b.TaxedPay = b.TaxedPay.Add(s.TaxedPay)
		b.WorkedSeconds += s.DurationSeconds
		b.BreakSeconds += s.BreakSeconds

		report.ShiftCount++
		report.TotalPay = report.TotalPay.Add(s.TotalPay)
		report.TaxedPay = report.TaxedPay.Add(s.TaxedPay)
		report.WorkedSeconds += s.DurationSeconds
		report.BreakSeconds += s.BreakSeconds
	}

	for _, b := range buckets {
		report.Buckets = append(report.Buckets, *b)
	}
	sort.Slice(report.Buckets, func(i, j int) bool {
		return report.Buckets[i].Start.Before(report.Buckets[j].Start)
	})
	return report
}
