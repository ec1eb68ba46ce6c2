/*
Package engine provides the core pay and scheduling computation engine.

PURPOSE:
  This package contains the types and algorithms for computing shift pay
  (overtime, multipliers, tax, tips, breaks), bucketing shifts into pay
  periods, expanding recurring scheduled shifts, and aggregating
  statistics over shift collections.

KEY CONCEPTS IN THIS FILE (types.go):
  - Job: Root aggregate owning shifts, pay periods, and scheduled shifts
  - Shift: A single worked time interval with its pay configuration
  - Break: A paid or unpaid pause inside a shift
  - PayPeriod: A fixed-length window accumulating shift totals
  - ScheduledShift: A future shift, possibly part of a repeat series

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all money math to avoid
     floating-point errors.
  2. Type Safety: Strong typing for IDs prevents mixing job/shift IDs.
  3. Plain Data: Records reference each other by ID only, never by
     pointer. Relationships are resolved via store lookups.
  4. Derived Fields: Computed pay fields are cached on the Shift record
     at save time; the engine recomputes them, the store persists them.

USAGE:
  breakdown, err := engine.ComputePay(engine.PayInput{
      Start:     start,
      End:       end,
      HourlyPay: decimal.NewFromInt(20),
  })

SEE ALSO:
  - pay.go: Pay breakdown calculation
  - period.go: Pay period windows and recomputation
  - recurrence.go: Repeat series expansion and cancellation
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type JobID string
type ShiftID string
type PeriodID string
type ScheduleID string

// =============================================================================
// MONEY HELPERS
// =============================================================================

// All money values are decimal.Decimal. These helpers keep construction
// and the 2-decimal rounding convention in one place.

// Dec builds a decimal from a float input (API/config boundary only).
func Dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// DecInt builds a decimal from an integer.
func DecInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// Round2 rounds to 2 decimal places, half away from zero.
// All displayed money values go through this.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// HoursFromSeconds converts a second count to decimal hours.
func HoursFromSeconds(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600))
}

// =============================================================================
// OVERTIME / MULTIPLIER CONFIGURATION
// =============================================================================

// OvertimeConfig controls the overtime split for a shift or job.
// Rate is the pay scaling for hours beyond AppliedAfter seconds.
type OvertimeConfig struct {
	Enabled      bool
	Rate         decimal.Decimal // 1.25 - 3.0
	AppliedAfter int64           // threshold in seconds of worked time
}

const (
	MinOvertimeRate = 1.25
	MaxOvertimeRate = 3.0

	MinMultiplier = 1.0
	MaxMultiplier = 3.0

	MaxTaxPercent = 50.0
)

// =============================================================================
// JOB - Root aggregate
// =============================================================================

type Job struct {
	ID         JobID
	Name       string
	Title      string
	HourlyPay  decimal.Decimal
	TaxPercent decimal.Decimal
	Overtime   OvertimeConfig
	PayPeriods PayPeriodConfig

	// Display metadata, opaque to the engine.
	ColorHex string
	Icon     string

	CreatedAt time.Time
}

// =============================================================================
// SHIFT - A worked interval
// =============================================================================

type Shift struct {
	ID    ShiftID
	JobID JobID

	Start time.Time
	End   time.Time

	HourlyPay         decimal.Decimal
	Multiplier        decimal.Decimal // 1.0 - 3.0, only applied when enabled
	MultiplierEnabled bool
	Overtime          OvertimeConfig
	TaxPercent        decimal.Decimal // 0 - 50
	Tips              decimal.Decimal
	AddTipsToTotal    bool

	Notes string
	Tags  []string

	Breaks []Break

	// Derived fields, cached at save time. DurationSeconds excludes
	// unpaid break time.
	TotalPay        decimal.Decimal
	TaxedPay        decimal.Decimal
	DurationSeconds int64
	BreakSeconds    int64
}

// WorkedSeconds returns the raw interval length minus the given unpaid
// break seconds. May be negative for degenerate input; callers decide.
func (s Shift) WorkedSeconds(unpaidBreakSeconds int64) int64 {
	return int64(s.End.Sub(s.Start).Seconds()) - unpaidBreakSeconds
}

// EffectiveMultiplier resolves the multiplier flag: disabled means 1.0.
func (s Shift) EffectiveMultiplier() decimal.Decimal {
	if !s.MultiplierEnabled || s.Multiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return s.Multiplier
}

// =============================================================================
// BREAK - Owned by exactly one shift
// =============================================================================

type Break struct {
	ID     string
	Start  time.Time
	End    time.Time
	Unpaid bool
}

// Seconds returns the break length. Negative intervals count as zero.
func (b Break) Seconds() int64 {
	s := int64(b.End.Sub(b.Start).Seconds())
	if s < 0 {
		return 0
	}
	return s
}

// =============================================================================
// PAY PERIOD - Derived accumulator for a fixed window
// =============================================================================

// PayPeriod is a contiguous window of PayPeriodConfig.DurationDays days.
// Start and End are dates (midnight UTC); End is the last day of the
// window, inclusive through end of day.
type PayPeriod struct {
	ID    PeriodID
	JobID JobID
	Start time.Time
	End   time.Time

	// Accumulators, recomputed whenever the shift set changes.
	ShiftCount   int
	TotalPay     decimal.Decimal
	TotalSeconds int64

	// Identifier of the scheduled end-of-period reminder, if any.
	NotificationID string
}

// Contains reports whether the timestamp falls in [Start, end of End day].
func (p PayPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End.AddDate(0, 0, 1))
}

// EndOfDay returns the exclusive upper bound of the period.
func (p PayPeriod) EndOfDay() time.Time {
	return p.End.AddDate(0, 0, 1)
}

// =============================================================================
// SCHEDULED SHIFT - Future shift template/instance
// =============================================================================

type ScheduledShift struct {
	ID    ScheduleID
	JobID JobID
	Start time.Time
	End   time.Time

	// Instances of the same repeat series share RepeatID.
	RepeatID  string
	Repeating bool

	// External calendar mirror, empty when not synced.
	CalendarEventID string

	NotifyMe       bool
	ReminderBefore time.Duration
}

// =============================================================================
// WARNINGS - Non-fatal diagnostics returned alongside results
// =============================================================================

type WarningCode string

const (
	WarnBreakOutOfBounds  WarningCode = "break_out_of_bounds"
	WarnNoPeriodCoverage  WarningCode = "no_period_coverage"
	WarnSeriesNotFound    WarningCode = "series_not_found"
)

type Warning struct {
	Code    WarningCode
	Message string
	Ref     string // offending break/shift/series identifier
}
