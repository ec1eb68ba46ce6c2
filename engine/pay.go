/*
pay.go - Pay breakdown calculation

PURPOSE:
  Computes gross pay, overtime split, tax, and tips for one shift.
  This is the central calculation that answers "how much did this
  shift earn?"

ALGORITHM:
  1. worked = (end - start) - unpaid break seconds
  2. Split worked at the overtime threshold (when overtime is enabled)
  3. basePay  = regularHours  x hourlyPay x multiplier
     overtime = overtimeHours x hourlyPay x overtimeRate x multiplier
  4. totalPay = round2(basePay + overtime)
  5. taxedPay = round2(totalPay x (1 - tax/100))
  6. Tips are added after tax when requested. Tips are never taxed.

PRECISION:
  All arithmetic in decimal.Decimal. Rounding is half away from zero
  to 2 decimals, applied once to the total and once to the taxed
  total; the breakdown components are rounded independently for
  display.

EDGE CASES:
  - end <= start: hard error (InvalidDurationError)
  - worked <= 0 after unpaid breaks: zero pay, no error

SEE ALSO:
  - breaks.go: Produces the unpaid break seconds input
  - types.go: Round2, HoursFromSeconds
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY INPUT / BREAKDOWN
// =============================================================================

// PayInput is everything the calculator needs for one shift.
type PayInput struct {
	Start time.Time
	End   time.Time

	HourlyPay         decimal.Decimal
	Multiplier        decimal.Decimal
	MultiplierEnabled bool

	Overtime OvertimeConfig

	TaxPercent     decimal.Decimal
	Tips           decimal.Decimal
	AddTipsToTotal bool

	UnpaidBreakSeconds int64
}

// PayBreakdown is the computed result. All money fields are rounded to
// 2 decimals.
type PayBreakdown struct {
	WorkedSeconds   int64
	RegularSeconds  int64
	OvertimeSeconds int64

	BasePay          decimal.Decimal // regular hours at multiplied rate
	OvertimeEarnings decimal.Decimal // overtime hours at overtime rate
	TotalPay         decimal.Decimal // base + overtime, before tax
	TaxedPay         decimal.Decimal // after tax, tips included when requested
	Tips             decimal.Decimal
	TipsIncluded     bool
}

// =============================================================================
// CALCULATOR
// =============================================================================

// ComputePay computes the pay breakdown for one shift.
// Returns InvalidDurationError when end is not after start.
func ComputePay(in PayInput) (PayBreakdown, error) {
	if !in.End.After(in.Start) {
		return PayBreakdown{}, &InvalidDurationError{Start: in.Start, End: in.End}
	}

	out := PayBreakdown{
		BasePay:          decimal.Zero,
		OvertimeEarnings: decimal.Zero,
		TotalPay:         decimal.Zero,
		TaxedPay:         decimal.Zero,
		Tips:             in.Tips,
		TipsIncluded:     in.AddTipsToTotal,
	}

	worked := int64(in.End.Sub(in.Start).Seconds()) - in.UnpaidBreakSeconds
	if worked <= 0 {
		// Breaks swallowed the whole shift. Zero pay, but tips still count.
		if in.AddTipsToTotal {
			out.TaxedPay = Round2(in.Tips)
		}
		return out, nil
	}
	out.WorkedSeconds = worked

	regular, overtime := splitOvertime(worked, in.Overtime)
	out.RegularSeconds = regular
	out.OvertimeSeconds = overtime

	multiplier := decimal.NewFromInt(1)
	if in.MultiplierEnabled && !in.Multiplier.IsZero() {
		multiplier = in.Multiplier
	}

	basePay := HoursFromSeconds(regular).Mul(in.HourlyPay).Mul(multiplier)
	overtimePay := decimal.Zero
	if overtime > 0 {
		overtimePay = HoursFromSeconds(overtime).
			Mul(in.HourlyPay).
			Mul(in.Overtime.Rate).
			Mul(multiplier)
	}

	total := Round2(basePay.Add(overtimePay))
	out.BasePay = Round2(basePay)
	out.OvertimeEarnings = Round2(overtimePay)
	out.TotalPay = total

	taxed := total
	if in.TaxPercent.IsPositive() {
		keep := decimal.NewFromInt(1).Sub(in.TaxPercent.Div(decimal.NewFromInt(100)))
		taxed = total.Mul(keep)
	}
	if in.AddTipsToTotal {
		taxed = taxed.Add(in.Tips)
	}
	out.TaxedPay = Round2(taxed)

	return out, nil
}

// splitOvertime partitions worked seconds at the threshold.
func splitOvertime(worked int64, cfg OvertimeConfig) (regular, overtime int64) {
	if cfg.Enabled && cfg.AppliedAfter > 0 && worked > cfg.AppliedAfter {
		return cfg.AppliedAfter, worked - cfg.AppliedAfter
	}
	return worked, 0
}

// =============================================================================
// SHIFT RECALCULATION - Break summary + pay in one pass
// =============================================================================

// ShiftResult bundles the pay breakdown with break diagnostics.
type ShiftResult struct {
	Breakdown PayBreakdown
	Breaks    BreakSummary
	Warnings  []Warning
}

// RecalculateShift aggregates the shift's breaks, computes pay, and
// refreshes the cached derived fields on the record. The caller
// persists the updated shift.
func RecalculateShift(s *Shift) (ShiftResult, error) {
	breaks := SummarizeBreaks(s.Start, s.End, s.Breaks)

	breakdown, err := ComputePay(PayInput{
		Start:              s.Start,
		End:                s.End,
		HourlyPay:          s.HourlyPay,
		Multiplier:         s.Multiplier,
		MultiplierEnabled:  s.MultiplierEnabled,
		Overtime:           s.Overtime,
		TaxPercent:         s.TaxPercent,
		Tips:               s.Tips,
		AddTipsToTotal:     s.AddTipsToTotal,
		UnpaidBreakSeconds: breaks.UnpaidSeconds,
	})
	if err != nil {
		return ShiftResult{}, err
	}

	s.TotalPay = breakdown.TotalPay
	s.TaxedPay = breakdown.TaxedPay
	s.DurationSeconds = breakdown.WorkedSeconds
	s.BreakSeconds = breaks.TotalSeconds

	return ShiftResult{
		Breakdown: breakdown,
		Breaks:    breaks,
		Warnings:  breaks.Warnings,
	}, nil
}
